package alerts

import "time"

// Task type constants
const (
	TaskWelcomeEmail        = "email:welcome"
	TaskPasswordReset       = "email:password_reset"
	TaskWithdrawalRequested = "email:withdrawal_requested"
	TaskWithdrawalResolved  = "email:withdrawal_resolved"
	TaskRoyaltyCredited     = "email:royalty_credited"
	TaskReleaseReviewed     = "email:release_reviewed"
	TaskAdminAlert          = "email:admin_alert"
)

// Common envelope for email-like notifications
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Welcome email payload
type WelcomeEmailPayload struct {
	UserID   string        `json:"user_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}

// Password reset payload
type PasswordResetPayload struct {
	UserID    string        `json:"user_id"`
	Email     string        `json:"email"`
	ResetURL  string        `json:"reset_url"`
	Envelope  EmailEnvelope `json:"envelope"`
	Requested time.Time     `json:"requested"`
}

// Withdrawal requested payload (sent to the artist, plus an admin alert)
type WithdrawalRequestedPayload struct {
	WithdrawalID string        `json:"withdrawal_id"`
	ArtistID     string        `json:"artist_id"`
	Email        string        `json:"email"`
	Amount       string        `json:"amount"`
	Destination  string        `json:"destination"`
	Envelope     EmailEnvelope `json:"envelope"`
	SentAt       time.Time     `json:"sent_at"`
}

// Withdrawal resolved payload (sent to the artist on approve/decline)
type WithdrawalResolvedPayload struct {
	WithdrawalID string        `json:"withdrawal_id"`
	ArtistID     string        `json:"artist_id"`
	Email        string        `json:"email"`
	Amount       string        `json:"amount"`
	Status       string        `json:"status"`
	Note         string        `json:"note,omitempty"`
	Envelope     EmailEnvelope `json:"envelope"`
	SentAt       time.Time     `json:"sent_at"`
}

// Royalty credited payload (sent to the artist)
type RoyaltyCreditedPayload struct {
	EarningID   string        `json:"earning_id"`
	ArtistID    string        `json:"artist_id"`
	Email       string        `json:"email"`
	Amount      string        `json:"amount"`
	Description string        `json:"description"`
	Envelope    EmailEnvelope `json:"envelope"`
	SentAt      time.Time     `json:"sent_at"`
}

// Release reviewed payload (sent to the artist after admin review)
type ReleaseReviewedPayload struct {
	ReleaseID string        `json:"release_id"`
	ArtistID  string        `json:"artist_id"`
	Email     string        `json:"email"`
	Title     string        `json:"title"`
	Status    string        `json:"status"`
	Note      string        `json:"note,omitempty"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// Admin alert payload
type AdminAlertPayload struct {
	AdminID  string        `json:"admin_id"`
	Severity string        `json:"severity"` // info|warning|critical
	Message  string        `json:"message"`
	Envelope EmailEnvelope `json:"envelope"`
	SentAt   time.Time     `json:"sent_at"`
}
