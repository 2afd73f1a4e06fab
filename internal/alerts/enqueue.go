package alerts

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hibiken/asynq"
)

// ensureClient returns a usable client instance
func ensureClient() *asynq.Client {
	if client == nil {
		Init()
	}
	return client
}

// EnqueueWelcomeEmail schedules a welcome email to a new artist
func EnqueueWelcomeEmail(userID, email, name string) error {
	base := os.Getenv("APP_URL")
	if base == "" {
		base = "http://localhost:3000"
	}
	base = strings.TrimRight(base, "/")

	subject := fmt.Sprintf("Welcome to TuneDelivery, %s!", name)
	body := fmt.Sprintf("Hi %s, thanks for joining TuneDelivery.\n\nSubmit your first release: %s/releases/new\n\nIf the link doesn't work, copy and paste the URL above.", name, base)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := WelcomeEmailPayload{UserID: userID, Name: name, Email: email, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskWelcomeEmail, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueuePasswordReset schedules a password reset notification
func EnqueuePasswordReset(userID, email, resetURL, name string) error {
	expiry := os.Getenv("PASSWORD_RESET_EXP_MINUTES")
	if expiry == "" {
		expiry = "30"
	}
	subject := "Password reset instructions"
	body := fmt.Sprintf("Hello %s,\n\nWe received a request to reset your TuneDelivery password.\n\nTo proceed, open the link below:\n%s\n\nThis link expires in %s minutes. If you did not request this, no action is required.\n\n— TuneDelivery Team", name, resetURL, expiry)

	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := PasswordResetPayload{UserID: userID, Email: email, ResetURL: resetURL, Envelope: env, Requested: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskPasswordReset, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueWithdrawalRequested confirms a new payout request to the artist
func EnqueueWithdrawalRequested(withdrawalID, artistID, email, amount, destination string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Withdrawal request received",
		Body:    fmt.Sprintf("We received your request to withdraw %s to %s. You will hear from us once it has been reviewed.", amount, destination),
	}
	payload := WithdrawalRequestedPayload{
		WithdrawalID: withdrawalID, ArtistID: artistID, Email: email,
		Amount: amount, Destination: destination, Envelope: env, SentAt: time.Now(),
	}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskWithdrawalRequested, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueWithdrawalResolved notifies the artist of the review outcome
func EnqueueWithdrawalResolved(withdrawalID, artistID, email, amount, status, note string) error {
	subject := "Your withdrawal was approved"
	body := fmt.Sprintf("Your withdrawal of %s has been approved and is on its way.", amount)
	if status == "declined" {
		subject = "Your withdrawal was declined"
		body = fmt.Sprintf("Your withdrawal of %s was declined and the funds have been returned to your balance.", amount)
		if note != "" {
			body += "\n\nReviewer note: " + note
		}
	}
	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := WithdrawalResolvedPayload{
		WithdrawalID: withdrawalID, ArtistID: artistID, Email: email,
		Amount: amount, Status: status, Note: note, Envelope: env, SentAt: time.Now(),
	}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskWithdrawalResolved, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueRoyaltyCredited notifies the artist about a new earning
func EnqueueRoyaltyCredited(earningID, artistID, email, amount, description string) error {
	env := EmailEnvelope{
		To:      email,
		Subject: "Royalties credited to your account",
		Body:    fmt.Sprintf("%s has been credited to your TuneDelivery balance. %s", amount, description),
	}
	payload := RoyaltyCreditedPayload{
		EarningID: earningID, ArtistID: artistID, Email: email,
		Amount: amount, Description: description, Envelope: env, SentAt: time.Now(),
	}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskRoyaltyCredited, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueReleaseReviewed notifies the artist after a submission review
func EnqueueReleaseReviewed(releaseID, artistID, email, title, status, note string) error {
	subject := fmt.Sprintf("Your release %q was approved", title)
	body := fmt.Sprintf("Good news: %q passed review and is queued for distribution.", title)
	if status == "rejected" {
		subject = fmt.Sprintf("Your release %q needs changes", title)
		body = fmt.Sprintf("%q did not pass review.", title)
		if note != "" {
			body += "\n\nReviewer note: " + note
		}
	}
	env := EmailEnvelope{To: email, Subject: subject, Body: body}
	payload := ReleaseReviewedPayload{
		ReleaseID: releaseID, ArtistID: artistID, Email: email,
		Title: title, Status: status, Note: note, Envelope: env, SentAt: time.Now(),
	}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskReleaseReviewed, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("emails"))
	return err
}

// EnqueueAdminAlert sends an alert to admins
func EnqueueAdminAlert(adminID, severity, message string) error {
	to := os.Getenv("ADMIN_ALERT_EMAIL")
	if to == "" {
		to = "admin@tunedelivery.local"
	}
	env := EmailEnvelope{To: to, Subject: "Admin Alert", Body: message}
	payload := AdminAlertPayload{AdminID: adminID, Severity: severity, Message: message, Envelope: env, SentAt: time.Now()}
	b, _ := json.Marshal(payload)
	task := asynq.NewTask(TaskAdminAlert, b)
	_, err := ensureClient().Enqueue(task, asynq.Queue("alerts"))
	return err
}
