package ledger

import (
	"fmt"
	"time"
)

// Cents is a fixed-point currency amount in minor units.
// All ledger arithmetic is integer; floating point is never used for money.
type Cents int64

// String renders the amount as a decimal currency string, e.g. "25.00".
func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Status of a withdrawal. A withdrawal is born pending and moves exactly once
// to approved or declined.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
)

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusDeclined:
		return true
	case StatusPending:
		return false
	}
	return false
}

// Decision is the admin resolution of a pending withdrawal.
type Decision string

const (
	DecisionApprove Decision = "approved"
	DecisionDecline Decision = "declined"
)

// EarningEvent is an append-only royalty credit. Corrections are made by
// inserting an offsetting negative-amount event, never by mutating history.
type EarningEvent struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	Amount          Cents     `json:"amount"`
	EarnedAt        time.Time `json:"earned_at"`
	Description     string    `json:"description"`
	SourceReleaseID *string   `json:"source_release_id,omitempty"`
}

// WithdrawalEvent is a payout request. Amount, Destination, AccountID and
// RequestedAt are immutable after creation; only the status transition
// mutates Status, ProcessedAt and Note.
type WithdrawalEvent struct {
	ID          string     `json:"id"`
	AccountID   string     `json:"account_id"`
	Amount      Cents      `json:"amount"`
	Destination string     `json:"destination"`
	Status      Status     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	Note        *string    `json:"note,omitempty"`
}

// Outstanding reports whether the withdrawal currently counts against
// available balance. Declined withdrawals release their reservation the
// moment the decline is recorded.
func (w WithdrawalEvent) Outstanding() bool {
	switch w.Status {
	case StatusPending, StatusApproved:
		return true
	case StatusDeclined:
		return false
	}
	return false
}
