package ledger

import (
	"errors"
	"fmt"
)

// Reason classifies why a withdrawal operation was rejected.
type Reason string

const (
	// Client input errors, recoverable by resubmission.
	ReasonMalformedAmount     Reason = "malformed_amount"
	ReasonBelowMinimum        Reason = "below_minimum"
	ReasonInvalidDestination  Reason = "invalid_destination"
	ReasonInsufficientBalance Reason = "insufficient_balance"

	// State conflict: the withdrawal was already resolved by someone else.
	ReasonAlreadyResolved Reason = "already_resolved"
)

// Rejection is a business-rule failure. It is an expected outcome, not an
// infrastructure error, and is surfaced verbatim to the requester.
type Rejection struct {
	Reason Reason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return string(r.Reason)
	}
	return fmt.Sprintf("%s: %s", r.Reason, r.Detail)
}

func reject(reason Reason, format string, args ...any) *Rejection {
	return &Rejection{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// AsRejection unwraps err into a Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

var (
	// ErrUnavailable marks a transient datastore failure. Callers retry a
	// bounded number of times; no partial state is left behind.
	ErrUnavailable = errors.New("ledger unavailable")

	// ErrInconsistency means a computed balance went negative. This is a bug
	// or a lost atomicity guarantee, never a user error: it must be logged
	// loudly and never silently clamped away.
	ErrInconsistency = errors.New("ledger inconsistency: negative balance")

	// ErrNotFound means the referenced withdrawal or account does not exist.
	ErrNotFound = errors.New("not found")
)
