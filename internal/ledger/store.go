package ledger

import (
	"context"
	"time"
)

// CreateWithdrawalInput is the immutable part of a new withdrawal.
type CreateWithdrawalInput struct {
	AccountID   string
	Amount      Cents
	Destination string
}

// ListFilter narrows ListWithdrawals. Zero value lists everything.
type ListFilter struct {
	AccountID string // "" = all accounts
	Status    Status // "" = any status
}

// Store persists the per-account ledger. All mutation of withdrawal rows goes
// through CreateWithdrawal and ResolveWithdrawal; nothing else writes them.
//
// Implementations must make CreateWithdrawal atomic with its balance check
// (two concurrent requests may not both reserve the same funds) and make
// ResolveWithdrawal a compare-and-set on the pending status (exactly one of
// two concurrent resolutions wins). Operations touching different accounts
// may proceed fully in parallel.
type Store interface {
	// AppendEarning records an immutable earning event.
	AppendEarning(ctx context.Context, e EarningEvent) error

	// AvailableBalance derives the balance at asOf: earnings minus
	// outstanding (pending+approved) withdrawals. Returns ErrInconsistency
	// alongside the raw figure if the sum is negative.
	AvailableBalance(ctx context.Context, accountID string, asOf time.Time) (Cents, error)

	// CreateWithdrawal checks available balance and inserts a pending
	// withdrawal as one atomic unit. Returns a ReasonInsufficientBalance
	// rejection when the amount exceeds the balance at commit time.
	CreateWithdrawal(ctx context.Context, in CreateWithdrawalInput, now time.Time) (WithdrawalEvent, error)

	// ResolveWithdrawal transitions a pending withdrawal to a terminal
	// status, setting ProcessedAt. Returns a ReasonAlreadyResolved rejection
	// if the withdrawal is no longer pending, ErrNotFound if it never existed.
	ResolveWithdrawal(ctx context.Context, withdrawalID string, decision Decision, note *string, now time.Time) (WithdrawalEvent, error)

	// GetWithdrawal loads a single withdrawal.
	GetWithdrawal(ctx context.Context, withdrawalID string) (WithdrawalEvent, error)

	// ListWithdrawals returns withdrawals newest first.
	ListWithdrawals(ctx context.Context, f ListFilter) ([]WithdrawalEvent, error)

	// ListEarnings returns an account's earning events newest first.
	ListEarnings(ctx context.Context, accountID string) ([]EarningEvent, error)
}
