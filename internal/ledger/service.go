package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Notifier receives lifecycle events. Delivery is best-effort: the service
// fires it asynchronously and a failed or slow notifier never fails or rolls
// back a committed transition.
type Notifier interface {
	WithdrawalCreated(w WithdrawalEvent)
	WithdrawalResolved(w WithdrawalEvent)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) WithdrawalCreated(WithdrawalEvent)  {}
func (NopNotifier) WithdrawalResolved(WithdrawalEvent) {}

// Transient store failures are retried this many times before giving up.
const maxAttempts = 3

// Service is the withdrawal lifecycle manager: it runs the validator,
// admits pending withdrawals atomically against the ledger, and drives the
// pending -> approved|declined transition.
type Service struct {
	store    Store
	validate Validator
	notifier Notifier
	now      func() time.Time
}

func NewService(store Store, v Validator, n Notifier) *Service {
	if n == nil {
		n = NopNotifier{}
	}
	return &Service{store: store, validate: v, notifier: n, now: time.Now}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// AvailableBalance returns the account's derived balance right now.
// An inconsistent (negative) ledger is logged loudly and returned as an
// error together with the raw figure; it is never clamped here.
func (s *Service) AvailableBalance(ctx context.Context, accountID string) (Cents, error) {
	balance, err := s.store.AvailableBalance(ctx, accountID, s.now())
	if errors.Is(err, ErrInconsistency) {
		log.Printf("[ledger][ALERT] negative balance for account %s: %s", accountID, balance.String())
	}
	return balance, err
}

// ValidateWithdrawal runs the full admission check without writing anything:
// amount well-formed, above minimum, destination acceptable, balance
// sufficient at this instant. The sufficient-balance answer is advisory; the
// authoritative check happens atomically inside RequestWithdrawal.
func (s *Service) ValidateWithdrawal(ctx context.Context, accountID, rawAmount, destination string) (Cents, error) {
	amount, rej := s.validate.Check(rawAmount, destination)
	if rej != nil {
		return 0, rej
	}
	balance, err := s.AvailableBalance(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if amount > balance {
		return 0, reject(ReasonInsufficientBalance,
			"requested %s but only %s is available", amount.String(), balance.String())
	}
	return amount, nil
}

// RequestWithdrawal validates and admits a new pending withdrawal. The
// balance check and the insert are one atomic unit in the store, so two
// concurrent requests can never jointly overdraw an account.
func (s *Service) RequestWithdrawal(ctx context.Context, accountID, rawAmount, destination string) (WithdrawalEvent, error) {
	amount, rej := s.validate.Check(rawAmount, destination)
	if rej != nil {
		return WithdrawalEvent{}, rej
	}

	in := CreateWithdrawalInput{AccountID: accountID, Amount: amount, Destination: destination}
	var w WithdrawalEvent
	err := s.withRetry(ctx, "request withdrawal", func() error {
		var err error
		w, err = s.store.CreateWithdrawal(ctx, in, s.now())
		return err
	})
	if err != nil {
		return WithdrawalEvent{}, err
	}

	go s.notifier.WithdrawalCreated(w)
	return w, nil
}

// Resolve moves a pending withdrawal to a terminal status. Of two concurrent
// resolutions exactly one wins; the loser gets a ReasonAlreadyResolved
// rejection. Approval leaves the balance untouched (the pending amount was
// already reserved); decline releases the reservation immediately.
func (s *Service) Resolve(ctx context.Context, withdrawalID string, decision Decision, note *string) (WithdrawalEvent, error) {
	switch decision {
	case DecisionApprove, DecisionDecline:
	default:
		return WithdrawalEvent{}, fmt.Errorf("unknown decision %q", decision)
	}

	var w WithdrawalEvent
	err := s.withRetry(ctx, "resolve withdrawal", func() error {
		var err error
		w, err = s.store.ResolveWithdrawal(ctx, withdrawalID, decision, note, s.now())
		return err
	})
	if err != nil {
		return WithdrawalEvent{}, err
	}

	go s.notifier.WithdrawalResolved(w)
	return w, nil
}

// CreditEarning appends an earning event. Negative amounts are permitted as
// offsetting adjustments; zero is not.
func (s *Service) CreditEarning(ctx context.Context, accountID string, amount Cents, description string, sourceReleaseID *string) (EarningEvent, error) {
	if amount == 0 {
		return EarningEvent{}, reject(ReasonMalformedAmount, "amount must be non-zero")
	}
	e := EarningEvent{
		ID:              uuid.New().String(),
		AccountID:       accountID,
		Amount:          amount,
		EarnedAt:        s.now(),
		Description:     description,
		SourceReleaseID: sourceReleaseID,
	}
	err := s.withRetry(ctx, "credit earning", func() error {
		return s.store.AppendEarning(ctx, e)
	})
	if err != nil {
		return EarningEvent{}, err
	}
	return e, nil
}

// GetWithdrawal loads one withdrawal.
func (s *Service) GetWithdrawal(ctx context.Context, withdrawalID string) (WithdrawalEvent, error) {
	return s.store.GetWithdrawal(ctx, withdrawalID)
}

// ListWithdrawals is a read-only projection over withdrawal events.
func (s *Service) ListWithdrawals(ctx context.Context, f ListFilter) ([]WithdrawalEvent, error) {
	return s.store.ListWithdrawals(ctx, f)
}

// ListEarnings is a read-only projection over earning events.
func (s *Service) ListEarnings(ctx context.Context, accountID string) ([]EarningEvent, error) {
	return s.store.ListEarnings(ctx, accountID)
}

// withRetry reruns op on transient store failures. Each attempt re-reads the
// latest ledger state inside the store transaction, so a retry is always a
// fresh validation, never a replay of stale state.
func (s *Service) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, ErrUnavailable) {
			return err
		}
		log.Printf("[ledger] %s attempt %d/%d failed: %v", op, attempt, maxAttempts, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
		}
	}
	return err
}
