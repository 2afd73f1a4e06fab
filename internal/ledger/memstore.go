package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store used by tests and by local development
// without Postgres. Each account has its own lock, so operations on
// different accounts do not serialize against each other.
type MemStore struct {
	mu       sync.Mutex
	accounts map[string]*memAccount
	owner    map[string]string // withdrawal id -> account id
}

type memAccount struct {
	mu          sync.Mutex
	earnings    []EarningEvent
	withdrawals []WithdrawalEvent
}

func NewMemStore() *MemStore {
	return &MemStore{
		accounts: make(map[string]*memAccount),
		owner:    make(map[string]string),
	}
}

func (s *MemStore) account(id string) *memAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		a = &memAccount{}
		s.accounts[id] = a
	}
	return a
}

func (s *MemStore) AppendEarning(_ context.Context, e EarningEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	a := s.account(e.AccountID)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.earnings = append(a.earnings, e)
	return nil
}

func (s *MemStore) AvailableBalance(_ context.Context, accountID string, asOf time.Time) (Cents, error) {
	a := s.account(accountID)
	a.mu.Lock()
	defer a.mu.Unlock()
	return Summarize(a.earnings, a.withdrawals, asOf)
}

func (s *MemStore) CreateWithdrawal(_ context.Context, in CreateWithdrawalInput, now time.Time) (WithdrawalEvent, error) {
	a := s.account(in.AccountID)
	a.mu.Lock()
	defer a.mu.Unlock()

	balance, err := Summarize(a.earnings, a.withdrawals, now)
	if err != nil {
		return WithdrawalEvent{}, err
	}
	if in.Amount > balance {
		return WithdrawalEvent{}, reject(ReasonInsufficientBalance,
			"requested %s but only %s is available", in.Amount.String(), balance.String())
	}

	w := WithdrawalEvent{
		ID:          uuid.New().String(),
		AccountID:   in.AccountID,
		Amount:      in.Amount,
		Destination: in.Destination,
		Status:      StatusPending,
		RequestedAt: now,
	}
	a.withdrawals = append(a.withdrawals, w)

	s.mu.Lock()
	s.owner[w.ID] = in.AccountID
	s.mu.Unlock()
	return w, nil
}

func (s *MemStore) ResolveWithdrawal(_ context.Context, withdrawalID string, decision Decision, note *string, now time.Time) (WithdrawalEvent, error) {
	s.mu.Lock()
	accountID, ok := s.owner[withdrawalID]
	s.mu.Unlock()
	if !ok {
		return WithdrawalEvent{}, ErrNotFound
	}

	a := s.account(accountID)
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.withdrawals {
		w := &a.withdrawals[i]
		if w.ID != withdrawalID {
			continue
		}
		if w.Status != StatusPending {
			return WithdrawalEvent{}, reject(ReasonAlreadyResolved,
				"withdrawal is already %s", w.Status)
		}
		w.Status = Status(decision)
		processed := now
		w.ProcessedAt = &processed
		w.Note = note
		return *w, nil
	}
	return WithdrawalEvent{}, ErrNotFound
}

func (s *MemStore) GetWithdrawal(_ context.Context, withdrawalID string) (WithdrawalEvent, error) {
	s.mu.Lock()
	accountID, ok := s.owner[withdrawalID]
	s.mu.Unlock()
	if !ok {
		return WithdrawalEvent{}, ErrNotFound
	}
	a := s.account(accountID)
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, w := range a.withdrawals {
		if w.ID == withdrawalID {
			return w, nil
		}
	}
	return WithdrawalEvent{}, ErrNotFound
}

func (s *MemStore) ListWithdrawals(_ context.Context, f ListFilter) ([]WithdrawalEvent, error) {
	s.mu.Lock()
	accounts := make([]*memAccount, 0, len(s.accounts))
	for id, a := range s.accounts {
		if f.AccountID != "" && id != f.AccountID {
			continue
		}
		accounts = append(accounts, a)
	}
	s.mu.Unlock()

	var out []WithdrawalEvent
	for _, a := range accounts {
		a.mu.Lock()
		for _, w := range a.withdrawals {
			if f.Status != "" && w.Status != f.Status {
				continue
			}
			out = append(out, w)
		}
		a.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out, nil
}

func (s *MemStore) ListEarnings(_ context.Context, accountID string) ([]EarningEvent, error) {
	a := s.account(accountID)
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]EarningEvent, len(a.earnings))
	copy(out, a.earnings)
	sort.Slice(out, func(i, j int) bool { return out[i].EarnedAt.After(out[j].EarnedAt) })
	return out, nil
}
