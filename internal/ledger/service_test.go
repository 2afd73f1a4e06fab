package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingNotifier struct {
	created  chan WithdrawalEvent
	resolved chan WithdrawalEvent
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		created:  make(chan WithdrawalEvent, 16),
		resolved: make(chan WithdrawalEvent, 16),
	}
}

func (n *recordingNotifier) WithdrawalCreated(w WithdrawalEvent)  { n.created <- w }
func (n *recordingNotifier) WithdrawalResolved(w WithdrawalEvent) { n.resolved <- w }

func waitEvent(t *testing.T, ch chan WithdrawalEvent) WithdrawalEvent {
	t.Helper()
	select {
	case w := <-ch:
		return w
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return WithdrawalEvent{}
	}
}

func newTestService(t *testing.T) (*Service, *MemStore, *recordingNotifier) {
	t.Helper()
	store := NewMemStore()
	notifier := newRecordingNotifier()
	svc := NewService(store, Validator{Minimum: 2500}, notifier)
	return svc, store, notifier
}

func mustCredit(t *testing.T, svc *Service, account string, amount Cents) {
	t.Helper()
	if _, err := svc.CreditEarning(context.Background(), account, amount, "royalty payment", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}
}

func mustBalance(t *testing.T, svc *Service, account string) Cents {
	t.Helper()
	balance, err := svc.AvailableBalance(context.Background(), account)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return balance
}

func TestWithdrawalScenario(t *testing.T) {
	svc, _, notifier := newTestService(t)
	ctx := context.Background()

	mustCredit(t, svc, "artist-1", 10000)
	if got := mustBalance(t, svc, "artist-1"); got != 10000 {
		t.Fatalf("balance after credit: got %s, want 100.00", got)
	}

	w, err := svc.RequestWithdrawal(ctx, "artist-1", "30.00", "wallet-A")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if w.Status != StatusPending {
		t.Fatalf("status: got %s, want pending", w.Status)
	}
	if w.ProcessedAt != nil {
		t.Fatal("pending withdrawal must not have processed_at")
	}
	if got := mustBalance(t, svc, "artist-1"); got != 7000 {
		t.Fatalf("balance after request: got %s, want 70.00", got)
	}
	if created := waitEvent(t, notifier.created); created.ID != w.ID {
		t.Fatalf("notified wrong withdrawal: %s", created.ID)
	}

	resolved, err := svc.Resolve(ctx, w.ID, DecisionApprove, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != StatusApproved {
		t.Fatalf("status: got %s, want approved", resolved.Status)
	}
	if resolved.ProcessedAt == nil {
		t.Fatal("approved withdrawal must have processed_at set")
	}
	// Approval is a no-op on balance: the pending amount was already reserved.
	if got := mustBalance(t, svc, "artist-1"); got != 7000 {
		t.Fatalf("balance after approval: got %s, want 70.00", got)
	}
	waitEvent(t, notifier.resolved)

	_, err = svc.RequestWithdrawal(ctx, "artist-1", "80.00", "wallet-A")
	rej, ok := AsRejection(err)
	if !ok || rej.Reason != ReasonInsufficientBalance {
		t.Fatalf("expected InsufficientBalance, got %v", err)
	}
}

func TestBelowMinimumCreatesNoEvent(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	mustCredit(t, svc, "artist-1", 4000)

	if _, err := svc.RequestWithdrawal(ctx, "artist-1", "25.00", "wallet-A"); err != nil {
		t.Fatalf("exact minimum should pass: %v", err)
	}

	_, err := svc.RequestWithdrawal(ctx, "artist-1", "24.99", "wallet-A")
	rej, ok := AsRejection(err)
	if !ok || rej.Reason != ReasonBelowMinimum {
		t.Fatalf("expected BelowMinimum, got %v", err)
	}

	withdrawals, err := store.ListWithdrawals(ctx, ListFilter{AccountID: "artist-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(withdrawals) != 1 {
		t.Fatalf("rejected request must create no event: got %d withdrawals", len(withdrawals))
	}
}

func TestResolveIdempotence(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mustCredit(t, svc, "artist-1", 10000)
	w, err := svc.RequestWithdrawal(ctx, "artist-1", "30.00", "wallet-A")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	first, err := svc.Resolve(ctx, w.ID, DecisionDecline, nil)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	_, err = svc.Resolve(ctx, w.ID, DecisionApprove, nil)
	rej, ok := AsRejection(err)
	if !ok || rej.Reason != ReasonAlreadyResolved {
		t.Fatalf("expected AlreadyResolved, got %v", err)
	}

	// The losing call must leave the event untouched.
	after, err := svc.GetWithdrawal(ctx, w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.Status != StatusDeclined {
		t.Fatalf("status changed by losing resolve: got %s", after.Status)
	}
	if !after.ProcessedAt.Equal(*first.ProcessedAt) {
		t.Fatal("processed_at changed by losing resolve")
	}
}

func TestDeclineReleasesFunds(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mustCredit(t, svc, "artist-1", 5000)
	w, err := svc.RequestWithdrawal(ctx, "artist-1", "50.00", "wallet-A")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if got := mustBalance(t, svc, "artist-1"); got != 0 {
		t.Fatalf("balance after full reservation: got %s, want 0.00", got)
	}

	if _, err := svc.Resolve(ctx, w.ID, DecisionDecline, nil); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if got := mustBalance(t, svc, "artist-1"); got != 5000 {
		t.Fatalf("balance after decline: got %s, want 50.00", got)
	}
}

func TestConcurrentRequestsCannotOverdraw(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mustCredit(t, svc, "artist-1", 10000)

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.RequestWithdrawal(ctx, "artist-1", "100.00", "wallet-A")
		}(i)
	}
	close(start)
	wg.Wait()

	var successes, insufficient int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		rej, ok := AsRejection(err)
		if !ok || rej.Reason != ReasonInsufficientBalance {
			t.Fatalf("unexpected error: %v", err)
		}
		insufficient++
	}
	if successes != 1 {
		t.Fatalf("exactly one request may win: got %d successes", successes)
	}
	if insufficient != callers-1 {
		t.Fatalf("losers must see InsufficientBalance: got %d", insufficient)
	}
	if got := mustBalance(t, svc, "artist-1"); got != 0 {
		t.Fatalf("balance after race: got %s, want 0.00", got)
	}
}

func TestConcurrentResolveSingleWinner(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mustCredit(t, svc, "artist-1", 10000)
	w, err := svc.RequestWithdrawal(ctx, "artist-1", "30.00", "wallet-A")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	const callers = 6
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			decision := DecisionApprove
			if i%2 == 1 {
				decision = DecisionDecline
			}
			_, errs[i] = svc.Resolve(ctx, w.ID, decision, nil)
		}(i)
	}
	wg.Wait()

	var winners int
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		rej, ok := AsRejection(err)
		if !ok || rej.Reason != ReasonAlreadyResolved {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("exactly one resolve may win: got %d", winners)
	}
}

// flakyStore fails the first failures calls to CreateWithdrawal with a
// transient error, then delegates.
type flakyStore struct {
	Store
	mu       sync.Mutex
	failures int
}

func (f *flakyStore) CreateWithdrawal(ctx context.Context, in CreateWithdrawalInput, now time.Time) (WithdrawalEvent, error) {
	f.mu.Lock()
	fail := f.failures > 0
	if fail {
		f.failures--
	}
	f.mu.Unlock()
	if fail {
		return WithdrawalEvent{}, ErrUnavailable
	}
	return f.Store.CreateWithdrawal(ctx, in, now)
}

func TestTransientFailuresAreRetried(t *testing.T) {
	mem := NewMemStore()
	store := &flakyStore{Store: mem, failures: 2}
	svc := NewService(store, Validator{Minimum: 2500}, nil)
	ctx := context.Background()

	if _, err := svc.CreditEarning(ctx, "artist-1", 10000, "royalty payment", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}

	if _, err := svc.RequestWithdrawal(ctx, "artist-1", "30.00", "wallet-A"); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestTransientFailuresSurfaceAfterBoundedRetries(t *testing.T) {
	mem := NewMemStore()
	store := &flakyStore{Store: mem, failures: 100}
	svc := NewService(store, Validator{Minimum: 2500}, nil)
	ctx := context.Background()

	if _, err := svc.CreditEarning(ctx, "artist-1", 10000, "royalty payment", nil); err != nil {
		t.Fatalf("credit: %v", err)
	}

	_, err := svc.RequestWithdrawal(ctx, "artist-1", "30.00", "wallet-A")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable after retries, got %v", err)
	}

	// No partial state: a failed request never leaves an event behind.
	withdrawals, lerr := mem.ListWithdrawals(ctx, ListFilter{AccountID: "artist-1"})
	if lerr != nil {
		t.Fatalf("list: %v", lerr)
	}
	if len(withdrawals) != 0 {
		t.Fatalf("failed request left %d events", len(withdrawals))
	}
}

func TestCreditEarningRejectsZero(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.CreditEarning(context.Background(), "artist-1", 0, "noop", nil)
	rej, ok := AsRejection(err)
	if !ok || rej.Reason != ReasonMalformedAmount {
		t.Fatalf("expected MalformedAmount, got %v", err)
	}
}

func TestNegativeAdjustmentCredit(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mustCredit(t, svc, "artist-1", 10000)
	if _, err := svc.CreditEarning(ctx, "artist-1", -2500, "chargeback adjustment", nil); err != nil {
		t.Fatalf("adjustment: %v", err)
	}
	if got := mustBalance(t, svc, "artist-1"); got != 7500 {
		t.Fatalf("balance after adjustment: got %s, want 75.00", got)
	}
}
