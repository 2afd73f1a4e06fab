package ledger

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func earning(amount Cents, at time.Time) EarningEvent {
	return EarningEvent{ID: "e", AccountID: "a", Amount: amount, EarnedAt: at}
}

func withdrawal(amount Cents, status Status, at time.Time) WithdrawalEvent {
	return WithdrawalEvent{ID: "w", AccountID: "a", Amount: amount, Status: status, RequestedAt: at}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		earnings    []EarningEvent
		withdrawals []WithdrawalEvent
		asOf        time.Time
		want        Cents
	}{
		{
			name: "empty ledger",
			asOf: t0,
			want: 0,
		},
		{
			name:     "earnings only",
			earnings: []EarningEvent{earning(10000, t0), earning(2500, t0)},
			asOf:     t0,
			want:     12500,
		},
		{
			name:        "pending reserves funds",
			earnings:    []EarningEvent{earning(10000, t0)},
			withdrawals: []WithdrawalEvent{withdrawal(3000, StatusPending, t0)},
			asOf:        t0.Add(time.Hour),
			want:        7000,
		},
		{
			name:        "approved still counts",
			earnings:    []EarningEvent{earning(10000, t0)},
			withdrawals: []WithdrawalEvent{withdrawal(3000, StatusApproved, t0)},
			asOf:        t0.Add(time.Hour),
			want:        7000,
		},
		{
			name:        "declined is excluded unconditionally",
			earnings:    []EarningEvent{earning(5000, t0)},
			withdrawals: []WithdrawalEvent{withdrawal(5000, StatusDeclined, t0)},
			asOf:        t0.Add(time.Hour),
			want:        5000,
		},
		{
			name:     "future earnings excluded by asOf",
			earnings: []EarningEvent{earning(10000, t0), earning(500, t0.Add(2 * time.Hour))},
			asOf:     t0.Add(time.Hour),
			want:     10000,
		},
		{
			name:        "future withdrawals excluded by asOf",
			earnings:    []EarningEvent{earning(10000, t0)},
			withdrawals: []WithdrawalEvent{withdrawal(4000, StatusPending, t0.Add(2 * time.Hour))},
			asOf:        t0.Add(time.Hour),
			want:        10000,
		},
		{
			name:     "negative adjustment offsets earlier credit",
			earnings: []EarningEvent{earning(10000, t0), earning(-2500, t0.Add(time.Minute))},
			asOf:     t0.Add(time.Hour),
			want:     7500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Summarize(tt.earnings, tt.withdrawals, tt.asOf)
			if err != nil {
				t.Fatalf("Summarize: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSummarizeOrderIndependent(t *testing.T) {
	earnings := []EarningEvent{
		earning(100, t0), earning(2500, t0), earning(-300, t0), earning(999, t0),
	}
	withdrawals := []WithdrawalEvent{
		withdrawal(500, StatusPending, t0),
		withdrawal(200, StatusApproved, t0),
		withdrawal(700, StatusDeclined, t0),
	}
	want, err := Summarize(earnings, withdrawals, t0)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		rng.Shuffle(len(earnings), func(a, b int) { earnings[a], earnings[b] = earnings[b], earnings[a] })
		rng.Shuffle(len(withdrawals), func(a, b int) { withdrawals[a], withdrawals[b] = withdrawals[b], withdrawals[a] })
		got, err := Summarize(earnings, withdrawals, t0)
		if err != nil {
			t.Fatalf("Summarize after shuffle: %v", err)
		}
		if got != want {
			t.Fatalf("shuffle %d: got %d, want %d", i, got, want)
		}
	}
}

func TestSummarizeNegativeIsInconsistency(t *testing.T) {
	earnings := []EarningEvent{earning(1000, t0)}
	withdrawals := []WithdrawalEvent{withdrawal(1500, StatusApproved, t0)}

	got, err := Summarize(earnings, withdrawals, t0.Add(time.Hour))
	if !errors.Is(err, ErrInconsistency) {
		t.Fatalf("expected ErrInconsistency, got %v", err)
	}
	if got != -500 {
		t.Fatalf("raw figure: got %d, want -500", got)
	}
}

func TestCentsString(t *testing.T) {
	tests := []struct {
		in   Cents
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{2500, "25.00"},
		{2499, "24.99"},
		{-300, "-3.00"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Cents(%d).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}
