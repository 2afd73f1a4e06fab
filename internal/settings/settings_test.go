package settings

import (
	"context"
	"testing"
)

func TestGetFallsBackToDefault(t *testing.T) {
	s := New(nil)
	if got := s.Get(context.Background(), "nonexistent_key", "fallback"); got != "fallback" {
		t.Fatalf("got %q, want fallback", got)
	}
}

func TestGetEnvOverride(t *testing.T) {
	t.Setenv("MINIMUM_WITHDRAWAL_CENTS", "5000")
	s := New(nil)
	if got := s.MinimumWithdrawalCents(context.Background()); got != 5000 {
		t.Fatalf("got %d, want 5000", got)
	}
}

func TestGetInt64Unparseable(t *testing.T) {
	t.Setenv("MINIMUM_WITHDRAWAL_CENTS", "lots")
	s := New(nil)
	if got := s.MinimumWithdrawalCents(context.Background()); got != DefaultMinimumWithdrawalCents {
		t.Fatalf("got %d, want default %d", got, DefaultMinimumWithdrawalCents)
	}
}
