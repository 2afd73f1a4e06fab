package ledger

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw        string
		want       Cents
		wantReason Reason
	}{
		{"30.00", 3000, ""},
		{"25", 2500, ""},
		{"0.01", 1, ""},
		{" 99.90 ", 9990, ""},
		{"", 0, ReasonMalformedAmount},
		{"abc", 0, ReasonMalformedAmount},
		{"10.001", 0, ReasonMalformedAmount},
		{"-5.00", 0, ReasonMalformedAmount},
		{"0", 0, ReasonMalformedAmount},
		{"1e3", 0, ReasonMalformedAmount},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, rej := ParseAmount(tt.raw)
			if tt.wantReason == "" {
				if rej != nil {
					t.Fatalf("unexpected rejection: %v", rej)
				}
				if got != tt.want {
					t.Fatalf("got %d, want %d", got, tt.want)
				}
				return
			}
			if rej == nil {
				t.Fatalf("expected rejection %s, got amount %d", tt.wantReason, got)
			}
			if rej.Reason != tt.wantReason {
				t.Fatalf("got reason %s, want %s", rej.Reason, tt.wantReason)
			}
		})
	}
}

func TestValidatorCheckOrder(t *testing.T) {
	v := Validator{Minimum: 2500}

	tests := []struct {
		name        string
		amount      string
		destination string
		wantReason  Reason
	}{
		// Malformed amount wins over everything else.
		{"malformed beats blank destination", "nope", "", ReasonMalformedAmount},
		// Below-minimum wins over destination problems.
		{"minimum beats blank destination", "24.99", "", ReasonBelowMinimum},
		{"exactly the minimum passes", "25.00", "wallet-A", ""},
		{"blank destination", "30.00", "   ", ReasonInvalidDestination},
		{"all good", "30.00", "wallet-A", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rej := v.Check(tt.amount, tt.destination)
			if tt.wantReason == "" {
				if rej != nil {
					t.Fatalf("unexpected rejection: %v", rej)
				}
				return
			}
			if rej == nil || rej.Reason != tt.wantReason {
				t.Fatalf("got %v, want reason %s", rej, tt.wantReason)
			}
		})
	}
}

func TestValidatorPluggableDestination(t *testing.T) {
	v := Validator{
		Minimum: 100,
		CheckDestination: func(dest string) string {
			if len(dest) < 8 {
				return "wallet id too short"
			}
			return ""
		},
	}

	if _, rej := v.Check("5.00", "short"); rej == nil || rej.Reason != ReasonInvalidDestination {
		t.Fatalf("expected InvalidDestination, got %v", rej)
	}
	if _, rej := v.Check("5.00", "wallet-long-enough"); rej != nil {
		t.Fatalf("unexpected rejection: %v", rej)
	}
}
