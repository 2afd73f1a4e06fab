package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

var centFactor = decimal.NewFromInt(100)

// ParseAmount converts a decimal currency string ("30.00") into Cents.
// The value must be a positive finite number with at most two fractional
// digits; anything else is a MalformedAmount rejection.
func ParseAmount(raw string) (Cents, *Rejection) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, reject(ReasonMalformedAmount, "amount is required")
	}
	// decimal accepts scientific notation; the API contract is plain
	// fixed-point strings only.
	if strings.ContainsAny(raw, "eE") {
		return 0, reject(ReasonMalformedAmount, "amount is not a plain decimal")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, reject(ReasonMalformedAmount, "amount is not a number")
	}
	if d.Exponent() < -2 {
		return 0, reject(ReasonMalformedAmount, "amount has more than two decimal places")
	}
	if !d.IsPositive() {
		return 0, reject(ReasonMalformedAmount, "amount must be greater than zero")
	}
	return Cents(d.Mul(centFactor).IntPart()), nil
}

// DestinationCheck validates a payout destination for a particular payment
// rail. Implementations return a human-readable problem description, or ""
// when the destination is acceptable.
type DestinationCheck func(destination string) string

// DefaultDestinationCheck accepts any non-blank wallet identifier.
func DefaultDestinationCheck(destination string) string {
	if strings.TrimSpace(destination) == "" {
		return "destination is required"
	}
	return ""
}

// Validator enforces the withdrawal admission rules in a fixed order so
// error precedence is deterministic: malformed amount, then minimum, then
// destination. The sufficient-balance rule is checked last, against the
// ledger, by the caller (read-only in Service.ValidateWithdrawal, atomically
// at commit time in Service.RequestWithdrawal).
type Validator struct {
	Minimum          Cents
	CheckDestination DestinationCheck
}

// Check runs the pure rules and returns the parsed amount.
func (v Validator) Check(rawAmount, destination string) (Cents, *Rejection) {
	amount, rej := ParseAmount(rawAmount)
	if rej != nil {
		return 0, rej
	}
	if amount < v.Minimum {
		return 0, reject(ReasonBelowMinimum, "minimum withdrawal is %s", v.Minimum.String())
	}
	check := v.CheckDestination
	if check == nil {
		check = DefaultDestinationCheck
	}
	if problem := check(destination); problem != "" {
		return 0, reject(ReasonInvalidDestination, "%s", problem)
	}
	return amount, nil
}
