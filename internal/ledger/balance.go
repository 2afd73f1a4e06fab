package ledger

import "time"

// Summarize derives the available balance from raw events at a point in time:
// earnings credited up to asOf, minus withdrawals still outstanding that were
// requested up to asOf. Declined withdrawals never count, even retroactively.
//
// The result is order-independent: it is a plain sum, so replaying the same
// events in any insertion order yields the same figure.
//
// A negative result is reported as ErrInconsistency together with the raw
// figure. Display-level flooring at zero is the caller's concern; hiding the
// defect here would mask a broken atomicity guarantee.
func Summarize(earnings []EarningEvent, withdrawals []WithdrawalEvent, asOf time.Time) (Cents, error) {
	var total Cents
	for _, e := range earnings {
		if e.EarnedAt.After(asOf) {
			continue
		}
		total += e.Amount
	}
	for _, w := range withdrawals {
		if w.RequestedAt.After(asOf) {
			continue
		}
		if w.Outstanding() {
			total -= w.Amount
		}
	}
	if total < 0 {
		return total, ErrInconsistency
	}
	return total, nil
}
