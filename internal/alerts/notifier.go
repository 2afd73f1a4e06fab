package alerts

import (
	"context"
	"log"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/ledger"
)

// LedgerNotifier adapts the alerts queue to the ledger's dispatcher
// interface. Everything here is best-effort: lookup or enqueue failures are
// logged and swallowed, never propagated back into a lifecycle transition.
type LedgerNotifier struct{}

func artistEmail(accountID string) (string, bool) {
	var email string
	err := db.Conn.QueryRow(context.Background(),
		`SELECT email FROM users WHERE id = $1`, accountID).Scan(&email)
	if err != nil {
		log.Printf("[notify] email lookup failed for account %s: %v", accountID, err)
		return "", false
	}
	return email, true
}

func (LedgerNotifier) WithdrawalCreated(w ledger.WithdrawalEvent) {
	if err := CreateNotification(w.AccountID, "withdrawal_requested",
		"Withdrawal request received",
		"Your request to withdraw "+w.Amount.String()+" is awaiting review.", &w.ID); err != nil {
		log.Printf("[notify] in-app notification failed: %v", err)
	}
	email, ok := artistEmail(w.AccountID)
	if !ok {
		return
	}
	if err := EnqueueWithdrawalRequested(w.ID, w.AccountID, email, w.Amount.String(), w.Destination); err != nil {
		log.Printf("[notify] enqueue WithdrawalRequested failed: %v", err)
	}
}

func (LedgerNotifier) WithdrawalResolved(w ledger.WithdrawalEvent) {
	title := "Withdrawal approved"
	body := "Your withdrawal of " + w.Amount.String() + " has been approved."
	if w.Status == ledger.StatusDeclined {
		title = "Withdrawal declined"
		body = "Your withdrawal of " + w.Amount.String() + " was declined; the funds are back in your balance."
	}
	if err := CreateNotification(w.AccountID, "withdrawal_"+string(w.Status), title, body, &w.ID); err != nil {
		log.Printf("[notify] in-app notification failed: %v", err)
	}
	email, ok := artistEmail(w.AccountID)
	if !ok {
		return
	}
	note := ""
	if w.Note != nil {
		note = *w.Note
	}
	if err := EnqueueWithdrawalResolved(w.ID, w.AccountID, email, w.Amount.String(), string(w.Status), note); err != nil {
		log.Printf("[notify] enqueue WithdrawalResolved failed: %v", err)
	}
}

// RoyaltyCredited announces a new earning to the artist. Called by the
// crediting handlers, same best-effort contract as the lifecycle events.
func RoyaltyCredited(e ledger.EarningEvent) {
	if err := CreateNotification(e.AccountID, "royalty_credited",
		"Royalties credited", e.Amount.String()+" has been added to your balance.", &e.ID); err != nil {
		log.Printf("[notify] in-app notification failed: %v", err)
	}
	email, ok := artistEmail(e.AccountID)
	if !ok {
		return
	}
	if err := EnqueueRoyaltyCredited(e.ID, e.AccountID, email, e.Amount.String(), e.Description); err != nil {
		log.Printf("[notify] enqueue RoyaltyCredited failed: %v", err)
	}
}
