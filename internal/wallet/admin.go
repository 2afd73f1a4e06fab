package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/alerts"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/ledger"
)

type CreditRequest struct {
	AccountID       string  `json:"account_id"`
	Amount          string  `json:"amount"` // decimal string; negative allowed for adjustments
	Description     string  `json:"description"`
	SourceReleaseID *string `json:"source_release_id,omitempty"`
}

// AdminCreditRoyalty appends an earning event for an artist: a royalty
// payment, a manual credit, or a negative offsetting adjustment. History is
// never rewritten; corrections are new events.
func AdminCreditRoyalty(c echo.Context) error {
	adminID, _ := c.Get("user_id").(string)

	req := new(CreditRequest)
	if err := c.Bind(req); err != nil || req.AccountID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	amount, rej := parseSignedAmount(req.Amount)
	if rej != nil {
		return respondLedgerError(c, rej)
	}

	e, err := ledgerSvc.CreditEarning(c.Request().Context(), req.AccountID, amount, req.Description, req.SourceReleaseID)
	if err != nil {
		return respondLedgerError(c, err)
	}

	// Best-effort notifications; the credit is already committed
	go alerts.RoyaltyCredited(e)
	_ = alerts.EnqueueAdminAlert(adminID, "info", "Royalty credit of "+e.Amount.String()+" for account "+e.AccountID)

	return c.JSON(http.StatusCreated, echo.Map{
		"earning_id": e.ID,
		"account_id": e.AccountID,
		"amount":     e.Amount.String(),
		"earned_at":  e.EarnedAt,
	})
}

// parseSignedAmount accepts the admin credit amount, which unlike withdrawal
// amounts may be negative (offsetting adjustment) but never zero.
func parseSignedAmount(raw string) (ledger.Cents, error) {
	negative := false
	if len(raw) > 0 && raw[0] == '-' {
		negative = true
		raw = raw[1:]
	}
	amount, rej := ledger.ParseAmount(raw)
	if rej != nil {
		return 0, rej
	}
	if negative {
		amount = -amount
	}
	return amount, nil
}

// AdminAccountLedger returns the full event history for one account: every
// earning and every withdrawal, for audit and support.
func AdminAccountLedger(c echo.Context) error {
	accountID := c.Param("id")
	if accountID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "account id is required"})
	}
	ctx := c.Request().Context()

	earnings, err := ledgerSvc.ListEarnings(ctx, accountID)
	if err != nil {
		return respondLedgerError(c, err)
	}
	withdrawals, err := ledgerSvc.ListWithdrawals(ctx, ledger.ListFilter{AccountID: accountID})
	if err != nil {
		return respondLedgerError(c, err)
	}
	balance, err := ledgerSvc.AvailableBalance(ctx, accountID)
	if err != nil {
		return respondLedgerError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"account_id":  accountID,
		"balance":     balance.String(),
		"earnings":    earnings,
		"withdrawals": withdrawals,
	})
}
