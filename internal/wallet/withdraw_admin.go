package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/ledger"
)

// WithdrawActionRequest carries the optional reviewer note
type WithdrawActionRequest struct {
	Note string `json:"note"`
}

// AdminListWithdrawals returns withdrawals across all accounts, optionally
// filtered by status (?status=pending for the review queue).
func AdminListWithdrawals(c echo.Context) error {
	filter := ledger.ListFilter{}
	if s := c.QueryParam("status"); s != "" {
		filter.Status = ledger.Status(s)
	}
	if a := c.QueryParam("account_id"); a != "" {
		filter.AccountID = a
	}

	withdrawals, err := ledgerSvc.ListWithdrawals(c.Request().Context(), filter)
	if err != nil {
		return respondLedgerError(c, err)
	}

	out := make([]echo.Map, 0, len(withdrawals))
	for _, w := range withdrawals {
		out = append(out, echo.Map{
			"id":           w.ID,
			"account_id":   w.AccountID,
			"amount":       w.Amount.String(),
			"destination":  w.Destination,
			"status":       string(w.Status),
			"requested_at": w.RequestedAt,
			"processed_at": w.ProcessedAt,
			"note":         w.Note,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"withdrawals": out})
}

// ApproveWithdrawal resolves a pending withdrawal as approved. The
// transition is a compare-and-set: a withdrawal already resolved by another
// admin yields 409, and the stored event stays untouched.
func ApproveWithdrawal(c echo.Context) error {
	return resolveWithdrawal(c, ledger.DecisionApprove)
}

// DeclineWithdrawal resolves a pending withdrawal as declined; the reserved
// amount returns to the artist's available balance immediately.
func DeclineWithdrawal(c echo.Context) error {
	return resolveWithdrawal(c, ledger.DecisionDecline)
}

func resolveWithdrawal(c echo.Context, decision ledger.Decision) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing withdrawal id"})
	}

	req := new(WithdrawActionRequest)
	_ = c.Bind(req) // note is optional; an empty body is fine

	var note *string
	if req.Note != "" {
		note = &req.Note
	}

	w, err := ledgerSvc.Resolve(c.Request().Context(), id, decision, note)
	if err != nil {
		return respondLedgerError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"withdrawal_id": w.ID,
		"status":        string(w.Status),
		"processed_at":  w.ProcessedAt,
	})
}
