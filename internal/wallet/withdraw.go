package wallet

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
)

type WithdrawRequest struct {
	// Amount is a decimal currency string ("30.00"); parsing and precision
	// checks happen in the ledger validator.
	Amount      string `json:"amount"`
	Destination string `json:"destination"`
}

// RequestWithdrawal admits a new pending withdrawal for the authenticated
// artist. The balance check and the reservation are one atomic unit in the
// ledger, so concurrent requests cannot overdraw the account.
func RequestWithdrawal(c echo.Context) error {
	accountID, ok := c.Get("user_id").(string)
	if !ok || accountID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized or invalid user"})
	}

	req := new(WithdrawRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	// Fall back to the artist's saved payout destination
	if req.Destination == "" {
		var saved *string
		_ = db.Conn.QueryRow(context.Background(),
			`SELECT default_destination FROM users WHERE id = $1`, accountID).Scan(&saved)
		if saved != nil {
			req.Destination = *saved
		}
	}

	w, err := ledgerSvc.RequestWithdrawal(c.Request().Context(), accountID, req.Amount, req.Destination)
	if err != nil {
		return respondLedgerError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"withdrawal_id": w.ID,
		"amount":        w.Amount.String(),
		"destination":   w.Destination,
		"status":        string(w.Status),
		"requested_at":  w.RequestedAt,
	})
}
