package wallet

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/ledger"
)

// Balance returns the authenticated artist's available balance, derived from
// the ledger on every call. An inconsistent ledger pages the admins and
// surfaces as an error, never as a fabricated figure.
func Balance(c echo.Context) error {
	accountID, ok := c.Get("user_id").(string)
	if !ok || accountID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	balance, err := ledgerSvc.AvailableBalance(c.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, ledger.ErrInconsistency) {
			_ = alertsAdminLedgerInconsistency(accountID, balance)
		}
		return respondLedgerError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"account_id": accountID,
		"balance":    balance.String(),
		"cents":      int64(balance),
	})
}
