package wallet

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/alerts"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/ledger"
)

var ledgerSvc *ledger.Service

// Init installs the shared ledger service. Called once from main before the
// routes are mounted.
func Init(s *ledger.Service) {
	ledgerSvc = s
}

// respondLedgerError maps core errors onto HTTP responses. Rejections carry
// their reason so the frontend can show a precise message; infrastructure
// failures stay generic.
func respondLedgerError(c echo.Context, err error) error {
	if rej, ok := ledger.AsRejection(err); ok {
		status := http.StatusBadRequest
		if rej.Reason == ledger.ReasonAlreadyResolved {
			status = http.StatusConflict
		}
		return c.JSON(status, echo.Map{
			"error":  rej.Detail,
			"reason": string(rej.Reason),
		})
	}
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, ledger.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "ledger temporarily unavailable, try again"})
	case errors.Is(err, ledger.ErrInconsistency):
		// Already logged loudly by the core; never expose the raw figure.
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "balance unavailable"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// alertsAdminLedgerInconsistency pages the admins when a derived balance went
// negative. A negative balance means a reservation guarantee was lost; it
// must never pass unnoticed.
func alertsAdminLedgerInconsistency(accountID string, raw ledger.Cents) error {
	return alerts.EnqueueAdminAlert("system", "critical",
		fmt.Sprintf("negative balance %s on account %s", raw.String(), accountID))
}
