package wallet

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/ledger"
)

// WithdrawalResponse is the JSON shape for withdrawal history entries
type WithdrawalResponse struct {
	ID          string     `json:"id"`
	Amount      string     `json:"amount"`
	Destination string     `json:"destination"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	Note        *string    `json:"note,omitempty"`
}

func toWithdrawalResponse(w ledger.WithdrawalEvent) WithdrawalResponse {
	return WithdrawalResponse{
		ID:          w.ID,
		Amount:      w.Amount.String(),
		Destination: w.Destination,
		Status:      string(w.Status),
		RequestedAt: w.RequestedAt,
		ProcessedAt: w.ProcessedAt,
		Note:        w.Note,
	}
}

// ListWithdrawals returns the authenticated artist's withdrawal history,
// newest first.
func ListWithdrawals(c echo.Context) error {
	accountID, ok := c.Get("user_id").(string)
	if !ok || accountID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized or invalid user"})
	}

	filter := ledger.ListFilter{AccountID: accountID}
	if s := c.QueryParam("status"); s != "" {
		filter.Status = ledger.Status(s)
	}

	withdrawals, err := ledgerSvc.ListWithdrawals(c.Request().Context(), filter)
	if err != nil {
		return respondLedgerError(c, err)
	}

	out := make([]WithdrawalResponse, 0, len(withdrawals))
	for _, w := range withdrawals {
		out = append(out, toWithdrawalResponse(w))
	}
	return c.JSON(http.StatusOK, echo.Map{"withdrawals": out})
}

// EarningResponse is the JSON shape for earning history entries
type EarningResponse struct {
	ID              string    `json:"id"`
	Amount          string    `json:"amount"`
	EarnedAt        time.Time `json:"earned_at"`
	Description     string    `json:"description"`
	SourceReleaseID *string   `json:"source_release_id,omitempty"`
}

// ListEarnings returns the authenticated artist's earning history, newest first.
func ListEarnings(c echo.Context) error {
	accountID, ok := c.Get("user_id").(string)
	if !ok || accountID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized or invalid user"})
	}

	earnings, err := ledgerSvc.ListEarnings(c.Request().Context(), accountID)
	if err != nil {
		return respondLedgerError(c, err)
	}

	out := make([]EarningResponse, 0, len(earnings))
	for _, e := range earnings {
		out = append(out, EarningResponse{
			ID:              e.ID,
			Amount:          e.Amount.String(),
			EarnedAt:        e.EarnedAt,
			Description:     e.Description,
			SourceReleaseID: e.SourceReleaseID,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"earnings": out})
}
