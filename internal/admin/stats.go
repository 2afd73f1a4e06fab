package admin

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
)

// GET /admin/stats
func Stats(c echo.Context) error {
	ctx := context.Background()

	var users, releases, pendingReleases, subscriptions, pendingWithdrawals int
	var earningsTotal, reservedTotal int64

	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&users)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM releases`).Scan(&releases)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM releases WHERE status = 'submitted'`).Scan(&pendingReleases)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE status = 'active'`).Scan(&subscriptions)
	_ = db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM withdrawals WHERE status = 'pending'`).Scan(&pendingWithdrawals)
	_ = db.Conn.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM earnings`).Scan(&earningsTotal)
	_ = db.Conn.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE status IN ('pending','approved')`).Scan(&reservedTotal)

	return c.JSON(http.StatusOK, echo.Map{
		"users":                users,
		"releases":             releases,
		"pending_releases":     pendingReleases,
		"active_subscriptions": subscriptions,
		"pending_withdrawals":  pendingWithdrawals,
		"earnings_cents":       earningsTotal,
		"reserved_cents":       reservedTotal,
	})
}
