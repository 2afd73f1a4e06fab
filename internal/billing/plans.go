package billing

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
)

// Plan is a distribution subscription tier
type Plan struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Interval   string    `json:"billing_interval"`
	CreatedAt  time.Time `json:"created_at"`
}

// SeedDefaultPlans inserts the stock plans if the table is empty. Idempotent,
// called from main after db.Init.
func SeedDefaultPlans() {
	ctx := context.Background()
	var count int
	if err := db.Conn.QueryRow(ctx, `SELECT COUNT(*) FROM plans`).Scan(&count); err != nil {
		log.Printf("failed to count plans: %v", err)
		return
	}
	if count > 0 {
		return
	}
	defaults := []Plan{
		{Name: "Single", PriceCents: 999, Interval: "yearly"},
		{Name: "Artist", PriceCents: 2999, Interval: "yearly"},
		{Name: "Label", PriceCents: 7999, Interval: "yearly"},
	}
	for _, p := range defaults {
		_, err := db.Conn.Exec(ctx,
			`INSERT INTO plans (id, name, price_cents, billing_interval) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (name) DO NOTHING`,
			uuid.New().String(), p.Name, p.PriceCents, p.Interval,
		)
		if err != nil {
			log.Printf("failed to seed plan %s: %v", p.Name, err)
		}
	}
	log.Println("Default plans seeded")
}

// ListPlans returns the available subscription plans
func ListPlans(c echo.Context) error {
	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, name, price_cents, billing_interval, created_at FROM plans ORDER BY price_cents`)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch plans"})
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Interval, &p.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read plan"})
		}
		plans = append(plans, p)
	}

	return c.JSON(http.StatusOK, echo.Map{"plans": plans})
}
