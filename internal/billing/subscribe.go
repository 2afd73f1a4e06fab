package billing

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
)

type SubscribeRequest struct {
	PlanID string `json:"plan_id"`
}

type SubscribeResponse struct {
	SubscriptionID string `json:"subscription_id"`
	Plan           string `json:"plan"`
	Status         string `json:"status"`
	ExpiresAt      string `json:"expires_at"`
	Message        string `json:"message"`
}

// Subscribe activates a distribution plan for the caller. Payment is mocked
// with a generated reference, real gateway integration comes later.
func Subscribe(c echo.Context) error {
	req := new(SubscribeRequest)
	if err := c.Bind(req); err != nil || req.PlanID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plan_id is required"})
	}

	userID := c.Get("user_id").(string)
	ctx := context.Background()

	var planName string
	var priceCents int64
	var interval string
	err := db.Conn.QueryRow(ctx,
		`SELECT name, price_cents, billing_interval FROM plans WHERE id = $1`,
		req.PlanID,
	).Scan(&planName, &priceCents, &interval)
	if err == pgx.ErrNoRows {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch plan"})
	}

	var existing string
	err = db.Conn.QueryRow(ctx,
		`SELECT id FROM subscriptions
		 WHERE user_id = $1 AND status = 'active' AND (expires_at IS NULL OR expires_at > NOW())`,
		userID,
	).Scan(&existing)
	if err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "you already have an active subscription"})
	}
	if err != pgx.ErrNoRows {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not check subscription"})
	}

	subID := uuid.New().String()
	startedAt := time.Now()
	expiresAt := startedAt.AddDate(1, 0, 0)
	if interval == "monthly" {
		expiresAt = startedAt.AddDate(0, 1, 0)
	}

	// mock payment reference (later we'll integrate Flutterwave/Paystack)
	paymentRef := os.Getenv("MOCK_PAYMENT_REF_PREFIX")
	if paymentRef == "" {
		paymentRef = "mockpay"
	}
	paymentRef = paymentRef + "-" + subID[:8]

	_, err = db.Conn.Exec(ctx,
		`INSERT INTO subscriptions (id, user_id, plan_id, status, payment_reference, started_at, expires_at)
		 VALUES ($1, $2, $3, 'active', $4, $5, $6)`,
		subID, userID, req.PlanID, paymentRef, startedAt, expiresAt,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create subscription"})
	}

	return c.JSON(http.StatusCreated, SubscribeResponse{
		SubscriptionID: subID,
		Plan:           planName,
		Status:         "active",
		ExpiresAt:      expiresAt.Format(time.RFC3339),
		Message:        "Subscription active. You can now submit releases.",
	})
}

// MySubscription returns the caller's current subscription, if any
func MySubscription(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var subID, planName, status string
	var startedAt time.Time
	var expiresAt *time.Time
	err := db.Conn.QueryRow(context.Background(),
		`SELECT s.id, p.name, s.status, s.started_at, s.expires_at
		 FROM subscriptions s
		 JOIN plans p ON p.id = s.plan_id
		 WHERE s.user_id = $1
		 ORDER BY s.started_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&subID, &planName, &status, &startedAt, &expiresAt)
	if err == pgx.ErrNoRows {
		return c.JSON(http.StatusOK, echo.Map{"subscription": nil})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch subscription"})
	}

	resp := echo.Map{
		"id":         subID,
		"plan":       planName,
		"status":     status,
		"started_at": startedAt.Format(time.RFC3339),
	}
	if expiresAt != nil {
		resp["expires_at"] = expiresAt.Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, echo.Map{"subscription": resp})
}
