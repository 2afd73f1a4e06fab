package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/admin"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/alerts"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/auth"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/billing"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/catalog"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/ledger"
	mware "github.com/MALTECH2025/tune-delivery-system-sub000/internal/middleware"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/settings"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/user"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/wallet"
)

func main() {
	_ = godotenv.Load()

	// Initialize database connection and schema
	db.Init()
	billing.SeedDefaultPlans()

	// Background alert dispatcher (asynq)
	alerts.Init()
	defer alerts.Close()

	// Ledger wiring: postgres-backed store, validation rules from settings,
	// notifications through the alerts queue.
	cfg := settings.New(db.Conn)
	validator := ledger.Validator{
		Minimum:          ledger.Cents(cfg.MinimumWithdrawalCents(context.Background())),
		CheckDestination: ledger.DefaultDestinationCheck,
	}
	ledgerSvc := ledger.NewService(ledger.NewPGStore(db.Conn), validator, alerts.LedgerNotifier{})
	wallet.Init(ledgerSvc)

	e := echo.New()

	// Basic middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "tunedelivery"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if db.Conn == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db not initialized"})
		}
		if err := db.Conn.Ping(context.Background()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Public routes
	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/password-reset/request", auth.RequestPasswordReset)
	authGroup.POST("/password-reset/confirm", auth.ResetPassword)
	authGroup.POST("/bootstrap-admin", auth.BootstrapAdmin)

	e.GET("/artists/:id/profile", user.GetPublicProfile)
	e.GET("/billing/plans", billing.ListPlans)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWTMiddleware)

	api.GET("/auth/me", auth.Me)

	api.PATCH("/user/profile", user.UpdateProfile)

	api.GET("/notifications", alerts.ListNotifications)
	api.POST("/notifications/:id/read", alerts.MarkNotificationRead)

	api.POST("/billing/subscribe", billing.Subscribe)
	api.GET("/billing/subscription", billing.MySubscription)

	api.POST("/releases", catalog.SubmitRelease, mware.RequireRoles("artist"))
	api.GET("/releases/me", catalog.GetMyReleases)
	api.GET("/releases/:id", catalog.GetRelease)

	api.GET("/wallet/balance", wallet.Balance)
	api.POST("/wallet/withdraw", wallet.RequestWithdrawal)
	api.GET("/wallet/withdrawals", wallet.ListWithdrawals)
	api.GET("/wallet/earnings", wallet.ListEarnings)

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(mware.JWTMiddleware)
	adminGroup.Use(mware.AdminGuard)

	adminGroup.GET("/stats", admin.Stats)
	adminGroup.GET("/users", admin.ListUsers)
	adminGroup.POST("/users/:id/suspend", admin.SuspendUser)
	adminGroup.POST("/users/:id/activate", admin.ActivateUser)

	adminGroup.GET("/releases", catalog.AdminListReleases)
	adminGroup.POST("/releases/:id/approve", catalog.ApproveRelease)
	adminGroup.POST("/releases/:id/reject", catalog.RejectRelease)

	adminGroup.GET("/withdrawals", wallet.AdminListWithdrawals)
	adminGroup.POST("/withdrawals/:id/approve", wallet.ApproveWithdrawal)
	adminGroup.POST("/withdrawals/:id/decline", wallet.DeclineWithdrawal)
	adminGroup.POST("/royalties/credit", wallet.AdminCreditRoyalty)
	adminGroup.GET("/accounts/:id/ledger", wallet.AdminAccountLedger)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
