package auth

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/alerts"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignupResponse struct {
	Token string `json:"token"`
}

// ===== Signup =====
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// Hash password
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	conn := db.Conn
	ctx := context.Background()

	// Every new account is an artist; admins are promoted separately.
	// No wallet row is created: balance is always derived from the ledger.
	var userID string
	err = conn.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password, role)
		VALUES ($1, $2, $3, $4, 'artist')
		RETURNING id
	`, uuid.New().String(), req.Name, req.Email, string(hashed)).Scan(&userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
	}

	// Welcome email is best-effort
	_ = alerts.EnqueueWelcomeEmail(userID, req.Email, req.Name)

	// JWT with user_id
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    "artist",
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	return c.JSON(http.StatusOK, SignupResponse{Token: signed})
}
