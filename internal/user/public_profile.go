package user

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
)

// GET /artists/:id/profile
func GetPublicProfile(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id"})
	}

	var (
		id        string
		name      string
		bio       *string
		avatarURL *string
		role      string
		createdAt time.Time
	)

	query := `
		SELECT id, name, bio, avatar_url, role, created_at
		FROM users
		WHERE id = $1 AND COALESCE(is_active, TRUE)
	`

	err := db.Conn.QueryRow(context.Background(), query, userID).Scan(
		&id,
		&name,
		&bio,
		&avatarURL,
		&role,
		&createdAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artist not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch artist"})
	}

	profile := echo.Map{
		"id":         id,
		"name":       name,
		"role":       role,
		"created_at": createdAt.Format(time.RFC3339),
	}
	if bio != nil {
		profile["bio"] = *bio
	}
	if avatarURL != nil {
		profile["avatar_url"] = *avatarURL
	}

	return c.JSON(http.StatusOK, profile)
}
