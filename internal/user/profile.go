package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
)

type UpdateProfileRequest struct {
	Name               string `json:"name"`
	Bio                string `json:"bio"`
	AvatarURL          string `json:"avatar_url"`
	DefaultDestination string `json:"default_destination"`
}

// PATCH /user/profile
func UpdateProfile(c echo.Context) error {
	userIDVal := c.Get("user_id")
	userID, ok := userIDVal.(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or missing token"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	query := `
		UPDATE users
		SET name = COALESCE(NULLIF($1, ''), name),
		    bio = COALESCE(NULLIF($2, ''), bio),
		    avatar_url = COALESCE(NULLIF($3, ''), avatar_url),
		    default_destination = COALESCE(NULLIF($4, ''), default_destination)
		WHERE id = $5
	`
	_, err := db.Conn.Exec(c.Request().Context(), query, req.Name, req.Bio, req.AvatarURL, req.DefaultDestination, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated successfully",
	})
}
