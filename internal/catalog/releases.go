package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
)

// SubmitRelease lets an artist with an active subscription submit a release
// for review.
func SubmitRelease(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Title      string `json:"title"`
		Genre      string `json:"genre"`
		AudioURL   string `json:"audio_url"`
		ArtworkURL string `json:"artwork_url"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Title == "" || req.AudioURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and audio_url are required"})
	}

	ctx := context.Background()

	// Submission requires an active subscription
	var hasSubscription bool
	err := db.Conn.QueryRow(ctx,
		`SELECT EXISTS(
		     SELECT 1 FROM subscriptions
		     WHERE user_id = $1 AND status = 'active'
		       AND (expires_at IS NULL OR expires_at > NOW())
		 )`, uid,
	).Scan(&hasSubscription)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not verify subscription"})
	}
	if !hasSubscription {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "an active subscription is required to submit releases"})
	}

	releaseID := uuid.New().String()
	_, err = db.Conn.Exec(ctx,
		`INSERT INTO releases (id, artist_id, title, genre, audio_url, artwork_url, status, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 'submitted', $7)`,
		releaseID, uid, req.Title, req.Genre, req.AudioURL, req.ArtworkURL, time.Now(),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create release"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"release_id": releaseID,
		"status":     StatusSubmitted,
		"message":    "release submitted for review",
	})
}

// GetMyReleases returns the authenticated artist's releases, newest first
func GetMyReleases(c echo.Context) error {
	uid, ok := c.Get("user_id").(string)
	if !ok || uid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id, artist_id, title, genre, audio_url, artwork_url, status, review_note, submitted_at, reviewed_at
		 FROM releases WHERE artist_id = $1 ORDER BY submitted_at DESC`, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch releases"})
	}
	defer rows.Close()

	var releases []Release
	for rows.Next() {
		var r Release
		if err := rows.Scan(&r.ID, &r.ArtistID, &r.Title, &r.Genre, &r.AudioURL, &r.ArtworkURL,
			&r.Status, &r.ReviewNote, &r.SubmittedAt, &r.ReviewedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read release record"})
		}
		releases = append(releases, r)
	}

	return c.JSON(http.StatusOK, echo.Map{"releases": releases})
}

// GetRelease returns one release; artists can only see their own
func GetRelease(c echo.Context) error {
	uid, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	id := c.Param("id")

	var r Release
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id, artist_id, title, genre, audio_url, artwork_url, status, review_note, submitted_at, reviewed_at
		 FROM releases WHERE id = $1`, id).
		Scan(&r.ID, &r.ArtistID, &r.Title, &r.Genre, &r.AudioURL, &r.ArtworkURL,
			&r.Status, &r.ReviewNote, &r.SubmittedAt, &r.ReviewedAt)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "release not found"})
	}
	if role != "admin" && r.ArtistID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	return c.JSON(http.StatusOK, r)
}
