package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/alerts"
	"github.com/MALTECH2025/tune-delivery-system-sub000/internal/db"
)

// AdminListReleases returns releases for review, optionally filtered by
// status (?status=submitted for the review queue).
func AdminListReleases(c echo.Context) error {
	status := c.QueryParam("status")

	query := `SELECT id, artist_id, title, genre, audio_url, artwork_url, status, review_note, submitted_at, reviewed_at
	          FROM releases`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := db.Conn.Query(context.Background(), query, args...)
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

// ApproveRelease marks a submitted release as approved
func ApproveRelease(c echo.Context) error {
	return reviewRelease(c, StatusApproved)
}

// RejectRelease marks a submitted release as rejected
func RejectRelease(c echo.Context) error {
	return reviewRelease(c, StatusRejected)
}

// reviewRelease transitions a release out of 'submitted'. The WHERE clause
// doubles as a compare-and-set so two admins cannot both review the same
// submission.
func reviewRelease(c echo.Context, outcome string) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing release id"})
	}

	var req struct {
		Note string `json:"note"`
	}
	_ = c.Bind(&req)

	var note *string
	if req.Note != "" {
		note = &req.Note
	}

	ctx := context.Background()
	var artistID, title string
	err := db.Conn.QueryRow(ctx,
		`UPDATE releases
		 SET status = $1, review_note = $2, reviewed_at = $3
		 WHERE id = $4 AND status = 'submitted'
		 RETURNING artist_id, title`,
		outcome, note, time.Now(), id,
	).Scan(&artistID, &title)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "release not found or already reviewed"})
	}

	// Best-effort artist notification
	var email string
	if lerr := db.Conn.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, artistID).Scan(&email); lerr == nil {
		noteStr := ""
		if note != nil {
			noteStr = *note
		}
		_ = alerts.EnqueueReleaseReviewed(id, artistID, email, title, outcome, noteStr)
	}
	_ = alerts.CreateNotification(artistID, "release_"+outcome, "Release "+outcome,
		"Your release \""+title+"\" was "+outcome+".", &id)

	return c.JSON(http.StatusOK, echo.Map{
		"release_id": id,
		"status":     outcome,
	})
}
