package catalog

import "time"

// Release statuses
const (
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// Release represents a submitted release (single, EP or album). Audio and
// artwork live in object storage; only their reference URLs are stored here.
type Release struct {
	ID          string     `json:"id"`
	ArtistID    string     `json:"artist_id"`
	Title       string     `json:"title"`
	Genre       string     `json:"genre,omitempty"`
	AudioURL    string     `json:"audio_url"`
	ArtworkURL  string     `json:"artwork_url,omitempty"`
	Status      string     `json:"status"`
	ReviewNote  *string    `json:"review_note,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
}
