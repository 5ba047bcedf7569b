package models

import "time"

// NewsItem is one headline served by /api/news. Extracted and fallback items
// share this shape exactly; clients cannot tell them apart from the payload.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
	Thumbnail   *string   `json:"thumbnail"`
	Category    string    `json:"category"`
	Importance  string    `json:"importance"`
}
