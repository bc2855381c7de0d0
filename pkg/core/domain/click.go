package domain

import "time"

// ClickEvent is one activation of a link from the public page. Events are append-only.
type ClickEvent struct {
	ID        string    `json:"id"`
	LinkID    string    `json:"link_id"`
	ClickedAt time.Time `json:"clicked_at"`
	UserAgent string    `json:"user_agent,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
}

// ClickMeta is the optional request metadata captured with a click.
type ClickMeta struct {
	UserAgent string
	Referrer  string
}

type DailyClick struct {
	Date  string `json:"date"` // YYYY-MM-DD in the viewer's zone
	Count int64  `json:"count"`
}

// LinkShare is a link's slice of the profile's total clicks.
type LinkShare struct {
	LinkID     string  `json:"link_id"`
	Title      string  `json:"title"`
	OrderIndex int     `json:"order_index"`
	IsActive   bool    `json:"is_active"`
	Clicks     int64   `json:"clicks"`
	Share      float64 `json:"share"`
}

// Summary is the dashboard view of a profile's engagement.
type Summary struct {
	TotalClicks      int64        `json:"total_clicks"`
	ActiveLinks      int          `json:"active_links"`
	AvgClicksPerLink float64      `json:"avg_clicks_per_link"`
	Links            []LinkShare  `json:"links"` // ranked
	Daily            []DailyClick `json:"daily"`
}
