package domain

import (
	"net/url"
	"strings"
	"time"
)

// Link is a single navigable entry shown on a profile page.
type Link struct {
	ID         string    `json:"id"`
	ProfileID  string    `json:"profile_id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	Icon       Icon      `json:"icon"`
	OrderIndex int       `json:"order_index"`
	IsActive   bool      `json:"is_active"`
	ClickCount int64     `json:"click_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LinkEdit carries the user-editable fields of a link. Nil fields are left untouched.
type LinkEdit struct {
	Title *string `json:"title,omitempty"`
	URL   *string `json:"url,omitempty"`
	Icon  *string `json:"icon,omitempty"`
}

// Validate checks the fields that must hold before a link is persisted.
func (l *Link) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	return ValidateURL(l.URL)
}

// ValidateURL accepts absolute http(s) and mailto/tel style URLs.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &ValidationError{Field: "url", Message: "url is required"}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return &ValidationError{Field: "url", Message: "url must be absolute"}
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return &ValidationError{Field: "url", Message: "url must have a host"}
		}
	case "mailto", "tel":
		if u.Opaque == "" && u.Path == "" {
			return &ValidationError{Field: "url", Message: "url is missing its target"}
		}
	default:
		return &ValidationError{Field: "url", Message: "unsupported url scheme " + u.Scheme}
	}
	return nil
}

// Apply copies the set fields of e onto a copy of l.
func (e LinkEdit) Apply(l Link) Link {
	if e.Title != nil {
		l.Title = strings.TrimSpace(*e.Title)
	}
	if e.URL != nil {
		l.URL = strings.TrimSpace(*e.URL)
	}
	if e.Icon != nil {
		l.Icon = ParseIcon(*e.Icon)
	}
	return l
}

// ActiveOnly returns the active links of links, keeping their order.
func ActiveOnly(links []Link) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if l.IsActive {
			out = append(out, l)
		}
	}
	return out
}
