package ports

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

// LinkPatch is a partial link update. Nil fields are left untouched.
// click_count is deliberately absent: only click tracking moves it.
type LinkPatch struct {
	Title      *string
	URL        *string
	Icon       *domain.Icon
	IsActive   *bool
	OrderIndex *int
}

// LinkStore persists individual link records. It knows nothing about ordering rules.
type LinkStore interface {
	List(ctx context.Context, profileID string) ([]domain.Link, error)
	ListActive(ctx context.Context, profileID string) ([]domain.Link, error)
	Get(ctx context.Context, id string) (*domain.Link, error)
	Create(ctx context.Context, link *domain.Link) error
	Update(ctx context.Context, id string, patch LinkPatch) (*domain.Link, error)
	UpdateOrder(ctx context.Context, id string, orderIndex int) error
	Delete(ctx context.Context, id string) error
}

// EventStore appends click events and maintains the per-link counter.
type EventStore interface {
	AppendEvent(ctx context.Context, event *domain.ClickEvent) error
	IncrementCounter(ctx context.Context, linkID string) error
}

// TransactionalEventStore can append an event and bump the counter atomically.
type TransactionalEventStore interface {
	EventStore
	AppendAndIncrement(ctx context.Context, event *domain.ClickEvent) error
}

// EventReader reads the raw click log for analytics.
type EventReader interface {
	ListEvents(ctx context.Context, linkIDs []string, since time.Time) ([]domain.ClickEvent, error)
}

// ProfileStore is plain record storage for profiles.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	DeleteProfile(ctx context.Context, id string) error
	ListProfiles(ctx context.Context, ownerEmail string) ([]domain.Profile, error)
}

// TemplateStore serves the read-only template and theme catalogs.
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]domain.Template, error)
	GetTemplateByName(ctx context.Context, name string) (*domain.Template, error)
	ListThemes(ctx context.Context) ([]domain.Theme, error)
	GetTheme(ctx context.Context, id int64) (*domain.Theme, error)
}

// NewLink is the user input for creating a link.
type NewLink struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// ProfilePatch is a partial profile update.
type ProfilePatch struct {
	Username           *string         `json:"username,omitempty"`
	DisplayName        *string         `json:"display_name,omitempty"`
	Bio                *string         `json:"bio,omitempty"`
	ProfileImageURL    *string         `json:"profile_image_url,omitempty"`
	BackgroundImageURL *string         `json:"background_image_url,omitempty"`
	ThemeID            *int64          `json:"theme_id,omitempty"`
	TemplateName       *string         `json:"template_name,omitempty"`
	CustomColors       *domain.Palette `json:"custom_colors,omitempty"`
}

// LinkService manages a profile's ordered links.
type LinkService interface {
	List(ctx context.Context, profileID string) ([]domain.Link, error)
	Create(ctx context.Context, profileID string, in NewLink) (*domain.Link, error)
	Edit(ctx context.Context, profileID, linkID string, edit domain.LinkEdit) (*domain.Link, error)
	SetActive(ctx context.Context, profileID, linkID string, active bool) (*domain.Link, error)
	Delete(ctx context.Context, profileID, linkID string) error
	Move(ctx context.Context, profileID string, from, to int) ([]domain.Link, error)
	Sync(ctx context.Context, profileID string) ([]domain.Link, error)
	Resolve(ctx context.Context, linkID string) (*domain.Link, error)
	// Evict drops the in-memory order of a deleted profile.
	Evict(profileID string)
}

// ProfileService covers profile, template and theme records plus the public page.
type ProfileService interface {
	CreateProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (*domain.Profile, error)
	DeleteProfile(ctx context.Context, id string) error
	ListProfiles(ctx context.Context, ownerEmail string) ([]domain.Profile, error)
	ListTemplates(ctx context.Context) ([]domain.Template, error)
	ListThemes(ctx context.Context) ([]domain.Theme, error)
	PublicPage(ctx context.Context, username string) (*domain.PublicPage, error)
	PublicLink(ctx context.Context, username, linkID string) (*domain.Link, error)
}

// AnalyticsService derives engagement statistics on demand.
type AnalyticsService interface {
	ProfileSummary(ctx context.Context, profileID string, days int) (*domain.Summary, error)
	LinkDaily(ctx context.Context, linkID string, days int) ([]domain.DailyClick, error)
}

// ClickRecorder records a public link activation.
type ClickRecorder interface {
	RecordClick(ctx context.Context, linkID string, meta domain.ClickMeta) error
}
