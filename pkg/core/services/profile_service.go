package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/ports"
)

const (
	defaultTemplate = "minimal"
	defaultThemeID  = 1
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9_.-]{3,30}$`)

type ProfileService struct {
	profiles ports.ProfileStore
	catalog  ports.TemplateStore
	links    ports.LinkStore
	newID    func() string
}

func NewProfileService(profiles ports.ProfileStore, catalog ports.TemplateStore, links ports.LinkStore) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		catalog:  catalog,
		links:    links,
		newID:    uuid.NewString,
	}
}

var _ ports.ProfileService = (*ProfileService)(nil)

func (s *ProfileService) CreateProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	p.Username = strings.ToLower(strings.TrimSpace(p.Username))
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	if p.TemplateName == "" {
		p.TemplateName = defaultTemplate
	}
	if p.ThemeID == 0 {
		p.ThemeID = defaultThemeID
	}

	if err := s.validate(ctx, p, ""); err != nil {
		return nil, err
	}

	p.ID = s.newID()
	if err := s.profiles.CreateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	return s.profiles.GetProfile(ctx, id)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, id string, patch ports.ProfilePatch) (*domain.Profile, error) {
	p, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Username != nil {
		p.Username = strings.ToLower(strings.TrimSpace(*patch.Username))
	}
	if patch.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.ProfileImageURL != nil {
		p.ProfileImageURL = *patch.ProfileImageURL
	}
	if patch.BackgroundImageURL != nil {
		p.BackgroundImageURL = *patch.BackgroundImageURL
	}
	if patch.ThemeID != nil {
		p.ThemeID = *patch.ThemeID
	}
	if patch.TemplateName != nil {
		p.TemplateName = *patch.TemplateName
	}
	if patch.CustomColors != nil {
		p.CustomColors = *patch.CustomColors
	}

	if err := s.validate(ctx, p, p.ID); err != nil {
		return nil, err
	}
	if err := s.profiles.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) DeleteProfile(ctx context.Context, id string) error {
	return s.profiles.DeleteProfile(ctx, id)
}

func (s *ProfileService) ListProfiles(ctx context.Context, ownerEmail string) ([]domain.Profile, error) {
	return s.profiles.ListProfiles(ctx, ownerEmail)
}

func (s *ProfileService) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	return s.catalog.ListTemplates(ctx)
}

func (s *ProfileService) ListThemes(ctx context.Context) ([]domain.Theme, error) {
	return s.catalog.ListThemes(ctx)
}

// PublicPage renders the visitor view of a profile. An unknown template name
// falls back to the profile's own colors.
func (s *ProfileService) PublicPage(ctx context.Context, username string) (*domain.PublicPage, error) {
	p, err := s.profiles.GetProfileByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return nil, err
	}

	tmpl, err := s.catalog.GetTemplateByName(ctx, p.TemplateName)
	if err != nil {
		if !domain.IsNotFound(err) {
			return nil, err
		}
		tmpl = nil
	}

	links, err := s.links.ListActive(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	page := BuildPublicPage(*p, tmpl, links)
	return &page, nil
}

// PublicLink returns a link shown on username's public page. Links of other
// profiles and hidden links are reported missing.
func (s *ProfileService) PublicLink(ctx context.Context, username, linkID string) (*domain.Link, error) {
	p, err := s.profiles.GetProfileByUsername(ctx, strings.ToLower(username))
	if err != nil {
		return nil, err
	}
	link, err := s.links.Get(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.ProfileID != p.ID || !link.IsActive {
		return nil, &domain.NotFoundError{Resource: "link", ID: linkID}
	}
	return link, nil
}

// validate checks username format and uniqueness plus the catalog references.
// selfID is the profile being updated, empty on create.
func (s *ProfileService) validate(ctx context.Context, p *domain.Profile, selfID string) error {
	if !usernamePattern.MatchString(p.Username) {
		return &domain.ValidationError{Field: "username", Message: "username must be 3-30 characters of a-z, 0-9, '.', '_' or '-'"}
	}
	if p.DisplayName == "" {
		return &domain.ValidationError{Field: "display_name", Message: "display name is required"}
	}

	existing, err := s.profiles.GetProfileByUsername(ctx, p.Username)
	switch {
	case err == nil && existing.ID != selfID:
		return &domain.ValidationError{Field: "username", Message: "username " + p.Username + " is taken"}
	case err != nil && !domain.IsNotFound(err):
		return err
	}

	if _, err := s.catalog.GetTemplateByName(ctx, p.TemplateName); err != nil {
		if domain.IsNotFound(err) {
			return &domain.ValidationError{Field: "template_name", Message: "unknown template " + p.TemplateName}
		}
		return err
	}
	if _, err := s.catalog.GetTheme(ctx, p.ThemeID); err != nil {
		if domain.IsNotFound(err) {
			return &domain.ValidationError{Field: "theme_id", Message: "unknown theme"}
		}
		return err
	}
	return nil
}
