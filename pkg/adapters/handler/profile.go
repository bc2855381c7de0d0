package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
	links   ports.LinkService
	log     zerolog.Logger
}

func NewProfileHandler(service ports.ProfileService, links ports.LinkService, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, links: links, log: log}
}

type createProfileRequest struct {
	Username           string         `json:"username"`
	DisplayName        string         `json:"display_name"`
	Bio                string         `json:"bio"`
	ProfileImageURL    string         `json:"profile_image_url"`
	BackgroundImageURL string         `json:"background_image_url"`
	ThemeID            int64          `json:"theme_id"`
	TemplateName       string         `json:"template_name"`
	CustomColors       domain.Palette `json:"custom_colors"`
}

// owned loads the profile named by the {id} path value and checks the caller
// owns it. Profiles without an owner (CLI imports) are open to any signed-in user.
func (h *ProfileHandler) owned(w http.ResponseWriter, r *http.Request) (*domain.Profile, bool) {
	id := r.PathValue("id")
	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err)
		return nil, false
	}
	if profile.OwnerEmail != "" && profile.OwnerEmail != userEmail(r.Context()) {
		writeError(w, h.log, &domain.NotFoundError{Resource: "profile", ID: id})
		return nil, false
	}
	return profile, true
}

func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), &domain.Profile{
		OwnerEmail:         userEmail(r.Context()),
		Username:           req.Username,
		DisplayName:        req.DisplayName,
		Bio:                req.Bio,
		ProfileImageURL:    req.ProfileImageURL,
		BackgroundImageURL: req.BackgroundImageURL,
		ThemeID:            req.ThemeID,
		TemplateName:       req.TemplateName,
		CustomColors:       req.CustomColors,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.ListProfiles(r.Context(), userEmail(r.Context()))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": profiles, "total": len(profiles)})
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.owned(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.owned(w, r)
	if !ok {
		return
	}
	var patch ports.ProfilePatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), profile.ID, patch)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.owned(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteProfile(r.Context(), profile.ID); err != nil {
		writeError(w, h.log, err)
		return
	}
	h.links.Evict(profile.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *ProfileHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.service.ListThemes(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, themes)
}
