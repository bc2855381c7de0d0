package handler

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/ports"
)

type AnalyticsHandler struct {
	service  ports.AnalyticsService
	links    ports.LinkService
	profiles *ProfileHandler
	log      zerolog.Logger
}

func NewAnalyticsHandler(service ports.AnalyticsService, links ports.LinkService, profiles *ProfileHandler, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, links: links, profiles: profiles, log: log}
}

// daysParam reads ?days=N. Zero means the configured default window.
func daysParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > 365 {
		return 0, &domain.ValidationError{Field: "days", Message: "days must be between 1 and 365"}
	}
	return days, nil
}

func (h *AnalyticsHandler) ProfileSummary(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profiles.owned(w, r)
	if !ok {
		return
	}
	days, err := daysParam(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	summary, err := h.service.ProfileSummary(r.Context(), profile.ID, days)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *AnalyticsHandler) LinkDaily(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profiles.owned(w, r)
	if !ok {
		return
	}
	days, err := daysParam(r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	linkID := r.PathValue("linkID")
	links, err := h.links.List(r.Context(), profile.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if !containsLink(links, linkID) {
		writeError(w, h.log, &domain.NotFoundError{Resource: "link", ID: linkID})
		return
	}

	daily, err := h.service.LinkDaily(r.Context(), linkID, days)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if daily == nil {
		daily = []domain.DailyClick{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"link_id": linkID, "daily": daily})
}

func containsLink(links []domain.Link, id string) bool {
	for _, l := range links {
		if l.ID == id {
			return true
		}
	}
	return false
}
