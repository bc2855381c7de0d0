package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/ports"
)

// ClickTracker records a click without blocking the visitor.
type ClickTracker interface {
	Track(linkID string, meta domain.ClickMeta)
}

// PublicHandler serves visitors. Tracking problems never reach them.
type PublicHandler struct {
	profiles ports.ProfileService
	links    ports.LinkService
	clicks   ClickTracker
	log      zerolog.Logger
}

func NewPublicHandler(profiles ports.ProfileService, links ports.LinkService, clicks ClickTracker, log zerolog.Logger) *PublicHandler {
	return &PublicHandler{profiles: profiles, links: links, clicks: clicks, log: log}
}

func clickMeta(r *http.Request) domain.ClickMeta {
	return domain.ClickMeta{UserAgent: r.UserAgent(), Referrer: r.Header.Get("Referer")}
}

func (h *PublicHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, err := h.profiles.PublicPage(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Redirect sends the visitor on and records the click asynchronously
// unless ?no_stat is set.
func (h *PublicHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	link, err := h.links.Resolve(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if r.URL.Query().Get("no_stat") == "" {
		h.clicks.Track(link.ID, clickMeta(r))
	}
	http.Redirect(w, r, link.URL, http.StatusFound)
}

// Click is the beacon the rendered page fires when a link is opened. Only
// visible links of the named profile are counted; the visitor gets 204 either way.
func (h *PublicHandler) Click(w http.ResponseWriter, r *http.Request) {
	username, id := r.PathValue("username"), r.PathValue("id")
	link, err := h.profiles.PublicLink(r.Context(), username, id)
	switch {
	case err == nil:
		h.clicks.Track(link.ID, clickMeta(r))
	case domain.IsNotFound(err):
		h.log.Debug().Str("username", username).Str("link_id", id).Msg("click beacon for unknown link")
	default:
		h.log.Warn().Err(err).Str("link_id", id).Msg("click beacon lookup failed")
	}
	w.WriteHeader(http.StatusNoContent)
}
