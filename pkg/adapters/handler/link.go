package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-linkbio/pkg/ports"
)

// LinkHandler serves the dashboard's link editor. Every route is scoped to a
// profile the caller owns.
type LinkHandler struct {
	service  ports.LinkService
	profiles *ProfileHandler
	log      zerolog.Logger
}

func NewLinkHandler(service ports.LinkService, profiles *ProfileHandler, log zerolog.Logger) *LinkHandler {
	return &LinkHandler{service: service, profiles: profiles, log: log}
}

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

type moveRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type linksResponse struct {
	Data []domain.Link `json:"data"`
}

type syncResponse struct {
	Data      []domain.Link `json:"data"`
	Error     string        `json:"error,omitempty"`
	FailedIDs []string      `json:"failed_ids,omitempty"`
}

func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profiles.owned(w, r)
	if !ok {
		return
	}
	links, err := h.service.List(r.Context(), profile.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, linksResponse{Data: links})
}

func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profiles.owned(w, r)
	if !ok {
		return
	}
	var req ports.NewLink
	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.service.Create(r.Context(), profile.ID, req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profiles.owned(w, r)
	if !ok {
		return
	}
	var edit domain.LinkEdit
	if !decodeJSON(w, r, &edit) {
		return
	}

	link, err := h.service.Edit(r.Context(), profile.ID, r.PathValue("linkID"), edit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (h *LinkHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profiles.owned(w, r)
	if !ok {
		return
	}
	var req setActiveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.service.SetActive(r.Context(), profile.ID, r.PathValue("linkID"), req.IsActive)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profiles.owned(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), profile.ID, r.PathValue("linkID")); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Move applies a drag-and-drop reorder. The response is the optimistic order;
// persistence happens in the background.
func (h *LinkHandler) Move(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profiles.owned(w, r)
	if !ok {
		return
	}
	var req moveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.From == nil || req.To == nil {
		writeError(w, h.log, &domain.ValidationError{Field: "from", Message: "from and to are required"})
		return
	}

	links, err := h.service.Move(r.Context(), profile.ID, *req.From, *req.To)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusAccepted, linksResponse{Data: links})
}

// Sync waits for pending order writes. A partial failure answers 502 with the
// settled order so the client can redraw it.
func (h *LinkHandler) Sync(w http.ResponseWriter, r *http.Request) {
	profile, ok := h.profiles.owned(w, r)
	if !ok {
		return
	}

	links, err := h.service.Sync(r.Context(), profile.ID)
	if err == nil {
		writeJSON(w, http.StatusOK, syncResponse{Data: links})
		return
	}

	var perr *domain.PersistenceError
	if !errors.As(err, &perr) {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusBadGateway, syncResponse{
		Data:      links,
		Error:     "some changes could not be saved",
		FailedIDs: perr.IDs(),
	})
}
