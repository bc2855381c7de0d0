package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkbio/pkg/core/domain"
)

type errorResponse struct {
	Error     string   `json:"error"`
	Field     string   `json:"field,omitempty"`
	FailedIDs []string `json:"failed_ids,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto status codes. Unknown errors are logged
// and hidden behind a generic 500.
func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var (
		verr *domain.ValidationError
		nerr *domain.NotFoundError
		perr *domain.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	case errors.As(err, &nerr):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: nerr.Error()})
	case errors.As(err, &perr):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "some changes could not be saved", FailedIDs: perr.IDs()})
	default:
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
