package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
	"github.com/wadjakorntonsri/moodsync/pkg/logger"
)

type errorResponse struct {
	Error      string              `json:"error"`
	Errors     []domain.FieldError `json:"errors,omitempty"`
	Suggestion string              `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError maps domain errors to HTTP statuses. Anything unknown is logged
// and reported as a 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	var terr *domain.TrainingError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Errors: verr.Fields})
	case errors.Is(err, domain.ErrInvalidOrder):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		writeErrorMessage(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotTrained):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Suggestion: "POST /train first"})
	case errors.As(err, &terr):
		logger.FromContext(r.Context()).Error("Training request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: terr.Error(), Suggestion: terr.Suggestion})
	default:
		logger.FromContext(r.Context()).Error("Request failed", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	return page, limit
}
