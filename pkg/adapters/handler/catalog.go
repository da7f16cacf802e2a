package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
	"github.com/wadjakorntonsri/moodsync/pkg/ports"
)

type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) Emotions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Emotions())
}

// Recommendations serves GET /api/recommendations?emotion=happy&type=music
func (h *CatalogHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	emotion := q.Get("emotion")
	if emotion == "" {
		writeError(w, r, domain.NewValidationError("emotion", "emotion is required"))
		return
	}

	recs, err := h.service.Recommendations(emotion, domain.ContentType(q.Get("type")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
