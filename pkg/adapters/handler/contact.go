package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/moodsync/pkg/core/domain"
	"github.com/wadjakorntonsri/moodsync/pkg/ports"
)

type ContactHandler struct {
	service   ports.ContactService
	validator *Validator
}

func NewContactHandler(service ports.ContactService, validator *Validator) *ContactHandler {
	return &ContactHandler{service: service, validator: validator}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=2000"`
}

type feedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
	Emotion string `json:"emotion" validate:"max=30"`
}

type listResponse[T any] struct {
	Data  []T `json:"data"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !h.validator.decodeAndValidate(w, r, &req) {
		return
	}

	contact, err := h.service.SubmitContact(r.Context(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

func (h *ContactHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !h.validator.decodeAndValidate(w, r, &req) {
		return
	}

	feedback, err := h.service.SubmitFeedback(r.Context(), UserFromContext(r.Context()), req.Rating, req.Comment, req.Emotion)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, feedback)
}

func (h *ContactHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	contacts, err := h.service.ListContacts(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Contact]{Data: contacts, Page: page, Limit: limit})
}

func (h *ContactHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	feedback, err := h.service.ListFeedback(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[domain.Feedback]{Data: feedback, Page: page, Limit: limit})
}
