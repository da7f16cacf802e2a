package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/wadjakorntonsri/moodsync/pkg/config"
	"github.com/wadjakorntonsri/moodsync/pkg/ports"
)

type ClassifierHandler struct {
	service   ports.ClassifierService
	validator *Validator
}

func NewClassifierHandler(service ports.ClassifierService, validator *Validator) *ClassifierHandler {
	return &ClassifierHandler{service: service, validator: validator}
}

type predictRequest struct {
	Height float64 `json:"height" validate:"gt=0"`
	Weight float64 `json:"weight" validate:"gt=0"`
}

func (h *ClassifierHandler) Train(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Train(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ClassifierHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if !h.validator.decodeAndValidate(w, r, &req) {
		return
	}

	prediction, err := h.service.Predict(req.Height, req.Weight)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prediction)
}

func (h *ClassifierHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Status())
}

// NewClassifierRouter wires the standalone classifier service.
func NewClassifierRouter(cfg *config.Config, log *slog.Logger, service ports.ClassifierService) http.Handler {
	h := NewClassifierHandler(service, NewValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthz)
	mux.HandleFunc("POST /train", h.Train)
	mux.HandleFunc("POST /predict", h.Predict)
	mux.HandleFunc("GET /status", h.Status)

	return chain(mux,
		middleware.RealIP,
		RequestLogger(log),
		middleware.Recoverer,
		corsHandler(cfg),
	)
}

func corsHandler(cfg *config.Config) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// chain applies middlewares so the first one listed is the outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
