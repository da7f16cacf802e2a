package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/wadjakorntonsri/moodsync/pkg/config"
	"github.com/wadjakorntonsri/moodsync/pkg/ports"
)

type Services struct {
	Collections ports.CollectionService
	Contacts    ports.ContactService
	Catalog     ports.CatalogService
}

func healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, log *slog.Logger, svc Services) http.Handler {
	validator := NewValidator()

	// Initialize Handlers
	ch := NewCollectionHandler(svc.Collections, validator)
	contacts := NewContactHandler(svc.Contacts, validator)
	catalog := NewCatalogHandler(svc.Catalog)

	// Initialize Middleware
	mw := NewMiddleware(cfg)
	authHandler := NewAuthHandler(cfg, mw)

	protected := func(h http.HandlerFunc) http.Handler { return mw.AuthMiddleware(h) }
	optional := func(h http.HandlerFunc) http.Handler { return mw.OptionalAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return mw.AuthMiddleware(mw.RequireAdmin(h)) }

	// Setup Router
	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", healthz)
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/check", authHandler.Check)
	mux.HandleFunc("GET /api/emotions", catalog.Emotions)
	mux.HandleFunc("GET /api/recommendations", catalog.Recommendations)
	mux.HandleFunc("POST /api/contacts", contacts.SubmitContact)
	mux.Handle("POST /api/feedback", optional(contacts.SubmitFeedback))

	// Collection Routes. The literal user-collections segment wins over {id}.
	mux.Handle("POST /api/collections", protected(ch.CreateCollection))
	mux.Handle("GET /api/collections/user-collections", protected(ch.ListUserCollections))
	mux.Handle("GET /api/collections/{id}", optional(ch.GetCollection))
	mux.Handle("PUT /api/collections/{id}", protected(ch.UpdateCollection))
	mux.Handle("DELETE /api/collections/{id}", protected(ch.DeleteCollection))
	mux.Handle("POST /api/collections/{id}/items", protected(ch.AddItem))
	mux.Handle("PUT /api/collections/{id}/items/full-update", protected(ch.FullUpdate))
	mux.Handle("DELETE /api/collections/{id}/items/{itemId}", protected(ch.RemoveItem))

	// Admin Routes
	mux.Handle("GET /api/admin/dashboard", admin(contacts.Dashboard))
	mux.Handle("GET /api/admin/contacts", admin(contacts.ListContacts))
	mux.Handle("GET /api/admin/feedback", admin(contacts.ListFeedback))

	return chain(mux,
		middleware.RealIP,
		RequestLogger(log),
		middleware.Recoverer,
		corsHandler(cfg),
	)
}
