package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc Services, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Groups and rules.
	r.Route("/groups", func(r chi.Router) {
		r.Get("/", h.ListGroups)
		r.Post("/", h.CreateGroup)
		r.Route("/{groupID}", func(r chi.Router) {
			r.Patch("/", h.RenameGroup)
			r.Delete("/", h.DeleteGroup)
			r.Post("/rules", h.CreateRule)
			r.Put("/rules/{ruleID}", h.ReplaceRule)
			r.Delete("/rules/{ruleID}", h.DeleteRule)
			r.Post("/rules/{ruleID}/move", h.MoveRule)
		})
	})

	// Commands and navigation.
	r.Get("/commands", h.ListCommands)
	r.Post("/commands/{commandID}", h.RunCommand)
	r.Post("/navigate", h.Navigate)

	// Index snapshot.
	r.Get("/documents", h.ListDocuments)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
