package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter configures the chi router with all application routes.
func NewRouter(sessionHandler *SessionHandler, settingsHandler *SettingsHandler, staticDir string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Liveness probe for container orchestration.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Standard JSON routes get a request timeout so client connections
		// cannot hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// --- Settings ---
			r.Get("/settings", settingsHandler.GetSettings)
			r.Put("/settings", settingsHandler.UpdateSettings)
			r.Post("/settings/apikey", settingsHandler.GenerateAPIKey)
			r.Post("/settings/theme", settingsHandler.ToggleTheme)
			r.Get("/settings/usage", settingsHandler.GetUsage)

			// --- Sessions ---
			r.Get("/sessions", sessionHandler.ListSessions)
			r.Post("/sessions", sessionHandler.CreateSession)
			r.Delete("/sessions", sessionHandler.ClearSessions)
			r.Get("/sessions/{sessionID}", sessionHandler.GetSession)
			r.Put("/sessions/{sessionID}/activate", sessionHandler.ActivateSession)
			r.Delete("/sessions/{sessionID}", sessionHandler.DeleteSession)
		})

		// Streaming endpoints hold the connection open for the duration of
		// a generation and must not carry a timeout.
		r.Group(func(r chi.Router) {
			r.Post("/sessions/{sessionID}/messages", sessionHandler.StreamMessage)
		})
	})

	// Serves the static browser UI; in production a reverse proxy usually
	// takes this over.
	fileServer := http.FileServer(http.Dir(staticDir))
	r.Handle("/*", http.StripPrefix("/", fileServer))

	return r
}
