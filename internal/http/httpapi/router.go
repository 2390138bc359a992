package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"videowizard/internal/http/handlers"
	"videowizard/internal/infra"
	"videowizard/internal/middleware"
)

// NewRouter wires the HTTP surface. Generation and assist endpoints sit
// behind a rate limiter because they fan out to the backend.
func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Locale(cfg.DefaultLocale),
	)

	limited := middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/integrations/gemini", func(r chi.Router) {
		r.Get("/status", app.GeminiStatus)
		r.Post("/key", app.GeminiKeyPut)
		r.Delete("/key", app.GeminiKeyDelete)
	})

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", app.SessionsCreate)

		r.Route("/{session_id}", func(r chi.Router) {
			r.Get("/", app.SessionsGet)
			r.Delete("/", app.SessionsDelete)
			r.Post("/next", app.SessionsNext)
			r.Post("/back", app.SessionsBack)

			r.Route("/content", func(r chi.Router) {
				r.Put("/script", app.ContentScript)
				r.Post("/audio", app.ContentAudio)
				r.Post("/image", app.ContentImage)
				r.With(limited).Post("/enhance", app.ContentEnhance)
				r.With(limited).Post("/transcribe", app.ContentTranscribe)
			})

			r.Put("/style", app.StylePut)
			r.Put("/settings", app.SettingsPut)
			r.With(limited).Post("/generate", app.Generate)
		})
	})

	return r
}
