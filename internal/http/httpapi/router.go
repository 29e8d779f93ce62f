package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"videoforge/internal/http/handlers"
	"videoforge/internal/infra"
	"videoforge/internal/middleware"
)

func NewRouter(cfg *infra.Config, logger infra.Logger, app *handlers.App) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	// Health
	r.Get("/v1/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate-video", app.GenerateVideo)
		r.Get("/generate-video", app.GenerateVideoInfo)

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", app.ListVideos)
			r.Delete("/", app.ClearVideos)
			r.Get("/stats", app.VideoStats)
			r.Get("/{id}/download", app.DownloadVideo)
			r.Delete("/{id}", app.DeleteVideo)
		})
	})

	return r
}
