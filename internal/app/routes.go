package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/outreach/internal/handler"
	"github.com/outreach/internal/middleware"
)

func (app *App) routes() http.Handler {
	r := chi.NewRouter()
	if app.config.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(app.config.Cors.TrustedOrigins))

	// Health check
	r.Get("/api/health", handler.Health(app.directory))

	recipientsHandler := handler.NewRecipientsHandler(app.logger, app.engine)
	r.Get("/api/recipients", recipientsHandler.List)

	sendHandler := handler.NewSendHandler(app.logger, app.engine, app.config.MaxUploadSizeMB)
	r.With(middleware.RateLimit(app.config.RateLimitPerMinute)).Post("/send-email", sendHandler.Handle)

	return r
}
