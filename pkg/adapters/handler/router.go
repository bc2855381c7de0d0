package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkbio/pkg/config"
	"github.com/wadjakorntonsri/go-linkbio/pkg/ports"
)

// Services bundles what the router dispatches to.
type Services struct {
	Links     ports.LinkService
	Profiles  ports.ProfileService
	Analytics ports.AnalyticsService
	Clicks    ClickTracker
	// DB is pinged by /healthz when set.
	DB interface {
		Ping(ctx context.Context) error
	}
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, svc Services, log zerolog.Logger) http.Handler {
	mw := NewMiddleware(cfg, log)
	authHandler := NewAuthHandler(cfg, log)
	ph := NewProfileHandler(svc.Profiles, svc.Links, log)
	lh := NewLinkHandler(svc.Links, ph, log)
	ah := NewAnalyticsHandler(svc.Analytics, svc.Links, ph, log)
	pub := NewPublicHandler(svc.Profiles, svc.Links, svc.Clicks, log)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if svc.DB != nil {
			if err := svc.DB.Ping(r.Context()); err != nil {
				log.Warn().Err(err).Msg("health check failed")
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "database unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /p/{username}", pub.Page)
	mux.HandleFunc("POST /p/{username}/links/{id}/click", pub.Click)
	mux.HandleFunc("GET /go/{id}", pub.Redirect)
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes
	api := http.NewServeMux()
	api.HandleFunc("GET /api/v1/templates", ph.ListTemplates)
	api.HandleFunc("GET /api/v1/themes", ph.ListThemes)

	api.HandleFunc("POST /api/v1/profiles", ph.CreateProfile)
	api.HandleFunc("GET /api/v1/profiles", ph.ListProfiles)
	api.HandleFunc("GET /api/v1/profiles/{id}", ph.GetProfile)
	api.HandleFunc("PUT /api/v1/profiles/{id}", ph.UpdateProfile)
	api.HandleFunc("DELETE /api/v1/profiles/{id}", ph.DeleteProfile)

	api.HandleFunc("GET /api/v1/profiles/{id}/links", lh.List)
	api.HandleFunc("POST /api/v1/profiles/{id}/links", lh.Create)
	api.HandleFunc("POST /api/v1/profiles/{id}/links/move", lh.Move)
	api.HandleFunc("POST /api/v1/profiles/{id}/links/sync", lh.Sync)
	api.HandleFunc("PUT /api/v1/profiles/{id}/links/{linkID}", lh.Update)
	api.HandleFunc("DELETE /api/v1/profiles/{id}/links/{linkID}", lh.Delete)
	api.HandleFunc("POST /api/v1/profiles/{id}/links/{linkID}/active", lh.SetActive)

	api.HandleFunc("GET /api/v1/profiles/{id}/analytics", ah.ProfileSummary)
	api.HandleFunc("GET /api/v1/profiles/{id}/links/{linkID}/analytics", ah.LinkDaily)

	mux.Handle("/api/v1/", mw.AuthMiddleware(api))

	var h http.Handler = mux
	h = mw.CORS()(h)
	h = middleware.Recoverer(h)
	h = mw.RequestLogger(h)
	h = middleware.RequestID(h)
	return h
}
