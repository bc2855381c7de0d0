// Package app wires the repository, services and router into one handler.
package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkbio/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-linkbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-linkbio/pkg/config"
	"github.com/wadjakorntonsri/go-linkbio/pkg/core/reconcile"
	"github.com/wadjakorntonsri/go-linkbio/pkg/core/services"
)

type App struct {
	Handler http.Handler
	Repo    *sqlite.SQLiteRepository
	Links   *services.LinkService
	Clicks  *services.ClickTracker
}

func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	rec := reconcile.New(repo, cfg.ReconcileConcurrency, log)
	links := services.NewLinkService(repo, repo, rec, log, cfg.ReconcileTimeout)
	clicks := services.NewClickTracker(repo, log)

	router := handler.NewRouter(cfg, handler.Services{
		Links:     links,
		Profiles:  services.NewProfileService(repo, repo, repo),
		Analytics: services.NewAnalyticsService(repo, repo, cfg.Location(), cfg.AnalyticsDays),
		Clicks:    clicks,
		DB:        repo,
	}, log)

	return &App{Handler: router, Repo: repo, Links: links, Clicks: clicks}, nil
}

// Shutdown drains pending order writes and click tracking, then closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	linksErr := a.Links.Shutdown(ctx)
	a.Clicks.Wait()
	return errors.Join(linksErr, a.Repo.Close())
}
