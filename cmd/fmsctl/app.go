package main

import (
	"context"
	"fmt"

	"findmyspace/internal/cache"
	"findmyspace/internal/client"
	"findmyspace/internal/config"
	"findmyspace/internal/geocode"
	"findmyspace/internal/layout"
	"findmyspace/internal/reconcile"

	"go.uber.org/zap"
)

// workspace holds everything a command needs to talk to the server and the local cache.
type workspace struct {
	client  *client.Client
	store   *cache.Store
	session *reconcile.Session
}

func geometryOf(c *config.CLI) layout.Geometry {
	return layout.Geometry{CanvasSize: float64(c.CanvasSize), SlotSize: float64(c.SlotSize)}
}

func newClient(c *config.CLI) *client.Client {
	return client.New(c.Server, client.WithToken(c.Token), client.WithLogger(logger))
}

func openWorkspace() (*workspace, error) {
	store, err := cache.Open(cfg.CachePath, logger)
	if err != nil {
		return nil, fmt.Errorf("open local cache: %w", err)
	}
	api := newClient(cfg)
	var geo reconcile.Geocoder
	if cfg.Geocoder != "" {
		geo = geocode.NewNominatim(cfg.Geocoder, cfg.UserAgent, logger)
	}
	rec := reconcile.New(api, store, geo, logger)
	return &workspace{
		client:  api,
		store:   store,
		session: reconcile.NewSession(rec, geometryOf(cfg), logger),
	}, nil
}

func (w *workspace) Close() {
	if err := w.store.Close(); err != nil {
		logger.Warn("closing local cache", zap.Error(err))
	}
}

// saveLayout writes the session's layout and reports a partial save.
func (w *workspace) saveLayout(ctx context.Context) error {
	res, err := w.session.SaveLayout(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Layout of space %d saved (%s match in local cache)\n", res.SpaceID, res.Rule)
	return nil
}

func requireLogin() error {
	if cfg.Token == "" || cfg.UserID == 0 {
		return fmt.Errorf("not logged in, run `fmsctl login` first")
	}
	return nil
}
