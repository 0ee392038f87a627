package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-seo-dashboard/components/store"
	"github.com/goliatone/go-seo-dashboard/pkg/seoapi"
)

type fixturesCmd struct {
	Addr string `default:":8090" help:"Listen address of the REST fixture backend."`
}

func (cmd *fixturesCmd) Run(root *cli, ctx context.Context) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	log := newLogger(cfg).With("component", "fixtures")

	latency := store.Latency{Read: cfg.Store.ReadLatency, Write: cfg.Store.WriteLatency}
	if !cfg.Store.Simulate {
		latency = store.Latency{}
	}
	catalog, err := store.LoadFixtures(store.FixtureOptions{Latency: latency})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cmd.Addr,
		Handler:           seoapi.NewHandler(catalog),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("fixture backend listening", "addr", cmd.Addr, "entities", catalog.Entities())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
