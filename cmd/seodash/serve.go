package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-seo-dashboard/components/dashboard"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/httpapi"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-seo-dashboard/pkg/navigation"
)

const shutdownTimeout = 5 * time.Second

type serveCmd struct {
	Addr string `help:"Listen address, overriding server.addr."`
	Seed bool   `default:"true" negatable:"" help:"Seed demo competitors and tracked keywords on start."`
}

func (cmd *serveCmd) Run(root *cli, ctx context.Context) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cmd.Addr != "" {
		cfg.Server.Addr = cmd.Addr
	}
	a, err := newApp(ctx, cfg, appOptions{})
	if err != nil {
		return err
	}
	defer a.service.Close()

	counts, err := a.service.Warm(ctx)
	if err != nil {
		return err
	}
	a.log.Info("collections loaded", "counts", counts)

	if cmd.Seed {
		seed := commands.NewSeedDashboardCommand(a.service, a.telemetry)
		if err := seed.Execute(ctx, commands.SeedDashboardInput{}); err != nil {
			a.log.Warn("seed failed", "error", err)
		}
	}
	if cfg.Rankings.RefreshSchedule != "" {
		if err := a.service.ScheduleRankingRefresh(cfg.Rankings.RefreshSchedule); err != nil {
			return err
		}
	}

	renderer, err := dashboard.NewTemplateRenderer(nil)
	if err != nil {
		return err
	}
	controller := dashboard.NewController(dashboard.ControllerOptions{
		Service:  a.service,
		Renderer: renderer,
		BasePath: cfg.Server.BasePath,
	})

	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		Pages:      a.registry,
		API:        httpapi.NewCommandExecutor(a.service, a.telemetry),
		Queries: gorouter.Queries{
			Page:    queries.NewPageQuery(a.service),
			Pages:   queries.NewPagesQuery(a.service),
			Records: queries.NewRecordsQuery(a.service),
		},
		Broadcast: a.broadcast,
		BasePath:  cfg.Server.BasePath,
		Routes:    gorouter.RouteConfig{API: cfg.Server.APIPath},
	}); err != nil {
		return err
	}

	menu := navigation.NewMenu()
	sidebar, err := navigation.New(navigation.Config{
		MenuCode:    sidebarMenu,
		MenuBuilder: menu,
		Pages:       a.service,
		BasePath:    cfg.Server.BasePath,
	})
	if err != nil {
		return err
	}
	if err := sidebar.Bootstrap(ctx, a.viewer("")); err != nil {
		return err
	}
	a.log.Debug("sidebar ready", "items", len(menu.Items(sidebarMenu)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info("dashboard listening", "addr", cfg.Server.Addr, "base_path", cfg.Server.BasePath)
		return server.Serve(cfg.Server.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.telemetry.Handler())
		metrics := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			a.log.Info("metrics listening", "addr", cfg.Metrics.Addr)
			if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return metrics.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
