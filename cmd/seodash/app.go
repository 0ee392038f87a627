package main

import (
	"context"
	"fmt"
	"os"

	"github.com/goliatone/go-seo-dashboard/components/dashboard"
	"github.com/goliatone/go-seo-dashboard/components/store"
	"github.com/goliatone/go-seo-dashboard/pkg/activity"
	"github.com/goliatone/go-seo-dashboard/pkg/config"
	"github.com/goliatone/go-seo-dashboard/pkg/logger"
	"github.com/goliatone/go-seo-dashboard/pkg/seoapi"
)

// app holds the collaborators every command shares.
type app struct {
	cfg       config.Config
	log       logger.Logger
	registry  *dashboard.Registry
	service   *dashboard.Service
	broadcast *dashboard.BroadcastHook
	telemetry *dashboard.PrometheusTelemetry
}

type appOptions struct {
	// quiet drops latency and analysis delays for one-shot commands.
	quiet bool
}

func loadConfig(root *cli) (config.Config, error) {
	return config.Load(config.LoadOptions{EnvFile: root.EnvFile})
}

func newLogger(cfg config.Config) logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.Level(cfg.Log.Level),
		JSON:   cfg.Log.JSON,
		Output: os.Stderr,
		Prefix: "seodash",
	})
}

func newApp(ctx context.Context, cfg config.Config, opts appOptions) (*app, error) {
	log := newLogger(cfg)

	registry, err := dashboard.NewRegistry()
	if err != nil {
		return nil, err
	}
	if cfg.Pages.Manifest != "" {
		doc, err := registry.LoadManifestFile(cfg.Pages.Manifest)
		if err != nil {
			return nil, err
		}
		log.Info("manifest loaded", "path", doc.Source, "pages", len(doc.Pages))
	}

	latency := store.Latency{Read: cfg.Store.ReadLatency, Write: cfg.Store.WriteLatency}
	delays := store.DefaultDelays()
	if opts.quiet || !cfg.Store.Simulate {
		latency = store.Latency{}
		delays = store.Delays{}
	}

	repos, err := newRepositories(cfg, latency)
	if err != nil {
		return nil, err
	}

	broadcast := dashboard.NewBroadcastHook()
	telemetry := dashboard.NewPrometheusTelemetry()
	charts := dashboard.NewChartRenderer(
		dashboard.WithChartCache(dashboard.NewChartCache(cfg.Charts.CacheSize, cfg.Charts.CacheTTL)),
		dashboard.WithChartTheme(cfg.Charts.Theme),
	)

	service, err := dashboard.NewService(dashboard.Options{
		Repositories: repos,
		Analyzer: store.NewAnalyzer(store.AnalyzerOptions{
			Seed:        cfg.Store.Seed,
			Delays:      delays,
			ContentHost: cfg.Store.ContentHost,
		}),
		Pages:     registry,
		Sessions:  dashboard.NewInMemorySessionStore(),
		Validator: dashboard.NewJSONSchemaValidator(),
		Notifier: dashboard.NotificationHooks{
			broadcast,
			dashboard.LogHook{Logger: log.With("component", "notifications")},
		},
		Charts:         charts,
		Telemetry:      telemetry,
		ActivityHooks:  activity.Hooks{activity.LoggerHook{Logger: log.With("component", "activity")}},
		ActivityConfig: activity.Config{Enabled: cfg.Log.Level == string(logger.DebugLevel)},
		Logger:         log,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		log:       log,
		registry:  registry,
		service:   service,
		broadcast: broadcast,
		telemetry: telemetry,
	}, nil
}

// newRepositories reads from the remote REST backend when one is configured
// and from the embedded fixtures otherwise.
func newRepositories(cfg config.Config, latency store.Latency) (dashboard.RepositorySource, error) {
	if cfg.Remote.BaseURL == "" {
		catalog, err := store.LoadFixtures(store.FixtureOptions{Latency: latency})
		if err != nil {
			return nil, err
		}
		return catalog, nil
	}
	client, err := seoapi.NewClient(seoapi.Config{
		BaseURL:    cfg.Remote.BaseURL,
		APIKey:     cfg.Remote.APIKey,
		Timeout:    cfg.Remote.Timeout,
		RetryCount: 2,
	})
	if err != nil {
		return nil, fmt.Errorf("seodash: remote repositories: %w", err)
	}
	return seoapi.NewCatalog(client, append(store.Entities(), store.EntityTopPages)...), nil
}

func (a *app) viewer(locale string) dashboard.ViewerContext {
	if locale == "" {
		locale = a.cfg.Server.Locale
	}
	return dashboard.ViewerContext{UserID: "cli", Locale: locale}
}
