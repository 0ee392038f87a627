package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-seo-dashboard/components/store"
)

// BootstrapOptions configures Bootstrap. Service collaborators left nil are
// filled from the fixture catalog and a fresh analyzer.
type BootstrapOptions struct {
	Fixtures store.FixtureOptions
	Analyzer store.AnalyzerOptions
	Service  Options
	Warm     bool
}

// Bootstrap builds a Service over the embedded fixtures and optionally
// preloads every collection.
func Bootstrap(ctx context.Context, opts BootstrapOptions) (*Service, error) {
	svcOpts := opts.Service
	if svcOpts.Repositories == nil {
		catalog, err := store.LoadFixtures(opts.Fixtures)
		if err != nil {
			return nil, fmt.Errorf("dashboard: load fixtures: %w", err)
		}
		svcOpts.Repositories = catalog
	}
	if svcOpts.Analyzer == nil {
		svcOpts.Analyzer = store.NewAnalyzer(opts.Analyzer)
	}
	service, err := NewService(svcOpts)
	if err != nil {
		return nil, err
	}
	if opts.Warm {
		if _, err := service.Warm(ctx); err != nil {
			return nil, err
		}
	}
	return service, nil
}

// SeedRequest lists the demo competitors and tracked keywords to create.
type SeedRequest struct {
	Competitors []string
	Keywords    []string
}

// DefaultSeedRequest returns the starter data for the empty competitor and
// rank tracker pages.
func DefaultSeedRequest() SeedRequest {
	return SeedRequest{
		Competitors: []string{"competitor1.com", "competitor2.com", "competitor3.com"},
		Keywords:    []string{"seo tools", "keyword research", "backlink checker"},
	}
}

// Seed adds the requested competitors and keywords, skipping ones already
// tracked. Every other failure is joined into the result.
func Seed(ctx context.Context, service *Service, viewer ViewerContext, req SeedRequest) error {
	if service == nil {
		return errors.New("dashboard: service is required to seed")
	}
	var seedErr error
	for _, domain := range req.Competitors {
		if _, err := service.addCompetitor(ctx, viewer, domain); err != nil && !store.IsValidation(err) {
			seedErr = errors.Join(seedErr, fmt.Errorf("seed competitor %s: %w", domain, err))
		}
	}
	for _, keyword := range req.Keywords {
		if _, err := service.trackKeyword(ctx, viewer, keyword); err != nil && !store.IsValidation(err) {
			seedErr = errors.Join(seedErr, fmt.Errorf("seed keyword %s: %w", keyword, err))
		}
	}
	return seedErr
}
