package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-seo-dashboard/components/store"
)

func TestBootstrapWarmsCollections(t *testing.T) {
	service, err := Bootstrap(context.Background(), BootstrapOptions{
		Fixtures: store.FixtureOptions{Clock: fixedClock},
		Analyzer: store.AnalyzerOptions{Seed: 1, Clock: fixedClock},
		Warm:     true,
	})
	require.NoError(t, err)

	counts, err := service.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, counts[store.EntityTopPages])
	assert.Equal(t, 28, counts[store.EntityBacklinks])
	assert.Equal(t, 0, counts[store.EntityRankings])
	assert.NotContains(t, counts, store.EntityDomains, "only page collections are warmed")
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	service, err := Bootstrap(ctx, BootstrapOptions{
		Analyzer: store.AnalyzerOptions{Seed: 1},
	})
	require.NoError(t, err)

	req := DefaultSeedRequest()
	require.NoError(t, Seed(ctx, service, SchedulerViewer, req))
	require.NoError(t, Seed(ctx, service, SchedulerViewer, req))

	competitors, err := service.List(ctx, store.EntityCompetitors)
	require.NoError(t, err)
	assert.Len(t, competitors, len(req.Competitors))

	rankings, err := service.List(ctx, store.EntityRankings)
	require.NoError(t, err)
	assert.Len(t, rankings, len(req.Keywords))
}

func TestSeedRequiresService(t *testing.T) {
	if err := Seed(context.Background(), nil, ViewerContext{}, DefaultSeedRequest()); err == nil {
		t.Fatalf("expected error without service")
	}
}

func TestScheduleRankingRefresh(t *testing.T) {
	service, _ := newTestService(t, nil)
	defer service.Close()

	if err := service.ScheduleRankingRefresh("not a schedule"); err == nil {
		t.Fatalf("expected invalid schedule to fail")
	}
	if err := service.ScheduleRankingRefresh("@hourly"); err != nil {
		t.Fatalf("ScheduleRankingRefresh returned error: %v", err)
	}
	if err := service.ScheduleRankingRefresh("@daily"); err == nil {
		t.Fatalf("expected a second schedule to be rejected")
	}
	service.Close()
	if err := service.ScheduleRankingRefresh("@daily"); err != nil {
		t.Fatalf("expected scheduling after Close to succeed, got %v", err)
	}
}
