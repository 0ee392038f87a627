package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

func TestLoadFixturesRegistersEveryEntity(t *testing.T) {
	catalog, err := LoadFixtures(FixtureOptions{Clock: fixedClock})
	require.NoError(t, err)
	assert.ElementsMatch(t, append(Entities(), EntityTopPages), catalog.Entities())

	counts, err := catalog.Warm(context.Background())
	require.NoError(t, err)
	assert.Greater(t, counts[EntityBacklinks], datatable.DefaultPageSize)
	assert.Greater(t, counts[EntityKeywords], datatable.DefaultPageSize)
	assert.Zero(t, counts[EntityCompetitors])
	assert.Zero(t, counts[EntityRankings])
	assert.Equal(t, 5, counts[EntityTopPages])
}

func TestFixtureIDsAreUnique(t *testing.T) {
	for _, entity := range Entities() {
		records, err := ReadFixture(entity)
		require.NoError(t, err, entity)
		seen := map[int]bool{}
		for _, r := range records {
			id, ok := r.ID()
			require.True(t, ok, "%s record without integer id", entity)
			require.False(t, seen[id], "%s duplicates id %d", entity, id)
			seen[id] = true
		}
	}
}

func TestCatalogUnknownEntity(t *testing.T) {
	catalog := NewCatalog()
	_, err := catalog.Repository("pages")
	assert.True(t, IsNotFound(err))
}

func TestFindHelpers(t *testing.T) {
	repo := NewMemory(MemoryOptions{
		Entity: EntityLinkOpportunities,
		Records: []datatable.Record{
			{"Id": 1, "status": "new", "type": "broken-link", "domainRating": 20},
			{"Id": 2, "status": "contacted", "type": "unlinked-mention", "domainRating": 45},
			{"Id": 3, "status": "new", "type": "unlinked-mention", "domainRating": 80},
		},
	})
	ctx := context.Background()

	byStatus, err := ByStatus(ctx, repo, "new")
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)

	byType, err := ByType(ctx, repo, "unlinked-mention")
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	byRating, err := ByDomainRating(ctx, repo, 40, 0)
	require.NoError(t, err)
	assert.Len(t, byRating, 2)

	byRating, err = ByDomainRating(ctx, repo, 0, 50)
	require.NoError(t, err)
	assert.Len(t, byRating, 2)

	first, err := FindFirst(ctx, repo, "type", "unlinked-mention")
	require.NoError(t, err)
	assert.Equal(t, 2, first["Id"])

	_, err = FindFirst(ctx, repo, "type", "guest-post")
	assert.True(t, IsNotFound(err))
}

func TestRankingStamperComputesChange(t *testing.T) {
	repo := NewMemory(MemoryOptions{
		Entity: EntityRankings,
		Clock:  fixedClock,
		Stamp:  Stampers()[EntityRankings],
	})
	created, err := repo.Create(context.Background(), datatable.Record{
		"keyword":          "seo audit",
		"currentPosition":  4,
		"previousPosition": 9,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, created["change"])
	assert.Equal(t, "2024-06-10T12:00:00Z", created["lastChecked"])

	updated, err := repo.Update(context.Background(), 1, datatable.Record{"currentPosition": 12})
	require.NoError(t, err)
	assert.EqualValues(t, -3, updated["change"])
}
