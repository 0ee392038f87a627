// Package store provides the data repositories behind the dashboard pages:
// in-memory fixture-backed collections with simulated latency, plus the
// randomized analysis operations that stand in for a real SEO backend.
package store

import (
	"context"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

// Entity names for the fixture collections.
const (
	EntityDomains           = "domains"
	EntityBacklinks         = "backlinks"
	EntityKeywords          = "keywords"
	EntityAuditIssues       = "auditIssues"
	EntityLinkOpportunities = "linkOpportunities"
	EntityCompetitors       = "competitors"
	EntityRankings          = "rankings"

	// EntityTopPages is the read-only top pages report shown on the overview.
	EntityTopPages = "topPages"
)

// Entities lists every collection in display order.
func Entities() []string {
	return []string{
		EntityDomains,
		EntityBacklinks,
		EntityKeywords,
		EntityAuditIssues,
		EntityLinkOpportunities,
		EntityCompetitors,
		EntityRankings,
	}
}

// Repository is the CRUD contract every collection provider satisfies.
// Implementations return copies; mutating a returned record never changes
// the stored one.
type Repository interface {
	Entity() string
	GetAll(ctx context.Context) ([]datatable.Record, error)
	GetByID(ctx context.Context, id int) (datatable.Record, error)
	Create(ctx context.Context, data datatable.Record) (datatable.Record, error)
	Update(ctx context.Context, id int, data datatable.Record) (datatable.Record, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// Find returns the records of repo matching every predicate.
func Find(ctx context.Context, repo Repository, predicates ...datatable.Predicate) ([]datatable.Record, error) {
	all, err := repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]datatable.Record, 0, len(all))
	for _, r := range all {
		if datatable.MatchAll(r, predicates) {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindFirst returns the first record whose field formats to value.
func FindFirst(ctx context.Context, repo Repository, field, value string) (datatable.Record, error) {
	found, err := Find(ctx, repo, datatable.Equals(field, value))
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, &Error{Kind: ErrNotFound, Entity: repo.Entity(), Message: field + "=" + value}
	}
	return found[0], nil
}

// ByStatus selects link opportunities by status.
func ByStatus(ctx context.Context, repo Repository, status string) ([]datatable.Record, error) {
	return Find(ctx, repo, datatable.Equals("status", status))
}

// ByType selects link opportunities by type.
func ByType(ctx context.Context, repo Repository, kind string) ([]datatable.Record, error) {
	return Find(ctx, repo, datatable.Equals("type", kind))
}

// ByDomainRating selects records with min <= domainRating, and <= max when max > 0.
func ByDomainRating(ctx context.Context, repo Repository, minRating, maxRating float64) ([]datatable.Record, error) {
	return Find(ctx, repo, datatable.Between("domainRating", minRating, maxRating, maxRating > 0))
}
