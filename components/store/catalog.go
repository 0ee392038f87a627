package store

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// Catalog maps entity names to repositories.
type Catalog struct {
	mu    sync.RWMutex
	repos map[string]Repository
}

// NewCatalog builds a catalog from repositories keyed by their entity name.
func NewCatalog(repos ...Repository) *Catalog {
	c := &Catalog{repos: make(map[string]Repository, len(repos))}
	for _, repo := range repos {
		c.repos[repo.Entity()] = repo
	}
	return c
}

// Register adds or replaces a repository.
func (c *Catalog) Register(repo Repository) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repos[repo.Entity()] = repo
}

// Repository returns the repository for entity.
func (c *Catalog) Repository(entity string) (Repository, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	repo, ok := c.repos[entity]
	if !ok {
		return nil, &Error{Kind: ErrNotFound, Entity: entity, Message: "unknown collection"}
	}
	return repo, nil
}

// Entities returns the registered entity names sorted alphabetically.
func (c *Catalog) Entities() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.repos))
	for name := range c.repos {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Warm fetches every collection concurrently and returns the record counts.
func (c *Catalog) Warm(ctx context.Context) (map[string]int, error) {
	entities := c.Entities()
	counts := make([]int, len(entities))
	g, gctx := errgroup.WithContext(ctx)
	for i, entity := range entities {
		repo, err := c.Repository(entity)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			records, err := repo.GetAll(gctx)
			if err != nil {
				return fmt.Errorf("store: warm %s: %w", entity, err)
			}
			counts[i] = len(records)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(entities))
	for i, entity := range entities {
		out[entity] = counts[i]
	}
	return out, nil
}

// FixtureOptions configures LoadFixtures.
type FixtureOptions struct {
	Latency Latency
	Clock   func() time.Time
}

// LoadFixtures builds in-memory repositories for every entity, plus the top
// pages report, from the embedded fixture files.
func LoadFixtures(opts FixtureOptions) (*Catalog, error) {
	catalog := NewCatalog()
	for _, entity := range append(Entities(), EntityTopPages) {
		records, err := ReadFixture(entity)
		if err != nil {
			return nil, err
		}
		catalog.Register(NewMemory(MemoryOptions{
			Entity:  entity,
			Records: records,
			Latency: opts.Latency,
			Clock:   opts.Clock,
			Stamp:   Stampers()[entity],
		}))
	}
	return catalog, nil
}

// ReadFixture decodes the embedded fixture for entity.
func ReadFixture(entity string) ([]datatable.Record, error) {
	data, err := fixtureFS.ReadFile("fixtures/" + entity + ".json")
	if err != nil {
		return nil, fmt.Errorf("store: read fixture %s: %w", entity, err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("store: decode fixture %s: %w", entity, err)
	}
	records := make([]datatable.Record, len(raw))
	for i, r := range raw {
		records[i] = datatable.Record(r)
	}
	return records, nil
}

// Stampers returns the per-entity timestamp and default hooks.
func Stampers() map[string]Stamper {
	return map[string]Stamper{
		EntityBacklinks: func(now time.Time, r datatable.Record, created bool) {
			if created {
				r["firstSeen"] = now.Format(time.RFC3339)
			}
			r["lastChecked"] = now.Format(time.RFC3339)
		},
		EntityDomains:     stampField("lastUpdated"),
		EntityCompetitors: stampField("lastUpdated"),
		EntityRankings: func(now time.Time, r datatable.Record, _ bool) {
			r["lastChecked"] = now.Format(time.RFC3339)
			current, okCurrent := datatable.Number(r["currentPosition"])
			previous, okPrevious := datatable.Number(r["previousPosition"])
			if okCurrent && okPrevious {
				r["change"] = previous - current
			}
		},
		EntityLinkOpportunities: func(now time.Time, r datatable.Record, created bool) {
			if !created {
				return
			}
			setDefault(r, "website", "")
			setDefault(r, "type", "broken-link")
			setDefault(r, "targetUrl", "")
			setDefault(r, "anchorText", "")
			setDefault(r, "domainRating", 0)
			setDefault(r, "notes", "")
			r["status"] = "new"
			r["foundAt"] = now.Format(time.RFC3339)
			r["contactedAt"] = nil
			r["acquiredAt"] = nil
		},
	}
}

func stampField(field string) Stamper {
	return func(now time.Time, r datatable.Record, _ bool) {
		r[field] = now.Format(time.RFC3339)
	}
}

func setDefault(r datatable.Record, key string, value any) {
	if v, ok := r[key]; !ok || v == nil {
		r[key] = value
	}
}
