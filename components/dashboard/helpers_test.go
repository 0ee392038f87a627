package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testPageDefinition() PageDefinition {
	return PageDefinition{
		Code:     "terms",
		Route:    "/terms",
		Title:    "Terms",
		Entity:   store.EntityKeywords,
		PageSize: 10,
		Metrics:  "keywords",
		Columns: []datatable.ColumnDescriptor{
			{Key: "keyword", Sortable: true},
			{Key: "searchVolume", Sortable: true},
			{Key: "notes"},
		},
		Filters: []datatable.FilterDescriptor{
			{Key: "minVolume", Kind: datatable.KindNumber, Field: "searchVolume", Match: datatable.MatchMin},
			{Key: "keyword", Kind: datatable.KindText},
		},
	}
}

func keywordRecords(n int) []datatable.Record {
	out := make([]datatable.Record, n)
	for i := range out {
		out[i] = datatable.Record{
			datatable.IDField: i + 1,
			"keyword":         fmt.Sprintf("kw-%02d", i+1),
			"searchVolume":    (i + 1) * 10,
			"difficulty":      (i * 7) % 100,
			"position":        i + 1,
		}
	}
	return out
}

func newKeywordRepo(n int) *store.Memory {
	return store.NewMemory(store.MemoryOptions{
		Entity:  store.EntityKeywords,
		Records: keywordRecords(n),
		Clock:   fixedClock,
	})
}

type loadReply struct {
	records []datatable.Record
	err     error
}

// scriptedRepo hands every GetAll call to the test, which decides when and
// how it completes.
type scriptedRepo struct {
	store.Repository
	calls chan chan loadReply
}

func newScriptedRepo() *scriptedRepo {
	return &scriptedRepo{
		Repository: store.NewMemory(store.MemoryOptions{Entity: store.EntityKeywords}),
		calls:      make(chan chan loadReply),
	}
}

func (r *scriptedRepo) GetAll(ctx context.Context) ([]datatable.Record, error) {
	reply := make(chan loadReply, 1)
	select {
	case r.calls <- reply:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case out := <-reply:
		return out.records, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// failingRepo fails every read.
type failingRepo struct {
	store.Repository
	err error
}

func (r failingRepo) GetAll(context.Context) ([]datatable.Record, error) {
	return nil, r.err
}

// repoSource is a RepositorySource over fixed repositories.
type repoSource map[string]store.Repository

func (s repoSource) Repository(entity string) (store.Repository, error) {
	repo, ok := s[entity]
	if !ok {
		return nil, &store.Error{Kind: store.ErrNotFound, Entity: entity}
	}
	return repo, nil
}
