package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

// RecordsInput selects an entity collection, or one record when ID is set.
type RecordsInput struct {
	Entity string
	ID     int
}

type recordService interface {
	List(ctx context.Context, entity string) ([]datatable.Record, error)
	Get(ctx context.Context, entity string, id int) (datatable.Record, error)
}

// RecordsQuery reads records straight from the repositories, bypassing the
// per-viewer table state.
type RecordsQuery struct {
	service recordService
}

// NewRecordsQuery builds the query.
func NewRecordsQuery(service recordService) *RecordsQuery {
	return &RecordsQuery{service: service}
}

var _ gocommand.Querier[RecordsInput, []datatable.Record] = (*RecordsQuery)(nil)

// Query returns the collection, or a one element slice for an ID lookup.
func (q *RecordsQuery) Query(ctx context.Context, input RecordsInput) ([]datatable.Record, error) {
	if input.ID > 0 {
		record, err := q.service.Get(ctx, input.Entity, input.ID)
		if err != nil {
			return nil, err
		}
		return []datatable.Record{record}, nil
	}
	return q.service.List(ctx, input.Entity)
}
