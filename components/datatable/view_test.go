package datatable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keywordTable() Table {
	return Table{
		Columns: []ColumnDescriptor{
			{Key: "keyword", Label: "Keyword", Sortable: true},
			{Key: "searchVolume", Label: "Volume", Sortable: true, Render: func(v any, _ Record) any {
				return fmt.Sprintf("%s/mo", Text(v))
			}},
			{Key: "difficulty"},
		},
		Filters: []FilterDescriptor{
			{Key: "minSearchVolume", Kind: KindNumber, Field: "searchVolume"},
			{Key: "maxDifficulty", Kind: KindNumber, Field: "difficulty", Match: MatchMax},
		},
	}
}

func keywordRecords(n int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{
			"Id":           i + 1,
			"keyword":      fmt.Sprintf("kw-%02d", i+1),
			"searchVolume": (i + 1) * 100,
			"difficulty":   (i * 7) % 100,
		}
	}
	return out
}

func TestViewComposesFilterSortPaginate(t *testing.T) {
	table := keywordTable()
	records := keywordRecords(30)
	state := NewState().
		WithFilter("minSearchVolume", "1000").
		WithSort("searchVolume").
		WithSort("searchVolume")

	view := table.View(records, state)
	require.Equal(t, 21, view.Filtered)
	assert.Equal(t, 30, view.Total)
	assert.Equal(t, 3, view.Page.TotalPages)
	assert.True(t, view.ShowPagination)
	require.Len(t, view.Rows, 10)
	assert.Equal(t, 30, view.Rows[0].ID)
	assert.Equal(t, "3000/mo", view.Rows[0].Cells[1].Value)
	assert.Equal(t, "Showing 1 to 10 of 21 results", view.Summary)

	headers := view.Headers
	require.Len(t, headers, 3)
	assert.True(t, headers[1].Active)
	assert.Equal(t, Desc, headers[1].Direction)
	assert.Equal(t, "Difficulty", headers[2].Label)
}

func TestViewClampsPage(t *testing.T) {
	table := keywordTable()
	view := table.View(keywordRecords(15), NewState().WithPage(9))
	assert.Equal(t, 2, view.State.Page)
	assert.Len(t, view.Rows, 5)

	empty := table.View(nil, NewState().WithPage(4))
	assert.Equal(t, 1, empty.State.Page)
	assert.True(t, empty.Empty())
	assert.False(t, empty.ShowPagination)
}

func TestStateChangesResetPage(t *testing.T) {
	state := NewState().WithPage(3)
	assert.Equal(t, 1, state.WithFilter("maxDifficulty", "40").Page)
	assert.Equal(t, 1, state.WithSort("keyword").Page)
	assert.Equal(t, 1, state.WithoutFilters().Page)
	assert.Equal(t, 3, state.Page)
}

func TestWithFiltersDropsBlankValues(t *testing.T) {
	state := NewState().WithFilters(Values{"a": " ", "b": "x"})
	assert.Equal(t, Values{"b": "x"}, state.Filters)
}

func TestTableSortable(t *testing.T) {
	table := keywordTable()
	assert.True(t, table.Sortable("keyword"))
	assert.False(t, table.Sortable("difficulty"))
	assert.False(t, table.Sortable("missing"))
}
