package datatable

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortNumbersAscendingAndDescending(t *testing.T) {
	records := []Record{
		{"Id": 1, "position": 12},
		{"Id": 2, "position": 3.5},
		{"Id": 3, "position": 40},
		{"Id": 4, "position": 1},
	}
	assert.Equal(t, []int{4, 2, 1, 3}, ids(Sort(records, "position", Asc)))
	assert.Equal(t, []int{3, 1, 2, 4}, ids(Sort(records, "position", Desc)))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(records), "source must not be reordered")
}

func TestSortStringsAndDates(t *testing.T) {
	records := []Record{
		{"Id": 1, "firstSeen": "2024-03-01T10:00:00Z", "keyword": "seo"},
		{"Id": 2, "firstSeen": "2023-12-24T10:00:00Z", "keyword": "backlinks"},
		{"Id": 3, "firstSeen": "2024-01-15T10:00:00Z", "keyword": "audit"},
	}
	assert.Equal(t, []int{2, 3, 1}, ids(Sort(records, "firstSeen", Asc)))
	assert.Equal(t, []int{3, 2, 1}, ids(Sort(records, "keyword", Asc)))
}

func TestSortMissingValuesLastAscending(t *testing.T) {
	records := []Record{
		{"Id": 1},
		{"Id": 2, "traffic": 5},
		{"Id": 3, "traffic": nil},
		{"Id": 4, "traffic": 2},
	}
	assert.Equal(t, []int{4, 2, 1, 3}, ids(Sort(records, "traffic", Asc)))
}

func TestSortDescendingReversesAscending(t *testing.T) {
	records := []Record{
		{"Id": 1, "dr": 40},
		{"Id": 2, "dr": 90},
		{"Id": 3, "dr": 15},
		{"Id": 4},
		{"Id": 5, "dr": 63},
	}
	asc := Sort(records, "dr", Asc)
	desc := Sort(asc, "dr", Desc)
	reversed := ids(asc)
	slices.Reverse(reversed)
	assert.Equal(t, reversed, ids(desc))
}

func TestSortIsStable(t *testing.T) {
	records := []Record{
		{"Id": 1, "status": "new"},
		{"Id": 2, "status": "contacted"},
		{"Id": 3, "status": "new"},
		{"Id": 4, "status": "contacted"},
	}
	assert.Equal(t, []int{2, 4, 1, 3}, ids(Sort(records, "status", Asc)))
	assert.Equal(t, []int{1, 3, 2, 4}, ids(Sort(records, "status", Desc)))
}

func TestSortBooleans(t *testing.T) {
	records := []Record{{"Id": 1, "doFollow": true}, {"Id": 2, "doFollow": false}}
	assert.Equal(t, []int{2, 1}, ids(Sort(records, "doFollow", Asc)))
}

func TestSortWithoutFieldReturnsCopy(t *testing.T) {
	records := backlinks()
	out := Sort(records, "", Asc)
	assert.Equal(t, ids(records), ids(out))
	assert.NotNil(t, Sort(nil, "x", Asc))
}

func TestToggle(t *testing.T) {
	var s SortState
	s = s.Toggle("keyword")
	assert.Equal(t, SortState{Field: "keyword", Direction: Asc}, s)
	s = s.Toggle("keyword")
	assert.Equal(t, SortState{Field: "keyword", Direction: Desc}, s)
	s = s.Toggle("keyword")
	assert.Equal(t, SortState{Field: "keyword", Direction: Asc}, s)

	s = s.Toggle("keyword").Toggle("volume")
	assert.Equal(t, SortState{Field: "volume", Direction: Asc}, s)
	assert.Equal(t, s, s.Toggle(""))
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, Desc, ParseDirection(" DESC "))
	assert.Equal(t, Asc, ParseDirection("sideways"))
}

func rowIDs(view View) []int {
	out := make([]int, 0, len(view.Rows))
	for _, row := range view.Rows {
		out = append(out, row.ID)
	}
	return out
}

func TestTableViewSortToggleRestoresAscendingOrder(t *testing.T) {
	records := []Record{
		{"Id": 1, "keyword": "seo audit"},
		{"Id": 2, "keyword": "backlink checker"},
		{"Id": 3, "keyword": "keyword research"},
		{"Id": 4, "keyword": "anchor text"},
		{"Id": 5, "keyword": "crawl budget"},
	}
	table := Table{
		Columns:  []ColumnDescriptor{{Key: "keyword", Sortable: true}},
		PageSize: 10,
	}

	state := NewState().WithSort("keyword")
	asc := table.View(records, state)
	state = state.WithSort("keyword")
	desc := table.View(records, state)
	state = state.WithSort("keyword")
	again := table.View(records, state)

	assert.Equal(t, []int{4, 2, 5, 3, 1}, rowIDs(asc))
	assert.Equal(t, Desc, desc.State.Sort.Direction)
	reversed := rowIDs(asc)
	slices.Reverse(reversed)
	assert.Equal(t, reversed, rowIDs(desc))
	assert.Equal(t, Asc, again.State.Sort.Direction)
	assert.Equal(t, rowIDs(asc), rowIDs(again))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(records), "view must not reorder the source")
}
