package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backlinkFilters = []FilterDescriptor{
	{Key: "doFollow", Kind: KindSelect},
	{Key: "minDomainRating", Kind: KindNumber, Field: "domainRating"},
	{Key: "anchorText", Kind: KindText},
}

func backlinks() []Record {
	return []Record{
		{"Id": 1, "domainRating": 10, "doFollow": true, "anchorText": "SEO Guide"},
		{"Id": 2, "domainRating": 55, "doFollow": false, "anchorText": "best tools"},
		{"Id": 3, "domainRating": 60, "doFollow": true, "anchorText": "Ultimate seo checklist"},
		{"Id": 4, "domainRating": 49, "doFollow": true, "anchorText": "home"},
	}
}

func ids(records []Record) []int {
	out := make([]int, 0, len(records))
	for _, r := range records {
		id, _ := r.ID()
		out = append(out, id)
	}
	return out
}

func TestFilterMinDomainRating(t *testing.T) {
	got := Filter(backlinks(), Values{"minDomainRating": "50"}, backlinkFilters)
	assert.Equal(t, []int{2, 3}, ids(got))
}

func TestFilterEmptyValuesIsIdentity(t *testing.T) {
	records := backlinks()
	got := Filter(records, Values{"doFollow": "", "anchorText": "   "}, backlinkFilters)
	assert.Equal(t, ids(records), ids(got))

	got = Filter(records, nil, backlinkFilters)
	assert.Equal(t, ids(records), ids(got))
}

func TestFilterIsIdempotent(t *testing.T) {
	values := Values{"doFollow": "true", "anchorText": "seo"}
	once := Filter(backlinks(), values, backlinkFilters)
	twice := Filter(once, values, backlinkFilters)
	assert.Equal(t, ids(once), ids(twice))
}

func TestFilterComposesWithAnd(t *testing.T) {
	got := Filter(backlinks(), Values{"doFollow": "true", "minDomainRating": "40"}, backlinkFilters)
	assert.Equal(t, []int{3, 4}, ids(got))

	got = Filter(backlinks(), Values{"doFollow": "false", "anchorText": "seo"}, backlinkFilters)
	assert.Empty(t, got)
}

func TestFilterContainsIsCaseInsensitive(t *testing.T) {
	got := Filter(backlinks(), Values{"anchorText": "SEO"}, backlinkFilters)
	assert.Equal(t, []int{1, 3}, ids(got))
}

func TestFilterExcludesMissingAndNonNumericFields(t *testing.T) {
	records := []Record{
		{"Id": 1, "domainRating": 80},
		{"Id": 2},
		{"Id": 3, "domainRating": "high"},
		{"Id": 4, "domainRating": nil},
	}
	got := Filter(records, Values{"minDomainRating": "1"}, backlinkFilters)
	assert.Equal(t, []int{1}, ids(got))

	got = Filter(records, Values{"doFollow": "true"}, backlinkFilters)
	assert.Empty(t, got)
}

func TestFilterIgnoresUnparsableNumber(t *testing.T) {
	got := Filter(backlinks(), Values{"minDomainRating": "abc"}, backlinkFilters)
	assert.Len(t, got, 4)
}

func TestFilterMaxAndRange(t *testing.T) {
	descriptors := []FilterDescriptor{
		{Key: "maxDifficulty", Kind: KindNumber, Field: "difficulty", Match: MatchMax},
		{Key: "domainRating", Kind: KindSelect, Match: MatchRange},
		{Key: "search", Kind: KindText, Fields: []string{"website", "anchorText"}},
	}
	records := []Record{
		{"Id": 1, "difficulty": 20, "domainRating": 25, "website": "alpha.io", "anchorText": "x"},
		{"Id": 2, "difficulty": 70, "domainRating": 31, "website": "beta.io", "anchorText": "alpha tools"},
		{"Id": 3, "difficulty": 71, "domainRating": 75, "website": "gamma.io", "anchorText": "y"},
		{"Id": 4, "difficulty": 50, "domainRating": 100, "website": "delta.io", "anchorText": "z"},
	}

	assert.Equal(t, []int{1, 2, 4}, ids(Filter(records, Values{"maxDifficulty": "70"}, descriptors)))
	assert.Equal(t, []int{1}, ids(Filter(records, Values{"domainRating": "0-30"}, descriptors)))
	assert.Equal(t, []int{2}, ids(Filter(records, Values{"domainRating": "31-50"}, descriptors)))
	assert.Equal(t, []int{3, 4}, ids(Filter(records, Values{"domainRating": "71-"}, descriptors)))
	assert.Equal(t, []int{1, 2}, ids(Filter(records, Values{"search": "ALPHA"}, descriptors)))
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	records := backlinks()
	before := ids(records)
	_ = Filter(records, Values{"doFollow": "true"}, backlinkFilters)
	require.Equal(t, before, ids(records))
}

func TestDescriptorDefaults(t *testing.T) {
	assert.Equal(t, MatchExact, FilterDescriptor{Kind: KindSelect}.Mode())
	assert.Equal(t, MatchMin, FilterDescriptor{Kind: KindNumber}.Mode())
	assert.Equal(t, MatchContains, FilterDescriptor{Kind: KindText}.Mode())
	assert.Equal(t, []string{"k"}, FilterDescriptor{Key: "k"}.TargetFields())
	assert.Equal(t, "Domain Rating", ColumnDescriptor{Key: "domainRating"}.Title())
}
