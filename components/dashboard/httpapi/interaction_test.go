package httpapi

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	dashboard "github.com/goliatone/go-seo-dashboard/components/dashboard"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

type recordingExecutor struct {
	CommandExecutor
	order []string
}

func newRecordingExecutor() *recordingExecutor {
	e := &recordingExecutor{}
	e.FiltersCommander = &stubCommander[commands.ApplyFiltersInput]{fn: func(commands.ApplyFiltersInput) { e.order = append(e.order, "filters") }}
	e.ResetCommander = &stubCommander[commands.ResetFiltersInput]{fn: func(commands.ResetFiltersInput) { e.order = append(e.order, "reset") }}
	e.SortCommander = &stubCommander[commands.ToggleSortInput]{fn: func(commands.ToggleSortInput) { e.order = append(e.order, "sort") }}
	e.PageCommander = &stubCommander[commands.GoToPageInput]{fn: func(commands.GoToPageInput) { e.order = append(e.order, "page") }}
	e.ReloadCommander = &stubCommander[commands.ReloadInput]{
		err: errors.New("load failed"),
		fn:  func(commands.ReloadInput) { e.order = append(e.order, "reload") },
	}
	return e
}

func TestParseInteraction(t *testing.T) {
	keys := []string{"minSearchVolume", "position"}
	cases := []struct {
		name  string
		query string
		want  Interaction
	}{
		{"empty", "", Interaction{}},
		{"sort", "sort=keyword", Interaction{Sort: "keyword"}},
		{"page", "page=3", Interaction{Page: 3}},
		{"bad page", "page=x", Interaction{}},
		{"reset", "reset=1", Interaction{Reset: true}},
		{"reload", "reload=1", Interaction{Reload: true}},
		{
			"filters",
			"apply=1&minSearchVolume=500&other=ignored",
			Interaction{Filters: datatable.Values{"minSearchVolume": "500", "position": ""}},
		},
		{"filters need apply", "minSearchVolume=500", Interaction{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			got := ParseInteraction(values.Get, keys)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.query == "" || tc.name == "bad page" || tc.name == "filters need apply", got.Empty())
		})
	}
}

func TestInteractionApplyOrder(t *testing.T) {
	exec := newRecordingExecutor()
	in := Interaction{
		Reload:  true,
		Reset:   true,
		Filters: datatable.Values{"position": "10"},
		Sort:    "keyword",
		Page:    2,
	}
	if err := in.Apply(context.Background(), exec, dashboard.ViewerContext{UserID: "u"}, "keywords"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	assert.Equal(t, []string{"reload", "reset", "filters", "sort", "page"}, exec.order)
}

func TestInteractionApplyStopsOnError(t *testing.T) {
	exec := newRecordingExecutor()
	exec.SortCommander = &stubCommander[commands.ToggleSortInput]{err: errors.New("not sortable")}
	in := Interaction{Sort: "notes", Page: 2}
	if err := in.Apply(context.Background(), exec, dashboard.ViewerContext{}, "keywords"); err == nil {
		t.Fatalf("expected sort error")
	}
	assert.Empty(t, exec.order)
}

func TestFilterKeys(t *testing.T) {
	def := dashboard.PageDefinition{Filters: []datatable.FilterDescriptor{{Key: "a"}, {Key: "b"}}}
	assert.Equal(t, []string{"a", "b"}, FilterKeys(def))
}
