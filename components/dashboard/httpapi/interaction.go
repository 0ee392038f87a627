package httpapi

import (
	"context"
	"strconv"

	dashboard "github.com/goliatone/go-seo-dashboard/components/dashboard"
	"github.com/goliatone/go-seo-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

// Interaction is the table state change an HTML page request asks for
// through its query string.
//
//	?reload=1          reload the collection
//	?reset=1           clear every filter
//	?apply=1&<key>=v   replace the filters with the submitted values
//	?sort=<field>      toggle the sort on field
//	?page=<n>          go to page n
type Interaction struct {
	Reload  bool
	Reset   bool
	Filters datatable.Values
	Sort    string
	Page    int
}

// ParseInteraction reads an Interaction through lookup, which returns the
// query value of a key or "". Only the listed filter keys are read.
func ParseInteraction(lookup func(key string) string, filterKeys []string) Interaction {
	in := Interaction{
		Reload: lookup("reload") != "",
		Reset:  lookup("reset") != "",
		Sort:   lookup("sort"),
	}
	if lookup("apply") != "" {
		in.Filters = make(datatable.Values, len(filterKeys))
		for _, key := range filterKeys {
			in.Filters[key] = lookup(key)
		}
	}
	if raw := lookup("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			in.Page = n
		}
	}
	return in
}

// FilterKeys lists the filter keys of a page definition.
func FilterKeys(def dashboard.PageDefinition) []string {
	keys := make([]string, len(def.Filters))
	for i, f := range def.Filters {
		keys[i] = f.Key
	}
	return keys
}

// Empty reports whether the interaction changes nothing.
func (in Interaction) Empty() bool {
	return !in.Reload && !in.Reset && in.Filters == nil && in.Sort == "" && in.Page == 0
}

// Apply runs the interaction against page in a fixed order: reload, reset,
// filters, sort, then pagination. A failed reload is not returned since the
// page payload reports it.
func (in Interaction) Apply(ctx context.Context, exec Executor, viewer dashboard.ViewerContext, page string) error {
	if in.Reload {
		_ = exec.Reload(ctx, commands.ReloadInput{Viewer: viewer, Page: page})
	}
	if in.Reset {
		if err := exec.ResetFilters(ctx, commands.ResetFiltersInput{Viewer: viewer, Page: page}); err != nil {
			return err
		}
	}
	if in.Filters != nil {
		if err := exec.ApplyFilters(ctx, commands.ApplyFiltersInput{Viewer: viewer, Page: page, Filters: in.Filters}); err != nil {
			return err
		}
	}
	if in.Sort != "" {
		if err := exec.ToggleSort(ctx, commands.ToggleSortInput{Viewer: viewer, Page: page, Field: in.Sort}); err != nil {
			return err
		}
	}
	if in.Page > 0 {
		if err := exec.GoToPage(ctx, commands.GoToPageInput{Viewer: viewer, Page: page, Index: in.Page}); err != nil {
			return err
		}
	}
	return nil
}
