package dashboard

import (
	"context"
	"slices"
	"sync"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

// PageController owns the table state of one page for one viewer: the
// loaded records, the filter/sort/page state and the inline error panel.
// Loads carry a monotonic token so a slow response never overwrites a
// newer one. Local mutations made while a load is in flight are journaled
// and replayed on top of the snapshot it returns.
type PageController struct {
	def   PageDefinition
	table datatable.Table
	repo  store.Repository

	mu      sync.Mutex
	records []datatable.Record
	state   datatable.State
	loaded  bool
	panel   *ErrorPanel
	issued  uint64
	applied uint64
	pending []mutation
}

// mutation rewrites a collection. Replaying one over a snapshot that already
// contains its effect leaves the snapshot unchanged.
type mutation func([]datatable.Record) []datatable.Record

// NewPageController builds a controller for def backed by repo.
func NewPageController(def PageDefinition, repo store.Repository) *PageController {
	state := datatable.NewState()
	if def.DefaultSort != nil && def.DefaultSort.Field != "" {
		state.Sort = datatable.SortState{
			Field:     def.DefaultSort.Field,
			Direction: datatable.ParseDirection(string(def.DefaultSort.Direction)),
		}
	}
	return &PageController{
		def:   def,
		table: def.Table(),
		repo:  repo,
		state: state,
	}
}

// Definition returns the page definition.
func (c *PageController) Definition() PageDefinition {
	return c.def
}

// Load fetches every record from the repository. The result is applied only
// when no newer load was started in the meantime; a stale result is dropped
// and reported as applied=false.
func (c *PageController) Load(ctx context.Context) (bool, error) {
	token := c.begin()
	records, err := c.repo.GetAll(ctx)
	return c.finish(token, records, err)
}

func (c *PageController) begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issued++
	return c.issued
}

func (c *PageController) finish(token uint64, records []datatable.Record, err error) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token < c.issued || token <= c.applied {
		return false, nil
	}
	c.applied = token
	journal := c.pending
	if c.applied == c.issued {
		c.pending = nil
	}
	if err != nil {
		c.panel = &ErrorPanel{Message: err.Error(), Retry: true}
		return true, err
	}
	for _, m := range journal {
		records = m(records)
	}
	c.records = records
	c.loaded = true
	c.panel = nil
	return true, nil
}

// mutate applies m to the loaded records and journals it for the loads still
// in flight.
func (c *PageController) mutate(m mutation) {
	c.records = m(c.records)
	if c.issued > c.applied {
		c.pending = append(c.pending, m)
	}
}

// Loaded reports whether a load has completed successfully.
func (c *PageController) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// ApplyFilters replaces every filter value and returns to page one.
func (c *PageController) ApplyFilters(values datatable.Values) datatable.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.WithFilters(c.knownFilters(values))
	return c.viewLocked()
}

// SetFilter changes one filter value and returns to page one.
func (c *PageController) SetFilter(key, value string) datatable.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasFilter(key) {
		c.state = c.state.WithFilter(key, value)
	}
	return c.viewLocked()
}

// ResetFilters clears every filter and returns to page one.
func (c *PageController) ResetFilters() datatable.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.WithoutFilters()
	return c.viewLocked()
}

// ToggleSort sorts by field, flipping the direction when field is already
// active, and returns to page one.
func (c *PageController) ToggleSort(field string) (datatable.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.table.Sortable(field) {
		return datatable.View{}, store.Invalid(c.def.Entity, "column %q is not sortable", field)
	}
	c.state = c.state.WithSort(field)
	return c.viewLocked(), nil
}

// GoToPage moves to page index, clamped to the available pages.
func (c *PageController) GoToPage(index int) datatable.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.WithPage(index)
	return c.viewLocked()
}

// View composes the current table view.
func (c *PageController) View() datatable.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *PageController) viewLocked() datatable.View {
	view := c.table.View(c.records, c.state)
	c.state = view.State
	return view
}

// State returns the current table state.
func (c *PageController) State() datatable.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.state
	state.Filters = state.Filters.Clone()
	return state
}

// Records returns a copy of the loaded collection.
func (c *PageController) Records() []datatable.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return datatable.CloneAll(c.records)
}

// Append adds records created through the repository. A record whose id is
// already present replaces it.
func (c *PageController) Append(records ...datatable.Record) {
	added := datatable.CloneAll(records)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutate(func(current []datatable.Record) []datatable.Record {
		for _, record := range added {
			current = upsertRecord(current, record)
		}
		return current
	})
}

// Replace swaps the whole collection, keeping the table state.
func (c *PageController) Replace(records []datatable.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutate(func([]datatable.Record) []datatable.Record { return records })
	c.loaded = true
	c.panel = nil
}

// Upsert replaces the record with the same id, appending it when absent.
func (c *PageController) Upsert(record datatable.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutate(func(current []datatable.Record) []datatable.Record {
		return upsertRecord(current, record)
	})
}

// Remove drops the record with id, reporting whether it was present.
func (c *PageController) Remove(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if recordIndex(c.records, id) < 0 {
		if c.issued > c.applied {
			c.pending = append(c.pending, removeRecord(id))
		}
		return false
	}
	c.mutate(removeRecord(id))
	return true
}

func recordIndex(records []datatable.Record, id int) int {
	return slices.IndexFunc(records, func(r datatable.Record) bool {
		rid, ok := r.ID()
		return ok && rid == id
	})
}

func upsertRecord(records []datatable.Record, record datatable.Record) []datatable.Record {
	if id, ok := record.ID(); ok {
		if idx := recordIndex(records, id); idx >= 0 {
			next := slices.Clone(records)
			next[idx] = record
			return next
		}
	}
	return append(slices.Clip(records), record)
}

func removeRecord(id int) mutation {
	return func(records []datatable.Record) []datatable.Record {
		idx := recordIndex(records, id)
		if idx < 0 {
			return records
		}
		return slices.Delete(slices.Clone(records), idx, idx+1)
	}
}

// Fail records err on the inline error panel.
func (c *PageController) Fail(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panel = &ErrorPanel{Message: err.Error(), Retry: true}
}

// Error returns the inline error panel, if any.
func (c *PageController) Error() *ErrorPanel {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.panel == nil {
		return nil
	}
	panel := *c.panel
	return &panel
}

func (c *PageController) hasFilter(key string) bool {
	for _, f := range c.table.Filters {
		if f.Key == key {
			return true
		}
	}
	return false
}

func (c *PageController) knownFilters(values datatable.Values) datatable.Values {
	out := make(datatable.Values, len(values))
	for key, value := range values {
		if c.hasFilter(key) {
			out[key] = value
		}
	}
	return out
}
