package datatable

// State is the per-table view state: active filters, sort column and page.
type State struct {
	Filters Values    `json:"filters"`
	Sort    SortState `json:"sort"`
	Page    int       `json:"page"`
}

// NewState returns the initial state: no filters, no sort, first page.
func NewState() State {
	return State{Filters: Values{}, Page: 1}
}

// WithFilters replaces the filter values and returns to the first page.
func (s State) WithFilters(values Values) State {
	s.Filters = values.Active()
	s.Page = 1
	return s
}

// WithFilter sets a single filter value and returns to the first page.
func (s State) WithFilter(key, value string) State {
	values := s.Filters.Clone()
	values[key] = value
	return s.WithFilters(values)
}

// WithoutFilters clears every filter and returns to the first page.
func (s State) WithoutFilters() State {
	return s.WithFilters(Values{})
}

// WithSort toggles the sort column and returns to the first page.
func (s State) WithSort(field string) State {
	s.Sort = s.Sort.Toggle(field)
	s.Page = 1
	return s
}

// WithPage moves to the given page index.
func (s State) WithPage(index int) State {
	s.Page = index
	return s
}

// Table binds column and filter descriptors to a page size.
type Table struct {
	Columns  []ColumnDescriptor
	Filters  []FilterDescriptor
	PageSize int
}

// Header is a rendered column heading.
type Header struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Sortable  bool      `json:"sortable"`
	Active    bool      `json:"active"`
	Direction Direction `json:"direction,omitempty"`
}

// Cell is one rendered column value.
type Cell struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// Row is a rendered record.
type Row struct {
	ID     int    `json:"id"`
	Record Record `json:"record"`
	Cells  []Cell `json:"cells"`
}

// View is the result of composing filter, sort and paginate over a collection.
type View struct {
	Headers        []Header `json:"headers"`
	Rows           []Row    `json:"rows"`
	Page           Page     `json:"page"`
	State          State    `json:"state"`
	Total          int      `json:"total"`
	Filtered       int      `json:"filtered"`
	ShowPagination bool     `json:"show_pagination"`
	Summary        string   `json:"summary"`
}

// Empty reports whether the current view has nothing to display.
func (v View) Empty() bool {
	return len(v.Rows) == 0
}

// View computes paginate(sort(filter(records))). The page index in state is
// clamped to the filtered page count, and the clamped state is returned on the view.
func (t Table) View(records []Record, state State) View {
	size := t.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	filtered := Filter(records, state.Filters, t.Filters)
	sorted := Sort(filtered, state.Sort.Field, state.Sort.Direction)
	state.Page = ClampPage(state.Page, TotalPages(len(sorted), size))
	page := Paginate(sorted, state.Page, size)
	if state.Filters == nil {
		state.Filters = Values{}
	}

	view := View{
		Headers:        t.headers(state.Sort),
		Rows:           make([]Row, 0, len(page.Rows)),
		Page:           page,
		State:          state,
		Total:          len(records),
		Filtered:       len(filtered),
		ShowPagination: page.ShowPagination(),
		Summary:        page.Summary(),
	}
	for _, record := range page.Rows {
		view.Rows = append(view.Rows, t.row(record))
	}
	return view
}

func (t Table) headers(sort SortState) []Header {
	headers := make([]Header, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = Header{
			Key:      col.Key,
			Label:    col.Title(),
			Sortable: col.Sortable,
		}
		if sort.Field == col.Key {
			headers[i].Active = true
			headers[i].Direction = sort.Direction
		}
	}
	return headers
}

func (t Table) row(record Record) Row {
	id, _ := record.ID()
	row := Row{ID: id, Record: record, Cells: make([]Cell, len(t.Columns))}
	for i, col := range t.Columns {
		value := record[col.Key]
		if col.Render != nil {
			value = col.Render(value, record)
		}
		row.Cells[i] = Cell{Key: col.Key, Value: value}
	}
	return row
}

// Sortable reports whether field is a sortable column of the table.
func (t Table) Sortable(field string) bool {
	for _, col := range t.Columns {
		if col.Key == field {
			return col.Sortable
		}
	}
	return false
}
