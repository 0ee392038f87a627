package datatable

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// DefaultPageSize is the fixed number of rows per page.
const DefaultPageSize = 10

// Page is one slice of a collection.
type Page struct {
	Rows       []Record `json:"-"`
	Index      int      `json:"index"`
	Size       int      `json:"size"`
	TotalPages int      `json:"total_pages"`
	Total      int      `json:"total"`
	From       int      `json:"from"`
	To         int      `json:"to"`
}

// TotalPages returns ceil(n/size); an empty collection has zero pages.
func TotalPages(n, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage bounds index to [1, max(totalPages, 1)].
func ClampPage(index, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if index < 1 {
		return 1
	}
	if index > totalPages {
		return totalPages
	}
	return index
}

// Paginate returns rows [(index-1)*size, index*size). An index outside
// 1..TotalPages yields an empty page rather than an error.
func Paginate(records []Record, index, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	n := len(records)
	page := Page{
		Rows:       []Record{},
		Index:      index,
		Size:       size,
		TotalPages: TotalPages(n, size),
		Total:      n,
	}
	if index < 1 || index > page.TotalPages {
		return page
	}
	start := (index - 1) * size
	end := min(start+size, n)
	page.Rows = records[start:end:end]
	page.From = start + 1
	page.To = end
	return page
}

// ShowPagination reports whether pagination controls are displayed.
func (p Page) ShowPagination() bool {
	return p.TotalPages > 1
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool {
	return p.Index > 1
}

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool {
	return p.Index < p.TotalPages
}

// Summary renders the footer text shown under paginated tables.
func (p Page) Summary() string {
	if p.Total == 0 {
		return "No results"
	}
	return fmt.Sprintf("Showing %s to %s of %s results",
		humanize.Comma(int64(p.From)),
		humanize.Comma(int64(p.To)),
		humanize.Comma(int64(p.Total)),
	)
}
