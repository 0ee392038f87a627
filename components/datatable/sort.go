package datatable

import (
	"cmp"
	"slices"
	"strings"
)

// Direction is the sort order of the active column.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps user input to a direction, defaulting to ascending.
func ParseDirection(raw string) Direction {
	if strings.EqualFold(strings.TrimSpace(raw), string(Desc)) {
		return Desc
	}
	return Asc
}

// SortState tracks the single active sort column.
type SortState struct {
	Field     string    `json:"field,omitempty" yaml:"field"`
	Direction Direction `json:"direction,omitempty" yaml:"direction"`
}

// Toggle flips the direction when field is already active and starts a new
// field ascending otherwise.
func (s SortState) Toggle(field string) SortState {
	if field == "" {
		return s
	}
	if s.Field == field && s.Direction != Desc {
		return SortState{Field: field, Direction: Desc}
	}
	return SortState{Field: field, Direction: Asc}
}

// Active reports whether a sort column is selected.
func (s SortState) Active() bool {
	return s.Field != ""
}

// Sort returns a stably sorted copy of records. In ascending order numbers
// compare numerically, strings lexicographically, and missing values sort last.
// Descending uses the inverse comparison.
func Sort(records []Record, field string, dir Direction) []Record {
	out := slices.Clone(records)
	if out == nil {
		out = []Record{}
	}
	if field == "" {
		return out
	}
	sign := 1
	if dir == Desc {
		sign = -1
	}
	slices.SortStableFunc(out, func(a, b Record) int {
		return sign * Compare(a[field], b[field])
	})
	return out
}

// Compare orders two field values. Values of different types order by type:
// bools, then numbers, then strings, then anything else, with nil after all.
func Compare(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case rankBool:
		return cmp.Compare(boolInt(a.(bool)), boolInt(b.(bool)))
	case rankNumber:
		x, _ := Number(a)
		y, _ := Number(b)
		return cmp.Compare(x, y)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankOther:
		return strings.Compare(Text(a), Text(b))
	default:
		return 0
	}
}

const (
	rankBool = iota
	rankNumber
	rankString
	rankOther
	rankMissing
)

func rank(v any) int {
	if v == nil {
		return rankMissing
	}
	if _, ok := v.(bool); ok {
		return rankBool
	}
	if _, ok := Number(v); ok {
		return rankNumber
	}
	if _, ok := v.(string); ok {
		return rankString
	}
	return rankOther
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
