// Package datatable implements the tabular engine shared by every dashboard
// page: predicate filtering, single-column sorting, fixed-size pagination and
// the metric aggregations computed over a loaded collection.
//
// Every function treats its input slice as read-only and returns a new slice,
// so callers can keep the unfiltered collection around between views.
package datatable

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mohae/deepcopy"
)

// IDField names the integer identifier carried by every record.
const IDField = "Id"

// Record is a single row of a collection keyed by field name.
type Record map[string]any

// ID returns the integer identifier of the record, if present.
func (r Record) ID() (int, bool) {
	v, ok := Number(r[IDField])
	if !ok || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// Clone returns a deep copy so nested history slices are not shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	copied, ok := deepcopy.Copy(map[string]any(r)).(map[string]any)
	if !ok {
		return Record{}
	}
	return Record(copied)
}

// CloneAll deep copies a collection.
func CloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}

// Number coerces numeric field values. Strings are not parsed; a record that
// stores "42" is treated as non-numeric.
func Number(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, !math.IsNaN(val)
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Text formats a scalar the way select filters and table cells compare it.
func Text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	}
	if n, ok := Number(v); ok {
		if n == math.Trunc(n) && math.Abs(n) < 1e15 {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func parseNumber(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
