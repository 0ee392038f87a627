package datatable

import (
	"net/url"
	"strings"
)

// Count returns the number of records.
func Count(records []Record) int {
	return len(records)
}

// CountWhere counts the records matching every predicate.
func CountWhere(records []Record, predicates ...Predicate) int {
	n := 0
	for _, r := range records {
		if MatchAll(r, predicates) {
			n++
		}
	}
	return n
}

// Sum adds the numeric values of field. Non-numeric values are skipped.
func Sum(records []Record, field string) float64 {
	total := 0.0
	for _, r := range records {
		if n, ok := Number(r[field]); ok {
			total += n
		}
	}
	return total
}

// Average returns the arithmetic mean of the numeric values of field. It
// reports false when no record carries a numeric value, so callers can
// display a placeholder instead of dividing by zero.
func Average(records []Record, field string) (float64, bool) {
	total, count := 0.0, 0
	for _, r := range records {
		if n, ok := Number(r[field]); ok {
			total += n
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return total / float64(count), true
}

// Max returns the largest numeric value of field.
func Max(records []Record, field string) (float64, bool) {
	var (
		best  float64
		found bool
	)
	for _, r := range records {
		if n, ok := Number(r[field]); ok && (!found || n > best) {
			best, found = n, true
		}
	}
	return best, found
}

// KeyFunc extracts a grouping key from a record.
type KeyFunc func(Record) (string, bool)

// FieldKey groups by the formatted value of field.
func FieldKey(field string) KeyFunc {
	return func(r Record) (string, bool) {
		v, ok := r[field]
		if !ok || v == nil {
			return "", false
		}
		return Text(v), true
	}
}

// Hostname groups by the host component of a URL-valued field.
func Hostname(field string) KeyFunc {
	return func(r Record) (string, bool) {
		raw, ok := r[field].(string)
		if !ok || raw == "" {
			return "", false
		}
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Hostname() == "" {
			return "", false
		}
		return strings.ToLower(u.Hostname()), true
	}
}

// Distinct counts the distinct keys produced by key.
func Distinct(records []Record, key KeyFunc) int {
	seen := map[string]struct{}{}
	for _, r := range records {
		if k, ok := key(r); ok {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

// Bucket is an inclusive numeric range used for distribution charts.
type Bucket struct {
	Label string  `json:"label" yaml:"label"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Count int     `json:"count" yaml:"-"`
}

// Buckets counts the records whose field falls in each bucket. A value lands
// in the first bucket that contains it.
func Buckets(records []Record, field string, buckets []Bucket) []Bucket {
	out := make([]Bucket, len(buckets))
	copy(out, buckets)
	for i := range out {
		out[i].Count = 0
	}
	for _, r := range records {
		n, ok := Number(r[field])
		if !ok {
			continue
		}
		for i := range out {
			if n >= out[i].Min && n <= out[i].Max {
				out[i].Count++
				break
			}
		}
	}
	return out
}
