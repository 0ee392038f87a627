package datatable

import "strings"

// Values holds the current filter inputs keyed by descriptor key. An empty
// value means the filter is inactive.
type Values map[string]string

// Active returns a copy containing only non-empty values.
func (v Values) Active() Values {
	out := Values{}
	for key, value := range v {
		if value = strings.TrimSpace(value); value != "" {
			out[key] = value
		}
	}
	return out
}

// Clone copies the value set.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// Predicate reports whether a record passes a filter.
type Predicate func(Record) bool

// Filter keeps the records that satisfy every active filter. Predicates are
// combined with AND; records missing a filtered field are excluded.
func Filter(records []Record, values Values, descriptors []FilterDescriptor) []Record {
	predicates := Predicates(values, descriptors)
	out := make([]Record, 0, len(records))
	for _, record := range records {
		if MatchAll(record, predicates) {
			out = append(out, record)
		}
	}
	return out
}

// Predicates builds the predicate list for the active values. Numeric inputs
// that do not parse impose no constraint.
func Predicates(values Values, descriptors []FilterDescriptor) []Predicate {
	var predicates []Predicate
	for _, desc := range descriptors {
		raw := strings.TrimSpace(values[desc.Key])
		if raw == "" {
			continue
		}
		if p := predicateFor(desc, raw); p != nil {
			predicates = append(predicates, p)
		}
	}
	return predicates
}

// MatchAll reports whether record satisfies every predicate.
func MatchAll(record Record, predicates []Predicate) bool {
	for _, p := range predicates {
		if !p(record) {
			return false
		}
	}
	return true
}

func predicateFor(desc FilterDescriptor, raw string) Predicate {
	fields := desc.TargetFields()
	switch desc.Mode() {
	case MatchExact:
		return Equals(fields[0], raw)
	case MatchMin:
		bound, ok := parseNumber(raw)
		if !ok {
			return nil
		}
		return AtLeast(fields[0], bound)
	case MatchMax:
		bound, ok := parseNumber(raw)
		if !ok {
			return nil
		}
		return AtMost(fields[0], bound)
	case MatchRange:
		lo, hi, bounded, ok := parseRange(raw)
		if !ok {
			return nil
		}
		return Between(fields[0], lo, hi, bounded)
	default:
		return Contains(fields, raw)
	}
}

// Equals matches records whose field formats to value.
func Equals(field, value string) Predicate {
	return func(r Record) bool {
		v, ok := r[field]
		if !ok || v == nil {
			return false
		}
		return Text(v) == value
	}
}

// AtLeast matches records whose numeric field is >= bound.
func AtLeast(field string, bound float64) Predicate {
	return func(r Record) bool {
		n, ok := Number(r[field])
		return ok && n >= bound
	}
}

// AtMost matches records whose numeric field is <= bound.
func AtMost(field string, bound float64) Predicate {
	return func(r Record) bool {
		n, ok := Number(r[field])
		return ok && n <= bound
	}
}

// Between matches lo <= field <= hi. The upper bound is ignored when bounded is false.
func Between(field string, lo, hi float64, bounded bool) Predicate {
	return func(r Record) bool {
		n, ok := Number(r[field])
		if !ok || n < lo {
			return false
		}
		return !bounded || n <= hi
	}
}

// Contains matches a case-insensitive substring in any of the fields.
func Contains(fields []string, needle string) Predicate {
	needle = strings.ToLower(needle)
	return func(r Record) bool {
		for _, field := range fields {
			v, ok := r[field]
			if !ok || v == nil {
				continue
			}
			if strings.Contains(strings.ToLower(Text(v)), needle) {
				return true
			}
		}
		return false
	}
}

// parseRange accepts "min-max" or "min-".
func parseRange(raw string) (lo, hi float64, bounded, ok bool) {
	left, right, found := strings.Cut(raw, "-")
	lo, ok = parseNumber(left)
	if !ok {
		return 0, 0, false, false
	}
	if !found || strings.TrimSpace(right) == "" {
		return lo, 0, false, true
	}
	hi, bounded = parseNumber(right)
	if !bounded {
		return 0, 0, false, false
	}
	return lo, hi, true, true
}
