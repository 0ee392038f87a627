package datatable

import "github.com/ettle/strcase"

// FilterKind selects the input control a filter renders as.
type FilterKind string

const (
	KindSelect FilterKind = "select"
	KindText   FilterKind = "text"
	KindNumber FilterKind = "number"
)

// MatchMode selects the predicate a filter applies.
type MatchMode string

const (
	MatchExact    MatchMode = "exact"
	MatchContains MatchMode = "contains"
	MatchMin      MatchMode = "min"
	MatchMax      MatchMode = "max"
	MatchRange    MatchMode = "range"
)

// RenderFunc transforms a raw field value into its display form.
type RenderFunc func(value any, record Record) any

// ColumnDescriptor describes one table column.
type ColumnDescriptor struct {
	Key      string     `json:"key" yaml:"key"`
	Label    string     `json:"label,omitempty" yaml:"label,omitempty"`
	Sortable bool       `json:"sortable,omitempty" yaml:"sortable,omitempty"`
	Renderer string     `json:"render,omitempty" yaml:"render,omitempty"`
	Render   RenderFunc `json:"-" yaml:"-"`
}

// Title returns the column label, deriving one from the key when unset.
func (c ColumnDescriptor) Title() string {
	if c.Label != "" {
		return c.Label
	}
	return strcase.ToCase(c.Key, strcase.TitleCase, ' ')
}

// Option is a selectable filter value.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// FilterDescriptor describes a single filter control and the predicate behind it.
type FilterDescriptor struct {
	Key         string     `json:"key" yaml:"key"`
	Label       string     `json:"label,omitempty" yaml:"label,omitempty"`
	Kind        FilterKind `json:"type" yaml:"type"`
	Field       string     `json:"field,omitempty" yaml:"field,omitempty"`
	Fields      []string   `json:"fields,omitempty" yaml:"fields,omitempty"`
	Match       MatchMode  `json:"match,omitempty" yaml:"match,omitempty"`
	Options     []Option   `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder string     `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// TargetFields returns the record fields the filter inspects.
func (d FilterDescriptor) TargetFields() []string {
	if len(d.Fields) > 0 {
		return d.Fields
	}
	if d.Field != "" {
		return []string{d.Field}
	}
	return []string{d.Key}
}

// Mode returns the configured match mode or the default for the filter kind.
func (d FilterDescriptor) Mode() MatchMode {
	if d.Match != "" {
		return d.Match
	}
	switch d.Kind {
	case KindSelect:
		return MatchExact
	case KindNumber:
		return MatchMin
	default:
		return MatchContains
	}
}
