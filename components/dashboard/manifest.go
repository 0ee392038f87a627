package dashboard

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

//go:embed manifests/pages.yaml
var defaultManifest []byte

// PageManifestDocument models a YAML manifest describing dashboard pages.
type PageManifestDocument struct {
	Version string           `json:"version" yaml:"version"`
	Name    string           `json:"name,omitempty" yaml:"name,omitempty"`
	Pages   []PageDefinition `json:"pages" yaml:"pages"`
	Source  string           `json:"-" yaml:"-"`
}

// PageDefinition describes one dashboard page: its route, backing entity,
// table layout and the metric set and actions it exposes.
type PageDefinition struct {
	Code           string                       `json:"code" yaml:"code"`
	Route          string                       `json:"route" yaml:"route"`
	Title          string                       `json:"title" yaml:"title"`
	TitleLocalized map[string]string            `json:"title_localized,omitempty" yaml:"title_localized,omitempty"`
	Description    string                       `json:"description,omitempty" yaml:"description,omitempty"`
	Icon           string                       `json:"icon,omitempty" yaml:"icon,omitempty"`
	Position       int                          `json:"position" yaml:"position"`
	Entity         string                       `json:"entity" yaml:"entity"`
	PageSize       int                          `json:"page_size,omitempty" yaml:"page_size,omitempty"`
	Columns        []datatable.ColumnDescriptor `json:"columns" yaml:"columns"`
	Filters        []datatable.FilterDescriptor `json:"filters,omitempty" yaml:"filters,omitempty"`
	Metrics        string                       `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Charts         []string                     `json:"charts,omitempty" yaml:"charts,omitempty"`
	Actions        []string                     `json:"actions,omitempty" yaml:"actions,omitempty"`
	DefaultSort    *datatable.SortState         `json:"default_sort,omitempty" yaml:"default_sort,omitempty"`
}

// Table returns the datatable configuration of the page.
func (def PageDefinition) Table() datatable.Table {
	return datatable.Table{
		Columns:  def.Columns,
		Filters:  def.Filters,
		PageSize: def.PageSize,
	}
}

// HasAction reports whether the page exposes action.
func (def PageDefinition) HasAction(action string) bool {
	for _, a := range def.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// LoadManifestFile reads a manifest from disk, registers it against the registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*PageManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers every page of a decoded manifest.
func (r *Registry) LoadManifestDocument(doc *PageManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("dashboard: manifest document is nil")
	}
	for _, page := range doc.Pages {
		if err := r.Register(page); err != nil {
			return fmt.Errorf("dashboard: register page %s from %s: %w", page.Code, doc.Source, err)
		}
	}
	return nil
}

// DefaultManifest decodes the embedded page manifest.
func DefaultManifest() (*PageManifestDocument, error) {
	doc, err := DecodeManifest(bytes.NewReader(defaultManifest))
	if err != nil {
		return nil, err
	}
	doc.Source = "embedded:pages.yaml"
	return doc, nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*PageManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*PageManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc PageManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("dashboard: manifest is empty")
		}
		return nil, fmt.Errorf("dashboard: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *PageManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("dashboard: unsupported manifest version %q", doc.Version)
	}
	codes := make(map[string]struct{}, len(doc.Pages))
	routes := make(map[string]struct{}, len(doc.Pages))
	for idx, page := range doc.Pages {
		if page.Code == "" {
			return fmt.Errorf("dashboard: manifest page at index %d is missing code", idx)
		}
		if !strings.HasPrefix(page.Route, "/") {
			return fmt.Errorf("dashboard: manifest page %s route must start with /", page.Code)
		}
		if page.Entity == "" {
			return fmt.Errorf("dashboard: manifest page %s missing entity", page.Code)
		}
		if len(page.Columns) == 0 {
			return fmt.Errorf("dashboard: manifest page %s declares no columns", page.Code)
		}
		if _, exists := codes[page.Code]; exists {
			return fmt.Errorf("dashboard: manifest duplicates page code %s", page.Code)
		}
		if _, exists := routes[page.Route]; exists {
			return fmt.Errorf("dashboard: manifest duplicates route %s", page.Route)
		}
		codes[page.Code] = struct{}{}
		routes[page.Route] = struct{}{}
		for _, filter := range page.Filters {
			if filter.Key == "" {
				return fmt.Errorf("dashboard: manifest page %s has a filter without key", page.Code)
			}
			switch filter.Kind {
			case datatable.KindSelect, datatable.KindText, datatable.KindNumber:
			default:
				return fmt.Errorf("dashboard: manifest page %s filter %s has unknown type %q", page.Code, filter.Key, filter.Kind)
			}
		}
	}
	return nil
}

func (doc *PageManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
	for i := range doc.Pages {
		page := &doc.Pages[i]
		if page.PageSize <= 0 {
			page.PageSize = datatable.DefaultPageSize
		}
		if page.Position == 0 {
			page.Position = i + 1
		}
		page.TitleLocalized = normalizeLocaleMap(page.TitleLocalized)
	}
}
