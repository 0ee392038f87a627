package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-seo-dashboard/components/dashboard"
	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

type scaffoldCmd struct {
	ManifestPath string   `name:"manifest" required:"" type:"path" help:"Path to the page manifest YAML file to update."`
	Code         string   `required:"" help:"Page code (e.g. content-gaps)."`
	Entity       string   `required:"" help:"Entity backing the page table."`
	Title        string   `help:"Page title (defaults to the title-cased code)."`
	Route        string   `help:"Page route (defaults to /<kebab-code>)."`
	Icon         string   `help:"Sidebar icon name."`
	Position     int      `help:"Sidebar position (defaults to the end of the list)."`
	Column       []string `help:"Columns as key[:render] (repeat the flag)."`
	Sortable     []string `help:"Column keys that can be sorted."`
	Metrics      string   `help:"Metric set computed for the page."`
	Action       []string `help:"Actions exposed by the page."`
	PageSize     int      `default:"10" help:"Rows per table page."`
	Overwrite    bool     `help:"Replace an existing page with the same code."`
}

func (cmd *scaffoldCmd) Run() error {
	def, err := cmd.definition()
	if err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("seodash: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if err := upsertPage(doc, def, cmd.Overwrite); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added page %s (%s) to %s\n", def.Code, def.Route, manifestPath)
	return nil
}

func (cmd *scaffoldCmd) definition() (dashboard.PageDefinition, error) {
	code := strings.TrimSpace(cmd.Code)
	if code == "" {
		return dashboard.PageDefinition{}, errors.New("seodash: page code is required")
	}
	if !slices.Contains(append(store.Entities(), store.EntityTopPages), cmd.Entity) {
		return dashboard.PageDefinition{}, fmt.Errorf("seodash: unknown entity %q", cmd.Entity)
	}
	if len(cmd.Column) == 0 {
		return dashboard.PageDefinition{}, errors.New("seodash: at least one --column is required")
	}
	columns, err := parseColumns(cmd.Column, cmd.Sortable)
	if err != nil {
		return dashboard.PageDefinition{}, err
	}
	def := dashboard.PageDefinition{
		Code:     code,
		Route:    cmd.Route,
		Title:    cmd.Title,
		Icon:     cmd.Icon,
		Position: cmd.Position,
		Entity:   cmd.Entity,
		PageSize: cmd.PageSize,
		Columns:  columns,
		Metrics:  cmd.Metrics,
		Actions:  cmd.Action,
	}
	if def.Route == "" {
		def.Route = "/" + strcase.ToKebab(code)
	}
	if def.Title == "" {
		def.Title = strcase.ToCase(code, strcase.TitleCase, ' ')
	}
	return def, nil
}

func parseColumns(specs, sortable []string) ([]datatable.ColumnDescriptor, error) {
	columns := make([]datatable.ColumnDescriptor, 0, len(specs))
	for _, spec := range specs {
		key, render, _ := strings.Cut(strings.TrimSpace(spec), ":")
		if key == "" {
			return nil, fmt.Errorf("seodash: invalid column %q", spec)
		}
		columns = append(columns, datatable.ColumnDescriptor{
			Key:      key,
			Renderer: render,
			Sortable: slices.Contains(sortable, key),
		})
	}
	for _, key := range sortable {
		if !slices.ContainsFunc(columns, func(c datatable.ColumnDescriptor) bool { return c.Key == key }) {
			return nil, fmt.Errorf("seodash: sortable column %q is not declared", key)
		}
	}
	return columns, nil
}

// upsertPage adds def to doc, keeping pages ordered by position. An existing
// page with the same code is replaced only when overwrite is set.
func upsertPage(doc *dashboard.PageManifestDocument, def dashboard.PageDefinition, overwrite bool) error {
	idx := slices.IndexFunc(doc.Pages, func(p dashboard.PageDefinition) bool { return p.Code == def.Code })
	switch {
	case idx >= 0 && !overwrite:
		return fmt.Errorf("seodash: manifest already defines page %s (use --overwrite to replace)", def.Code)
	case idx >= 0:
		if def.Position == 0 {
			def.Position = doc.Pages[idx].Position
		}
		doc.Pages[idx] = def
	default:
		if def.Position == 0 {
			def.Position = len(doc.Pages) + 1
		}
		doc.Pages = append(doc.Pages, def)
	}
	sort.SliceStable(doc.Pages, func(i, j int) bool {
		return doc.Pages[i].Position < doc.Pages[j].Position
	})
	return nil
}

func loadOrInitManifest(path string) (*dashboard.PageManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &dashboard.PageManifestDocument{
				Version: dashboard.ManifestVersion,
				Pages:   []dashboard.PageDefinition{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("seodash: stat manifest: %w", err)
	}
	return dashboard.ReadManifest(path)
}

func writeManifest(path string, doc *dashboard.PageManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("seodash: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("seodash: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("seodash: write manifest: %w", err)
	}
	return encoder.Close()
}
