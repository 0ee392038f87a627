package dashboard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: "1"
name: custom-pack
pages:
  - code: content-gaps
    route: /content-gaps
    title: Content Gaps
    title_localized:
      ES: Brechas de contenido
    entity: keywords
    metrics: keywords
    default_sort: { field: searchVolume, direction: desc }
    columns:
      - { key: keyword, sortable: true }
      - { key: searchVolume, label: Volume, sortable: true, render: number }
    filters:
      - { key: keyword, type: text }
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)

	page := doc.Pages[0]
	assert.Equal(t, "content-gaps", page.Code)
	assert.Equal(t, datatable.DefaultPageSize, page.PageSize)
	assert.Equal(t, 1, page.Position)
	assert.Equal(t, "Brechas de contenido", page.TitleForLocale("es-AR"))
	require.NotNil(t, page.DefaultSort)
	assert.Equal(t, datatable.Desc, page.DefaultSort.Direction)
}

func TestDecodeManifestRejectsUnknownFields(t *testing.T) {
	const payload = `
version: "1"
pages:
  - code: x
    route: /x
    entity: keywords
    widgets: []
    columns: [{ key: keyword }]
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
}

func TestManifestValidate(t *testing.T) {
	base := func() *PageManifestDocument {
		return &PageManifestDocument{
			Version: ManifestVersion,
			Pages: []PageDefinition{{
				Code:    "a",
				Route:   "/a",
				Entity:  "keywords",
				Columns: []datatable.ColumnDescriptor{{Key: "keyword"}},
			}},
		}
	}
	cases := map[string]func(*PageManifestDocument){
		"version":  func(d *PageManifestDocument) { d.Version = "2" },
		"code":     func(d *PageManifestDocument) { d.Pages[0].Code = "" },
		"route":    func(d *PageManifestDocument) { d.Pages[0].Route = "a" },
		"entity":   func(d *PageManifestDocument) { d.Pages[0].Entity = "" },
		"columns":  func(d *PageManifestDocument) { d.Pages[0].Columns = nil },
		"dup code": func(d *PageManifestDocument) { d.Pages = append(d.Pages, d.Pages[0]) },
		"dup route": func(d *PageManifestDocument) {
			dup := d.Pages[0]
			dup.Code = "b"
			d.Pages = append(d.Pages, dup)
		},
		"filter type": func(d *PageManifestDocument) {
			d.Pages[0].Filters = []datatable.FilterDescriptor{{Key: "k", Kind: "slider"}}
		},
	}
	require.NoError(t, base().Validate())
	for name, mutate := range cases {
		doc := base()
		mutate(doc)
		assert.Error(t, doc.Validate(), name)
	}
}

func TestDefaultManifestDeclaresEveryPage(t *testing.T) {
	doc, err := DefaultManifest()
	require.NoError(t, err)

	routes := map[string]string{}
	for _, page := range doc.Pages {
		routes[page.Code] = page.Route
	}
	assert.Equal(t, map[string]string{
		PageOverview:          "/",
		PageBacklinks:         "/backlinks",
		PageKeywords:          "/keywords",
		PageSiteAudit:         "/site-audit",
		PageCompetitors:       "/competitors",
		PageRankTracker:       "/rank-tracker",
		PageLinkOpportunities: "/link-opportunities",
	}, routes)
	for _, page := range doc.Pages {
		for _, action := range page.Actions {
			assert.Equal(t, page.Code, actionPages[action], "action %s", action)
		}
		for _, chart := range page.Charts {
			assert.Contains(t, chartBuilders, chart)
		}
		assert.Contains(t, metricSets, page.Metrics, page.Code)
	}
}

func TestRegistryLoadManifestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pages.yaml")
	const payload = `
version: "1"
pages:
  - code: content-gaps
    entity: keywords
    route: /content-gaps
    columns: [{ key: keyword, sortable: true }]
`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	reg := NewEmptyRegistry()
	doc, err := reg.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Source)

	def, ok := reg.PageByRoute("/content-gaps")
	require.True(t, ok)
	assert.Equal(t, "Content gaps", def.Title)
}

func TestReadManifestMissingFile(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
