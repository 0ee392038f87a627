package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

func TestNewRegistryLoadsEmbeddedPages(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	pages := reg.Pages()
	require.Len(t, pages, 7)
	assert.Equal(t, PageOverview, pages[0].Code)
	for i := 1; i < len(pages); i++ {
		assert.LessOrEqual(t, pages[i-1].Position, pages[i].Position)
	}

	def, ok := reg.PageByRoute("/rank-tracker")
	require.True(t, ok)
	assert.Equal(t, PageRankTracker, def.Code)
}

func TestRegistryBindsRenderers(t *testing.T) {
	reg := NewEmptyRegistry()
	require.NoError(t, reg.Register(PageDefinition{
		Code:   "prices",
		Entity: "keywords",
		Columns: []datatable.ColumnDescriptor{
			{Key: "cpc", Renderer: "currency"},
		},
	}))
	def, ok := reg.Page("prices")
	require.True(t, ok)
	assert.Equal(t, "/prices", def.Route)
	require.NotNil(t, def.Columns[0].Render)
	assert.Equal(t, "$2.50", def.Columns[0].Render(2.5, nil))
}

func TestRegistryRejectsInvalidDefinitions(t *testing.T) {
	reg := NewEmptyRegistry()
	assert.Error(t, reg.Register(PageDefinition{Entity: "keywords"}))
	assert.Error(t, reg.Register(PageDefinition{Code: "a"}))
	assert.Error(t, reg.Register(PageDefinition{Code: "a", Entity: "keywords", Route: "a"}))
	assert.Error(t, reg.Register(PageDefinition{
		Code:    "a",
		Entity:  "keywords",
		Columns: []datatable.ColumnDescriptor{{Key: "x", Renderer: "sparkline"}},
	}))
}

func TestRegistryRouteConflictsAndReplacement(t *testing.T) {
	reg := NewEmptyRegistry()
	require.NoError(t, reg.Register(PageDefinition{Code: "a", Entity: "keywords", Route: "/shared"}))
	assert.Error(t, reg.Register(PageDefinition{Code: "b", Entity: "keywords", Route: "/shared"}))

	require.NoError(t, reg.Register(PageDefinition{Code: "a", Entity: "keywords", Route: "/moved"}))
	_, ok := reg.PageByRoute("/shared")
	assert.False(t, ok)
	def, ok := reg.PageByRoute("/moved")
	require.True(t, ok)
	assert.Equal(t, "a", def.Code)
}

func TestPageHooksApplyToNewRegistries(t *testing.T) {
	RegisterPageHook(func(reg *Registry) error {
		return reg.Register(PageDefinition{Code: "hooked", Entity: "keywords", Position: 99})
	})
	t.Cleanup(func() {
		globalHookMu.Lock()
		globalHooks = globalHooks[:len(globalHooks)-1]
		globalHookMu.Unlock()
	})

	reg, err := NewRegistry()
	require.NoError(t, err)
	_, ok := reg.Page("hooked")
	assert.True(t, ok)
}
