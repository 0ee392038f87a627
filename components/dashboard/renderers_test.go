package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

func render(t *testing.T, spec string, value any) any {
	t.Helper()
	fn, err := ResolveRenderer(spec)
	require.NoError(t, err)
	require.NotNil(t, fn)
	return fn(value, datatable.Record{})
}

func TestBuiltinRenderers(t *testing.T) {
	cases := []struct {
		spec  string
		value any
		want  any
	}{
		{"number", 1234567, "1,234,567"},
		{"number", "n/a", "N/A"},
		{"currency", 2.5, "$2.50"},
		{"percent", 12.345, "12.3%"},
		{"badge", "in-progress", "In Progress"},
		{"badge", "", "Unknown"},
		{"bool", true, "Yes"},
		{"bool", "false", "No"},
		{"bool:dofollow:nofollow", "true", "dofollow"},
		{"position", 7, "#7"},
		{"change", 3, "+3"},
		{"change", -2, "-2"},
		{"change", 0, "-"},
		{"difficulty", 25, "25 (Easy)"},
		{"difficulty", 55, "55 (Medium)"},
		{"difficulty", 90, "90 (Hard)"},
		{"date", "2024-01-15", "Jan 15, 2024"},
		{"date", "2024-01-15T10:30:00Z", "Jan 15, 2024"},
		{"date", "yesterday", "yesterday"},
		{"truncate:5", "abcdefgh", "abcde..."},
	}
	for _, tc := range cases {
		t.Run(tc.spec, func(t *testing.T) {
			assert.Equal(t, tc.want, render(t, tc.spec, tc.value))
		})
	}
}

func TestResolveRendererErrors(t *testing.T) {
	fn, err := ResolveRenderer("  ")
	require.NoError(t, err)
	assert.Nil(t, fn)

	_, err = ResolveRenderer("sparkline")
	require.Error(t, err)

	_, err = ResolveRenderer("truncate:zero")
	require.Error(t, err)
}

func TestRegisterRenderer(t *testing.T) {
	RegisterRenderer("shout", staticRenderer(func(v any) any {
		return datatable.Text(v) + "!"
	}))
	t.Cleanup(func() {
		rendererMu.Lock()
		delete(renderers, "shout")
		rendererMu.Unlock()
	})

	cols, err := BindRenderers([]datatable.ColumnDescriptor{
		{Key: "keyword", Renderer: "shout"},
		{Key: "plain"},
	})
	require.NoError(t, err)
	assert.Equal(t, "seo!", cols[0].Render("seo", nil))
	assert.Nil(t, cols[1].Render)
}

func TestTruncateKeepsShortStrings(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("expected unchanged string, got %q", got)
	}
	if got := Truncate("héllo wörld", 5); got != "héllo..." {
		t.Fatalf("expected rune-aware truncation, got %q", got)
	}
}
