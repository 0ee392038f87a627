package dashboard

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"
)

// ThemeProvider resolves the theme used for a viewer. It is optional; without
// one the dashboard renders with DefaultTheme.
type ThemeProvider interface {
	SelectTheme(ctx context.Context, viewer ViewerContext) (*ThemeSelection, error)
}

// ThemeProviderFunc adapts a function to ThemeProvider.
type ThemeProviderFunc func(ctx context.Context, viewer ViewerContext) (*ThemeSelection, error)

// SelectTheme calls f.
func (f ThemeProviderFunc) SelectTheme(ctx context.Context, viewer ViewerContext) (*ThemeSelection, error) {
	return f(ctx, viewer)
}

// ThemeSelection carries the resolved design tokens and chart theme.
type ThemeSelection struct {
	Name       string            `json:"name"`
	Variant    string            `json:"variant,omitempty"`
	Tokens     map[string]string `json:"tokens,omitempty"`
	Fonts      map[string]string `json:"fonts,omitempty"`
	ChartTheme string            `json:"chart_theme,omitempty"`
}

// DefaultTheme returns the dashboard palette.
func DefaultTheme() *ThemeSelection {
	return &ThemeSelection{
		Name:    "seo",
		Variant: "light",
		Tokens: map[string]string{
			"color-primary":   "#1e3a5f",
			"color-secondary": "#2dd4bf",
			"color-accent":    "#f59e0b",
			"color-surface":   "#f8fafc",
			"color-success":   "#10b981",
			"color-warning":   "#f59e0b",
			"color-error":     "#ef4444",
			"color-info":      "#3b82f6",
		},
		Fonts: map[string]string{
			"display": "'Plus Jakarta Sans', system-ui, sans-serif",
			"body":    "Inter, system-ui, sans-serif",
		},
		ChartTheme: types.ThemeWesteros,
	}
}

// Token returns a token value by name, accepting names with or without the
// leading "--".
func (theme *ThemeSelection) Token(name string) string {
	if theme == nil {
		return ""
	}
	return theme.Tokens[strings.TrimPrefix(strings.TrimSpace(name), "--")]
}

// CSSVariables normalizes token keys into CSS variable names.
func (theme *ThemeSelection) CSSVariables() map[string]string {
	if theme == nil || len(theme.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(theme.Tokens)+len(theme.Fonts))
	for key, value := range theme.Tokens {
		if name := cssVariable(key); name != "" && value != "" {
			vars[name] = value
		}
	}
	for key, value := range theme.Fonts {
		if name := cssVariable("font-" + key); name != "" && value != "" {
			vars[name] = value
		}
	}
	return vars
}

// CSSVariablesInline renders the variables as a style attribute value in key order.
func (theme *ThemeSelection) CSSVariablesInline() string {
	vars := theme.CSSVariables()
	if len(vars) == 0 {
		return ""
	}
	var builder strings.Builder
	for _, key := range slices.Sorted(maps.Keys(vars)) {
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(vars[key])
		builder.WriteString("; ")
	}
	return strings.TrimSpace(builder.String())
}

func cssVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}

func cloneThemeSelection(selection *ThemeSelection) *ThemeSelection {
	if selection == nil {
		return nil
	}
	cloned := *selection
	cloned.Tokens = maps.Clone(selection.Tokens)
	cloned.Fonts = maps.Clone(selection.Fonts)
	return &cloned
}
