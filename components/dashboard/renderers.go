package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

// RendererFactory builds a column renderer from the arguments that follow
// its name in a manifest ("truncate:50" passes ["50"]).
type RendererFactory func(args []string) (datatable.RenderFunc, error)

var (
	rendererMu sync.RWMutex
	renderers  = map[string]RendererFactory{
		"truncate":   truncateRenderer,
		"date":       staticRenderer(renderDate),
		"number":     staticRenderer(renderNumber),
		"currency":   staticRenderer(renderCurrency),
		"percent":    staticRenderer(renderPercent),
		"badge":      staticRenderer(renderBadge),
		"bool":       boolRenderer,
		"position":   staticRenderer(renderPosition),
		"change":     staticRenderer(renderChange),
		"difficulty": staticRenderer(renderDifficulty),
	}
)

// RegisterRenderer makes a named renderer available to manifests.
func RegisterRenderer(name string, factory RendererFactory) {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	renderers[name] = factory
}

// ResolveRenderer parses a renderer reference such as "truncate:50".
func ResolveRenderer(spec string) (datatable.RenderFunc, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	parts := strings.Split(spec, ":")
	rendererMu.RLock()
	factory, ok := renderers[parts[0]]
	rendererMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("dashboard: unknown renderer %q", parts[0])
	}
	return factory(parts[1:])
}

// BindRenderers resolves the named renderer of every column.
func BindRenderers(columns []datatable.ColumnDescriptor) ([]datatable.ColumnDescriptor, error) {
	out := make([]datatable.ColumnDescriptor, len(columns))
	for i, col := range columns {
		if col.Render == nil && col.Renderer != "" {
			fn, err := ResolveRenderer(col.Renderer)
			if err != nil {
				return nil, fmt.Errorf("dashboard: column %s: %w", col.Key, err)
			}
			col.Render = fn
		}
		out[i] = col
	}
	return out, nil
}

func staticRenderer(fn func(any) any) RendererFactory {
	return func([]string) (datatable.RenderFunc, error) {
		return func(value any, _ datatable.Record) any { return fn(value) }, nil
	}
}

func truncateRenderer(args []string) (datatable.RenderFunc, error) {
	limit := 50
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("truncate expects a positive length, got %q", args[0])
		}
		limit = n
	}
	return func(value any, _ datatable.Record) any {
		return Truncate(datatable.Text(value), limit)
	}, nil
}

func boolRenderer(args []string) (datatable.RenderFunc, error) {
	yes, no := "Yes", "No"
	if len(args) > 0 && args[0] != "" {
		yes = args[0]
	}
	if len(args) > 1 && args[1] != "" {
		no = args[1]
	}
	return func(value any, _ datatable.Record) any {
		if b, ok := value.(bool); ok && b {
			return yes
		}
		if s, ok := value.(string); ok && strings.EqualFold(s, "true") {
			return yes
		}
		return no
	}, nil
}

// Truncate shortens s to limit runes followed by an ellipsis.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func renderDate(value any) any {
	raw := datatable.Text(value)
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return raw
}

func renderNumber(value any) any {
	n, ok := datatable.Number(value)
	if !ok {
		return "N/A"
	}
	return FormatNumber(n)
}

// FormatNumber prints n with thousands separators, keeping up to two decimals.
func FormatNumber(n float64) string {
	if n == float64(int64(n)) {
		return humanize.Comma(int64(n))
	}
	return humanize.CommafWithDigits(n, 2)
}

func renderCurrency(value any) any {
	n, ok := datatable.Number(value)
	if !ok {
		return "N/A"
	}
	return "$" + decimal.NewFromFloat(n).StringFixed(2)
}

func renderPercent(value any) any {
	n, ok := datatable.Number(value)
	if !ok {
		return "N/A"
	}
	return decimal.NewFromFloat(n).StringFixed(1) + "%"
}

func renderBadge(value any) any {
	raw := datatable.Text(value)
	if raw == "" {
		return "Unknown"
	}
	words := strings.Fields(strings.ReplaceAll(raw, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func renderPosition(value any) any {
	n, ok := datatable.Number(value)
	if !ok {
		return "N/A"
	}
	return "#" + strconv.FormatInt(int64(n), 10)
}

func renderChange(value any) any {
	n, ok := datatable.Number(value)
	if !ok || n == 0 {
		return "-"
	}
	if n > 0 {
		return "+" + strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatInt(int64(n), 10)
}

func renderDifficulty(value any) any {
	n, ok := datatable.Number(value)
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%d (%s)", int64(n), DifficultyLabel(n))
}

// DifficultyLabel buckets keyword difficulty into Easy, Medium and Hard.
func DifficultyLabel(n float64) string {
	switch {
	case n <= 30:
		return "Easy"
	case n <= 70:
		return "Medium"
	default:
		return "Hard"
	}
}
