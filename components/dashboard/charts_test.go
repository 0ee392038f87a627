package dashboard

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

type countingCache struct {
	calls int32
	data  map[string]string
}

func (c *countingCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c.data == nil {
		c.data = map[string]string{}
	}
	if html, ok := c.data[key]; ok {
		return html, nil
	}
	atomic.AddInt32(&c.calls, 1)
	html, err := render()
	if err == nil {
		c.data[key] = html
	}
	return html, err
}

func sampleSpec(kind string) ChartSpec {
	return ChartSpec{
		Key:    "sample",
		Type:   kind,
		Title:  "Sample",
		XAxis:  []string{"Jan", "Feb", "Mar"},
		Series: []ChartSeries{{Name: "Traffic", Points: PointsFromValues(10, 20, 30)}},
	}
}

func TestChartRendererSupportedTypes(t *testing.T) {
	t.Parallel()
	renderer := NewChartRenderer()
	for _, kind := range []string{ChartBar, ChartLine, ChartPie, ChartGauge} {
		chart, err := renderer.Render(context.Background(), ViewerContext{}, sampleSpec(kind))
		require.NoError(t, err, kind)
		assert.Equal(t, kind, chart.Type)
		assert.Equal(t, "Sample", chart.Title)
		assert.Contains(t, chart.HTML, "echarts", kind)
	}
}

func TestChartRendererRejectsUnsupportedType(t *testing.T) {
	t.Parallel()
	_, err := NewChartRenderer().Render(context.Background(), ViewerContext{}, sampleSpec("bubble"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestChartRendererRequiresSeries(t *testing.T) {
	t.Parallel()
	spec := sampleSpec(ChartBar)
	spec.Series = nil
	_, err := NewChartRenderer().Render(context.Background(), ViewerContext{}, spec)
	require.Error(t, err)
}

func TestChartRendererUsesCache(t *testing.T) {
	t.Parallel()
	cache := &countingCache{}
	renderer := NewChartRenderer(WithChartCache(cache))

	_, err := renderer.Render(context.Background(), ViewerContext{}, sampleSpec(ChartBar))
	require.NoError(t, err)
	_, err = renderer.Render(context.Background(), ViewerContext{}, sampleSpec(ChartBar))
	require.NoError(t, err)

	assert.Equal(t, int32(1), cache.calls)
}

func TestChartRendererThemeResolver(t *testing.T) {
	t.Parallel()
	cache := &countingCache{}
	renderer := NewChartRenderer(
		WithChartCache(cache),
		WithChartThemeResolver(func(viewer ViewerContext) string {
			if viewer.UserID == "night" {
				return types.ThemeWalden
			}
			return ""
		}),
	)

	_, err := renderer.Render(context.Background(), ViewerContext{UserID: "day"}, sampleSpec(ChartLine))
	require.NoError(t, err)
	_, err = renderer.Render(context.Background(), ViewerContext{UserID: "night"}, sampleSpec(ChartLine))
	require.NoError(t, err)

	assert.Equal(t, int32(2), cache.calls, "each theme renders separately")
}

func TestChartRendererTranslatesWithoutMutatingSpec(t *testing.T) {
	t.Parallel()
	translator := MapTranslator{"es": {"Jan": "Ene", "dashboard.chart.sample.title": "Muestra"}}
	renderer := NewChartRenderer(WithChartTranslator(translator))
	spec := sampleSpec(ChartBar)

	chart, err := renderer.Render(context.Background(), ViewerContext{Locale: "es-MX"}, spec)
	require.NoError(t, err)

	assert.Equal(t, "Muestra", chart.Title)
	assert.Contains(t, chart.HTML, "Ene")
	assert.Equal(t, "Jan", spec.XAxis[0])
}

func TestBuildChartSpecsSkipsEmptyAndUnknown(t *testing.T) {
	t.Parallel()
	specs := BuildChartSpecs([]string{"keyword_difficulty", "competitor_comparison", "missing", "traffic"}, nil, nil)
	require.Len(t, specs, 1)
	assert.Equal(t, "traffic", specs[0].Key)
}

func TestKeywordDifficultyBuckets(t *testing.T) {
	t.Parallel()
	records := []datatable.Record{
		{"difficulty": 10}, {"difficulty": 30}, {"difficulty": 45}, {"difficulty": 90},
	}
	specs := BuildChartSpecs([]string{"keyword_difficulty"}, records, nil)
	require.Len(t, specs, 1)
	points := specs[0].Series[0].Points
	require.Len(t, points, 3)
	assert.Equal(t, []float64{2, 1, 1}, []float64{points[0].Value, points[1].Value, points[2].Value})
}

func TestRankHistoryChart(t *testing.T) {
	t.Parallel()
	records := []datatable.Record{
		{"keyword": "seo tools", "history": []any{
			map[string]any{"date": "2024-01-01", "position": 8},
			map[string]any{"date": "2024-01-07", "position": 5},
		}},
		{"keyword": "no history"},
	}
	specs := BuildChartSpecs([]string{"rank_history"}, records, nil)
	require.Len(t, specs, 1)
	assert.Equal(t, []string{"2024-01-01", "2024-01-07"}, specs[0].XAxis)
	require.Len(t, specs[0].Series, 1)
	assert.Equal(t, "seo tools", specs[0].Series[0].Name)
}
