package dashboard

import (
	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

// ChartBuilder derives a chart spec from page records. It reports false when
// there is nothing to plot.
type ChartBuilder func(records []datatable.Record, domain datatable.Record) (ChartSpec, bool)

var chartBuilders = map[string]ChartBuilder{
	"traffic":               trafficChart,
	"backlink_growth":       backlinkGrowthChart,
	"keyword_difficulty":    keywordDifficultyChart,
	"health":                healthChart,
	"competitor_comparison": competitorChart,
	"rank_history":          rankHistoryChart,
}

var sixMonths = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

// maxHistorySeries caps how many tracked keywords the rank history chart plots.
const maxHistorySeries = 5

// BuildChartSpecs evaluates the named chart builders, skipping unknown or empty ones.
func BuildChartSpecs(keys []string, records []datatable.Record, domain datatable.Record) []ChartSpec {
	specs := make([]ChartSpec, 0, len(keys))
	for _, key := range keys {
		build, ok := chartBuilders[key]
		if !ok {
			continue
		}
		if spec, ok := build(records, domain); ok {
			spec.Key = key
			specs = append(specs, spec)
		}
	}
	return specs
}

func trafficChart(_ []datatable.Record, _ datatable.Record) (ChartSpec, bool) {
	return ChartSpec{
		Type:  ChartLine,
		Title: "Organic Traffic",
		XAxis: sixMonths,
		Series: []ChartSeries{
			{Name: "Organic Traffic", Points: PointsFromValues(12500, 15200, 18300, 22100, 25800, 28900)},
		},
	}, true
}

func backlinkGrowthChart(_ []datatable.Record, _ datatable.Record) (ChartSpec, bool) {
	return ChartSpec{
		Type:  ChartLine,
		Title: "Backlink Growth",
		XAxis: sixMonths,
		Series: []ChartSeries{
			{Name: "New Links", Points: PointsFromValues(45, 52, 38, 65, 49, 58)},
			{Name: "Lost Links", Points: PointsFromValues(12, 18, 25, 15, 22, 19)},
		},
	}, true
}

func keywordDifficultyChart(records []datatable.Record, _ datatable.Record) (ChartSpec, bool) {
	if len(records) == 0 {
		return ChartSpec{}, false
	}
	buckets := datatable.Buckets(records, "difficulty", []datatable.Bucket{
		{Label: "Easy (0-30)", Min: 0, Max: 30},
		{Label: "Medium (31-70)", Min: 31, Max: 70},
		{Label: "Hard (71-100)", Min: 71, Max: 100},
	})
	points := make([]ChartPoint, len(buckets))
	for i, b := range buckets {
		points[i] = ChartPoint{Label: b.Label, Value: float64(b.Count)}
	}
	return ChartSpec{
		Type:   ChartPie,
		Title:  "Keyword Difficulty",
		Series: []ChartSeries{{Name: "Keywords", Points: points}},
	}, true
}

func healthChart(records []datatable.Record, _ datatable.Record) (ChartSpec, bool) {
	return ChartSpec{
		Type:   ChartGauge,
		Title:  "Site Health",
		Series: []ChartSeries{{Name: "Health Score", Points: PointsFromValues(float64(HealthScore(records)))}},
	}, true
}

func competitorChart(records []datatable.Record, _ datatable.Record) (ChartSpec, bool) {
	if len(records) == 0 {
		return ChartSpec{}, false
	}
	axis := make([]string, len(records))
	rating := make([]ChartPoint, len(records))
	backlinks := make([]ChartPoint, len(records))
	keywords := make([]ChartPoint, len(records))
	for i, r := range records {
		axis[i] = datatable.Text(r["domain"])
		dr, _ := datatable.Number(r["domainRating"])
		bl, _ := datatable.Number(r["backlinks"])
		kw, _ := datatable.Number(r["organicKeywords"])
		rating[i] = ChartPoint{Value: dr}
		backlinks[i] = ChartPoint{Value: bl / 1000}
		keywords[i] = ChartPoint{Value: kw / 1000}
	}
	return ChartSpec{
		Type:  ChartBar,
		Title: "Competitor Comparison",
		XAxis: axis,
		Series: []ChartSeries{
			{Name: "Domain Rating", Points: rating},
			{Name: "Backlinks (K)", Points: backlinks},
			{Name: "Keywords (K)", Points: keywords},
		},
	}, true
}

func rankHistoryChart(records []datatable.Record, _ datatable.Record) (ChartSpec, bool) {
	var (
		axis   []string
		series []ChartSeries
	)
	for _, r := range records {
		if len(series) == maxHistorySeries {
			break
		}
		history, ok := r["history"].([]any)
		if !ok || len(history) == 0 {
			continue
		}
		points := make([]ChartPoint, 0, len(history))
		dates := make([]string, 0, len(history))
		for _, entry := range history {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			pos, _ := datatable.Number(m["position"])
			date := datatable.Text(m["date"])
			dates = append(dates, date)
			points = append(points, ChartPoint{Label: date, Value: pos})
		}
		if len(points) == 0 {
			continue
		}
		if len(dates) > len(axis) {
			axis = dates
		}
		series = append(series, ChartSeries{Name: datatable.Text(r["keyword"]), Points: points})
	}
	if len(series) == 0 {
		return ChartSpec{}, false
	}
	return ChartSpec{
		Type:     ChartLine,
		Title:    "Ranking History",
		Subtitle: "Lower is better",
		XAxis:    axis,
		Series:   series,
	}, true
}
