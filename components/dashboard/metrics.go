package dashboard

import (
	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

// MetricSet computes the headline cards of a page from its records. domain
// is the analyzed domain snapshot and may be nil.
type MetricSet func(records []datatable.Record, domain datatable.Record) []MetricCard

var metricSets = map[string]MetricSet{
	"overview":      overviewMetrics,
	"backlinks":     backlinkMetrics,
	"keywords":      keywordMetrics,
	"rankings":      rankingMetrics,
	"competitors":   competitorMetrics,
	"audit":         auditMetrics,
	"opportunities": opportunityMetrics,
}

// ComputeMetrics evaluates the named metric set. Unknown sets yield no cards.
func ComputeMetrics(set string, records []datatable.Record, domain datatable.Record) []MetricCard {
	fn, ok := metricSets[set]
	if !ok {
		return nil
	}
	return fn(records, domain)
}

// HealthScore is 100 minus 20 per critical, 10 per warning and 5 per notice
// issue, floored at zero.
func HealthScore(issues []datatable.Record) int {
	critical := datatable.CountWhere(issues, datatable.Equals("severity", "critical"))
	warning := datatable.CountWhere(issues, datatable.Equals("severity", "warning"))
	notice := datatable.CountWhere(issues, datatable.Equals("severity", "notice"))
	return max(0, 100-(critical*20+warning*10+notice*5))
}

func countCard(key, label string, n int) MetricCard {
	return MetricCard{Key: key, Label: label, Value: FormatNumber(float64(n)), Raw: float64(n), Available: true}
}

func sumCard(key, label string, n float64) MetricCard {
	return MetricCard{Key: key, Label: label, Value: FormatNumber(n), Raw: n, Available: true}
}

// averageCard renders "N/A" when there is nothing to average.
func averageCard(key, label string, records []datatable.Record, field string) MetricCard {
	avg, ok := datatable.Average(records, field)
	if !ok {
		return MetricCard{Key: key, Label: label, Value: "N/A"}
	}
	return MetricCard{Key: key, Label: label, Value: FormatNumber(float64(int64(avg + 0.5))), Raw: avg, Available: true}
}

func fieldCard(key, label string, record datatable.Record, field string) MetricCard {
	n, ok := datatable.Number(record[field])
	if !ok {
		return MetricCard{Key: key, Label: label, Value: "N/A"}
	}
	return sumCard(key, label, n)
}

func overviewMetrics(_ []datatable.Record, domain datatable.Record) []MetricCard {
	return []MetricCard{
		fieldCard("domain_rating", "Domain Rating", domain, "domainRating"),
		fieldCard("backlinks", "Total Backlinks", domain, "backlinks"),
		fieldCard("referring_domains", "Referring Domains", domain, "referringDomains"),
		fieldCard("organic_keywords", "Organic Keywords", domain, "organicKeywords"),
		fieldCard("organic_traffic", "Organic Traffic", domain, "organicTraffic"),
	}
}

func backlinkMetrics(records []datatable.Record, _ datatable.Record) []MetricCard {
	return []MetricCard{
		countCard("total", "Total Backlinks", datatable.Count(records)),
		countCard("dofollow", "DoFollow Links", datatable.CountWhere(records, datatable.Equals("doFollow", "true"))),
		countCard("referring_domains", "Referring Domains", datatable.Distinct(records, datatable.Hostname("sourceUrl"))),
		averageCard("avg_domain_rating", "Avg Domain Rating", records, "domainRating"),
	}
}

func keywordMetrics(records []datatable.Record, _ datatable.Record) []MetricCard {
	return []MetricCard{
		countCard("total", "Total Keywords", datatable.Count(records)),
		countCard("top_10", "Top 10 Rankings", datatable.CountWhere(records, datatable.AtMost("position", 10))),
		sumCard("search_volume", "Total Search Volume", datatable.Sum(records, "searchVolume")),
		averageCard("avg_difficulty", "Avg. Difficulty", records, "difficulty"),
	}
}

func rankingMetrics(records []datatable.Record, _ datatable.Record) []MetricCard {
	return []MetricCard{
		countCard("tracked", "Keywords Tracked", datatable.Count(records)),
		countCard("top_3", "Top 3 Rankings", datatable.CountWhere(records, datatable.AtMost("currentPosition", 3))),
		countCard("top_10", "Top 10 Rankings", datatable.CountWhere(records, datatable.AtMost("currentPosition", 10))),
		averageCard("avg_position", "Avg. Position", records, "currentPosition"),
	}
}

func competitorMetrics(records []datatable.Record, _ datatable.Record) []MetricCard {
	top := MetricCard{Key: "top_domain_rating", Label: "Highest Domain Rating", Value: "N/A"}
	if best, ok := datatable.Max(records, "domainRating"); ok {
		top = sumCard(top.Key, top.Label, best)
	}
	return []MetricCard{
		countCard("tracked", "Competitors Tracked", datatable.Count(records)),
		top,
		sumCard("organic_keywords", "Total Competitor Keywords", datatable.Sum(records, "organicKeywords")),
		averageCard("avg_traffic", "Avg. Competitor Traffic", records, "organicTraffic"),
	}
}

func auditMetrics(records []datatable.Record, _ datatable.Record) []MetricCard {
	score := HealthScore(records)
	tone := "success"
	switch {
	case score < 50:
		tone = "error"
	case score < 80:
		tone = "warning"
	}
	health := countCard("health_score", "Health Score", score)
	health.Tone = tone
	critical := countCard("critical", "Critical Issues", datatable.CountWhere(records, datatable.Equals("severity", "critical")))
	critical.Tone = "error"
	warning := countCard("warning", "Warning Issues", datatable.CountWhere(records, datatable.Equals("severity", "warning")))
	warning.Tone = "warning"
	notice := countCard("notice", "Notice Issues", datatable.CountWhere(records, datatable.Equals("severity", "notice")))
	notice.Tone = "info"
	return []MetricCard{health, critical, warning, notice}
}

func opportunityMetrics(records []datatable.Record, _ datatable.Record) []MetricCard {
	return []MetricCard{
		countCard("found", "Opportunities Found", datatable.Count(records)),
		countCard("new", "New", datatable.CountWhere(records, datatable.Equals("status", "new"))),
		countCard("contacted", "Contacted", datatable.CountWhere(records, datatable.Equals("status", "contacted"))),
		countCard("acquired", "Acquired", datatable.CountWhere(records, datatable.Equals("status", "acquired"))),
	}
}
