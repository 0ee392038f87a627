package store

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/gosimple/slug"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
)

// Delays configures the simulated duration of each analysis operation.
type Delays struct {
	AnalyzeDomain     time.Duration
	AnalyzeCompetitor time.Duration
	Compare           time.Duration
	SharedKeywords    time.Duration
	Research          time.Duration
	TrackKeyword      time.Duration
	KeywordHistory    time.Duration
	UpdateRankings    time.Duration
	RunAudit          time.Duration
}

// DefaultDelays returns the delays used by the demo server.
func DefaultDelays() Delays {
	return Delays{
		AnalyzeDomain:     1500 * time.Millisecond,
		AnalyzeCompetitor: 1200 * time.Millisecond,
		Compare:           800 * time.Millisecond,
		SharedKeywords:    600 * time.Millisecond,
		Research:          1000 * time.Millisecond,
		TrackKeyword:      800 * time.Millisecond,
		KeywordHistory:    400 * time.Millisecond,
		UpdateRankings:    1500 * time.Millisecond,
		RunAudit:          2000 * time.Millisecond,
	}
}

// AnalyzerOptions configures an Analyzer.
type AnalyzerOptions struct {
	Seed   uint64
	Delays Delays
	Clock  func() time.Time
	// ContentHost is the site that simulated ranking URLs point at.
	ContentHost string
}

// Analyzer produces randomized analysis results in place of a live SEO
// crawler. Results are only plausible, never accurate.
type Analyzer struct {
	mu     sync.Mutex
	rng    *rand.Rand
	delays Delays
	now    func() time.Time
	host   string
}

// NewAnalyzer builds an analyzer. A zero seed picks a time-based one.
func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	a := &Analyzer{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		delays: opts.Delays,
		now:    opts.Clock,
		host:   opts.ContentHost,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.host == "" {
		a.host = "https://example.com"
	}
	return a
}

// between returns a random integer in [lo, lo+span).
func (a *Analyzer) between(lo, span int) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return lo + a.rng.IntN(span)
}

func (a *Analyzer) float(lo, span float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return lo + a.rng.Float64()*span
}

func (a *Analyzer) stamp() string {
	return a.now().UTC().Format(time.RFC3339)
}

// ContentURL returns the ranking URL for a keyword.
func (a *Analyzer) ContentURL(keyword string) string {
	return strings.TrimRight(a.host, "/") + "/" + slug.Make(keyword)
}

// AnalyzeDomain returns a metric snapshot for url.
func (a *Analyzer) AnalyzeDomain(ctx context.Context, url string) (datatable.Record, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, Invalid(EntityDomains, "domain is required")
	}
	if err := wait(ctx, a.delays.AnalyzeDomain); err != nil {
		return nil, err
	}
	return datatable.Record{
		"url":              url,
		"domainRating":     a.between(1, 100),
		"backlinks":        a.between(1000, 50000),
		"referringDomains": a.between(100, 5000),
		"organicKeywords":  a.between(500, 10000),
		"organicTraffic":   a.between(5000, 100000),
		"lastUpdated":      a.stamp(),
	}, nil
}

// AnalyzeCompetitor returns a competitor profile for domain.
func (a *Analyzer) AnalyzeCompetitor(ctx context.Context, domain string) (datatable.Record, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, Invalid(EntityCompetitors, "domain is required")
	}
	if err := wait(ctx, a.delays.AnalyzeCompetitor); err != nil {
		return nil, err
	}
	return datatable.Record{
		"domain":           domain,
		"domainRating":     a.between(1, 100),
		"backlinks":        a.between(5000, 100000),
		"referringDomains": a.between(500, 10000),
		"organicKeywords":  a.between(2000, 50000),
		"organicTraffic":   a.between(10000, 500000),
		"lastUpdated":      a.stamp(),
	}, nil
}

// CompareDomains returns a side-by-side profile for each domain.
func (a *Analyzer) CompareDomains(ctx context.Context, domains []string) ([]datatable.Record, error) {
	if len(domains) == 0 {
		return nil, Invalid(EntityCompetitors, "at least one domain is required")
	}
	if err := wait(ctx, a.delays.Compare); err != nil {
		return nil, err
	}
	out := make([]datatable.Record, 0, len(domains))
	for _, domain := range domains {
		out = append(out, datatable.Record{
			"domain":          domain,
			"domainRating":    a.between(1, 100),
			"backlinks":       a.between(5000, 100000),
			"organicKeywords": a.between(2000, 50000),
			"organicTraffic":  a.between(10000, 500000),
			"topKeywords": []any{
				domain + " reviews",
				domain + " pricing",
				domain + " features",
				domain + " alternatives",
			},
		})
	}
	return out, nil
}

var sharedKeywordSeeds = []string{"digital marketing", "SEO tools", "content marketing"}

// SharedKeywords returns keywords both domains rank for.
func (a *Analyzer) SharedKeywords(ctx context.Context, first, second string) ([]datatable.Record, error) {
	if strings.TrimSpace(first) == "" || strings.TrimSpace(second) == "" {
		return nil, Invalid(EntityCompetitors, "two domains are required")
	}
	if err := wait(ctx, a.delays.SharedKeywords); err != nil {
		return nil, err
	}
	out := make([]datatable.Record, 0, len(sharedKeywordSeeds))
	for _, kw := range sharedKeywordSeeds {
		out = append(out, datatable.Record{
			"keyword":         kw,
			"domain1Position": a.between(1, 50),
			"domain2Position": a.between(1, 50),
			"searchVolume":    a.between(1000, 10000),
			"difficulty":      a.between(1, 100),
		})
	}
	return out, nil
}

var researchPatterns = []string{
	"%s guide",
	"%s tips",
	"%s strategy",
	"%s tools",
	"%s tutorial",
	"best %s",
	"%s for beginners",
	"%s checklist",
	"%s examples",
	"%s course",
}

// ResearchKeywords returns ten keyword ideas derived from seed.
func (a *Analyzer) ResearchKeywords(ctx context.Context, seed string) ([]datatable.Record, error) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil, Invalid(EntityKeywords, "seed keyword is required")
	}
	if err := wait(ctx, a.delays.Research); err != nil {
		return nil, err
	}
	out := make([]datatable.Record, 0, len(researchPatterns))
	for _, pattern := range researchPatterns {
		keyword := strings.Replace(pattern, "%s", seed, 1)
		out = append(out, datatable.Record{
			"keyword":      keyword,
			"searchVolume": a.between(100, 10000),
			"difficulty":   a.between(1, 100),
			"cpc":          roundCents(a.float(0.5, 10)),
			"position":     a.between(1, 100),
			"url":          a.ContentURL(keyword),
			"traffic":      a.between(50, 1000),
		})
	}
	return out, nil
}

// TrackKeyword returns a new ranking entry with a five point history.
func (a *Analyzer) TrackKeyword(ctx context.Context, keyword string) (datatable.Record, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, Invalid(EntityRankings, "keyword is required")
	}
	if err := wait(ctx, a.delays.TrackKeyword); err != nil {
		return nil, err
	}
	history := make([]any, 0, 5)
	for _, date := range []string{"2024-01-01", "2024-01-07", "2024-01-14", "2024-01-21", "2024-01-28"} {
		history = append(history, map[string]any{"date": date, "position": a.between(1, 100)})
	}
	return datatable.Record{
		"keyword":          keyword,
		"currentPosition":  a.between(1, 100),
		"previousPosition": a.between(1, 100),
		"searchVolume":     a.between(100, 10000),
		"url":              a.ContentURL(keyword),
		"lastChecked":      a.stamp(),
		"history":          history,
	}, nil
}

// HistoryPoint is one weekly ranking observation.
type HistoryPoint struct {
	Date     string `json:"date"`
	Position int    `json:"position"`
	URL      string `json:"url"`
}

// KeywordHistory returns 26 weekly positions starting six months ago.
func (a *Analyzer) KeywordHistory(ctx context.Context, keyword string) ([]HistoryPoint, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, Invalid(EntityRankings, "keyword is required")
	}
	if err := wait(ctx, a.delays.KeywordHistory); err != nil {
		return nil, err
	}
	start := a.now().UTC().AddDate(0, -6, 0)
	url := a.ContentURL(keyword)
	out := make([]HistoryPoint, 26)
	for i := range out {
		out[i] = HistoryPoint{
			Date:     start.AddDate(0, 0, i*7).Format(time.DateOnly),
			Position: a.between(1, 100),
			URL:      url,
		}
	}
	return out, nil
}

// RankingUpdate summarizes a bulk ranking refresh.
type RankingUpdate struct {
	Updated   int `json:"updated"`
	Improved  int `json:"improved"`
	Declined  int `json:"declined"`
	Unchanged int `json:"unchanged"`
}

// UpdateRankings simulates a bulk position refresh.
func (a *Analyzer) UpdateRankings(ctx context.Context) (RankingUpdate, error) {
	if err := wait(ctx, a.delays.UpdateRankings); err != nil {
		return RankingUpdate{}, err
	}
	return RankingUpdate{
		Updated:   a.between(10, 50),
		Improved:  a.between(5, 20),
		Declined:  a.between(3, 15),
		Unchanged: a.between(2, 15),
	}, nil
}

// RunAudit returns the issues found on domain.
func (a *Analyzer) RunAudit(ctx context.Context, domain string) ([]datatable.Record, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, Invalid(EntityAuditIssues, "domain is required")
	}
	if err := wait(ctx, a.delays.RunAudit); err != nil {
		return nil, err
	}
	return []datatable.Record{
		{
			"Id": 1, "type": "Missing Meta Descriptions", "severity": "critical",
			"affectedPages": a.between(10, 50),
			"description":   "Many pages are missing meta descriptions, which are important for SEO.",
			"solution":      "Add unique meta descriptions to all pages, keeping them between 150-160 characters.",
		},
		{
			"Id": 2, "type": "Broken Internal Links", "severity": "warning",
			"affectedPages": a.between(5, 20),
			"description":   "Found internal links pointing to non-existent pages.",
			"solution":      "Update or remove broken internal links to improve user experience.",
		},
		{
			"Id": 3, "type": "Large Image Files", "severity": "warning",
			"affectedPages": a.between(15, 30),
			"description":   "Some images are too large and may slow down page loading.",
			"solution":      "Optimize images by compressing them and using appropriate formats.",
		},
		{
			"Id": 4, "type": "Missing Alt Text", "severity": "notice",
			"affectedPages": a.between(20, 40),
			"description":   "Images without alt text affect accessibility and SEO.",
			"solution":      "Add descriptive alt text to all images for better accessibility.",
		},
		{
			"Id": 5, "type": "Slow Page Speed", "severity": "critical",
			"affectedPages": a.between(8, 25),
			"description":   "Page loading times are above recommended thresholds.",
			"solution":      "Optimize CSS, JavaScript, and images to improve page speed.",
		},
	}, nil
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
