package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(AnalyzerOptions{Seed: 42, Clock: fixedClock})
}

func TestResearchKeywordsReturnsTenSuggestions(t *testing.T) {
	results, err := newTestAnalyzer().ResearchKeywords(context.Background(), "link building")
	require.NoError(t, err)
	require.Len(t, results, 10)
	assert.Equal(t, "link building guide", results[0]["keyword"])
	assert.Equal(t, "best link building", results[5]["keyword"])
	assert.Equal(t, "https://example.com/link-building-guide", results[0]["url"])
	for _, r := range results {
		volume := r["searchVolume"].(int)
		assert.GreaterOrEqual(t, volume, 100)
		assert.Less(t, volume, 10100)
		difficulty := r["difficulty"].(int)
		assert.GreaterOrEqual(t, difficulty, 1)
		assert.LessOrEqual(t, difficulty, 100)
	}
}

func TestAnalyzerRejectsBlankInput(t *testing.T) {
	a := newTestAnalyzer()
	ctx := context.Background()
	_, err := a.AnalyzeDomain(ctx, " ")
	assert.True(t, IsValidation(err))
	_, err = a.TrackKeyword(ctx, "")
	assert.True(t, IsValidation(err))
	_, err = a.CompareDomains(ctx, nil)
	assert.True(t, IsValidation(err))
}

func TestTrackKeywordHistory(t *testing.T) {
	rank, err := newTestAnalyzer().TrackKeyword(context.Background(), "seo audit")
	require.NoError(t, err)
	assert.Len(t, rank["history"], 5)
	assert.Equal(t, "2024-06-10T12:00:00Z", rank["lastChecked"])
}

func TestKeywordHistoryIsWeekly(t *testing.T) {
	history, err := newTestAnalyzer().KeywordHistory(context.Background(), "seo audit")
	require.NoError(t, err)
	require.Len(t, history, 26)
	assert.Equal(t, "2023-12-10", history[0].Date)
	assert.Equal(t, "2023-12-17", history[1].Date)
}

func TestRunAuditFixedIssues(t *testing.T) {
	issues, err := newTestAnalyzer().RunAudit(context.Background(), "seoinsight.io")
	require.NoError(t, err)
	require.Len(t, issues, 5)
	severities := map[string]int{}
	for _, issue := range issues {
		severities[issue["severity"].(string)]++
	}
	assert.Equal(t, map[string]int{"critical": 2, "warning": 2, "notice": 1}, severities)
}

func TestSeededAnalyzerIsDeterministic(t *testing.T) {
	a, err := newTestAnalyzer().UpdateRankings(context.Background())
	require.NoError(t, err)
	b, err := newTestAnalyzer().UpdateRankings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
