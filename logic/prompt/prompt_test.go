package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "héé", Truncate("hééllo", 3))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "", Truncate("", 5))
}

func TestMetricsCall(t *testing.T) {
	content := strings.Repeat("a", 8000) + strings.Repeat("b", 10)
	call := Metrics(content, "  Focus on liquidity  ")

	assert.Equal(t, "metrics", call.Name)
	assert.Equal(t, MetricsSystem, call.System)
	assert.InDelta(t, 0.0, call.Temperature, 1e-9)
	assert.Equal(t, 1000, call.MaxTokens)
	assert.Contains(t, call.Prompt, strings.Repeat("a", 8000))
	assert.NotContains(t, call.Prompt, strings.Repeat("b", 10))
	for _, field := range []string{"company_name", "target_year", "key_metrics", "actionable_insights", "risk_factors", "opportunities"} {
		assert.Contains(t, call.Prompt, field)
	}
	assert.Contains(t, call.Prompt, "guidelines while extracting metrics and insights:\nFocus on liquidity\n")
}

func TestGuidelinesBlockOmittedWhenEmpty(t *testing.T) {
	assert.NotContains(t, Metrics("report", "").Prompt, "guidelines")
	assert.NotContains(t, Summary("report", "  ").Prompt, "Follow these guidelines")
	assert.NotContains(t, Review("report", "").Prompt, "Consider these guidelines")
}

func TestSummaryAndReviewCalls(t *testing.T) {
	content := strings.Repeat("x", 4000) + "TAIL"

	s := Summary(content, "Mention headcount")
	assert.Equal(t, SummarySystem, s.System)
	assert.InDelta(t, 0.2, s.Temperature, 1e-6)
	assert.Equal(t, 200, s.MaxTokens)
	assert.Contains(t, s.Prompt, "exactly 3 sentences")
	assert.Contains(t, s.Prompt, "someone who hasn't read the full report")
	assert.Contains(t, s.Prompt, "Follow these guidelines: Mention headcount")
	assert.NotContains(t, s.Prompt, "TAIL")

	r := Review(content, "Mention headcount")
	assert.Equal(t, "review", r.Name)
	assert.Equal(t, ReviewSystem, r.System)
	assert.InDelta(t, 0.3, r.Temperature, 1e-6)
	assert.Equal(t, 300, r.MaxTokens)
	assert.Contains(t, r.Prompt, "4-6 sentences")
	assert.Contains(t, r.Prompt, "Consider these guidelines: Mention headcount")
	assert.NotContains(t, r.Prompt, "TAIL")
}
