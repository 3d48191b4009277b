package faq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/kbjinsurance/advisor/backend/internal/model/faq"
	"github.com/kbjinsurance/advisor/backend/internal/model/site"
)

func seededMatcher(t *testing.T) (*Matcher, []model.Entry) {
	t.Helper()
	entries, err := model.Seed(site.NewRoutes("https://example.test"))
	require.NoError(t, err)
	return NewMatcher(entries), entries
}

func TestEveryQuestionMatchesItsOwnAnswer(t *testing.T) {
	matcher, entries := seededMatcher(t)

	for i, entry := range entries {
		result := matcher.Match(entry.Question)
		require.Truef(t, result.Matched, "question %q did not match", entry.Question)
		assert.Equalf(t, i, result.Index, "question %q matched entry %d", entry.Question, result.Index)
		assert.Equal(t, entry.Answer, result.Answer)
		assert.GreaterOrEqual(t, result.Score, 4)
	}
}

func TestTermLifeQuestion(t *testing.T) {
	matcher, entries := seededMatcher(t)

	result := matcher.Match("What is term life insurance?")
	require.True(t, result.Matched)
	assert.Equal(t, entries[1].Answer, result.Answer)
	// substring 4 + what/term/life/insurance 4 + term family 2
	assert.Equal(t, 10, result.Score)
}

func TestMatchIsCaseInsensitive(t *testing.T) {
	matcher, entries := seededMatcher(t)

	result := matcher.Match("WHAT IS TERM LIFE INSURANCE?")
	require.True(t, result.Matched)
	assert.Equal(t, entries[1].Answer, result.Answer)
}

func TestBelowThresholdIsNoMatch(t *testing.T) {
	matcher, _ := seededMatcher(t)

	result := matcher.Match("grace and period")
	assert.False(t, result.Matched)
	assert.Equal(t, 2, result.Score)
	assert.Empty(t, result.Answer)
	assert.Equal(t, -1, result.Index)
}

func TestThresholdScoreMatches(t *testing.T) {
	matcher, entries := seededMatcher(t)

	// "Smoker vs non-smoker rates" tokenizes smoker twice, each occurrence scores.
	result := matcher.Match("smoker rates")
	require.True(t, result.Matched)
	assert.Equal(t, 3, result.Score)
	assert.Equal(t, entries[17].Answer, result.Answer)
}

func TestEmptyAndGibberish(t *testing.T) {
	matcher, _ := seededMatcher(t)

	empty := matcher.Match("")
	assert.False(t, empty.Matched)
	assert.Equal(t, 0, empty.Score)

	gibberish := matcher.Match("asdkjasjdk")
	assert.False(t, gibberish.Matched)
	assert.Equal(t, 0, gibberish.Score)
}

func TestTiesKeepFirstEntry(t *testing.T) {
	matcher := NewMatcher([]model.Entry{
		{Question: "Grace period", Answer: "first"},
		{Question: "Grace period", Answer: "second"},
	})

	result := matcher.Match("what is a grace period")
	require.True(t, result.Matched)
	assert.Equal(t, "first", result.Answer)
	assert.Equal(t, 0, result.Index)
}

func TestScoreComponents(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		question string
		want     int
	}{
		{name: "family boost", text: "ethos", question: "Ethos Life?", want: 3},
		{name: "instant family", text: "instant approval", question: "Ethos Life?", want: 2},
		{name: "spaced iul", text: "is i ul good", question: "IUL vs Whole", want: 2},
		{name: "rider family", text: "convert my policy", question: "What's a rider?", want: 2},
		{name: "short tokens ignored", text: "vs", question: "Term vs whole life", want: 0},
		{name: "substring and tokens", text: "grace period", question: "Grace period", want: 6},
		{name: "token inside word", text: "budget", question: "Can I get covered?", want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.text, tc.question))
		})
	}
}
