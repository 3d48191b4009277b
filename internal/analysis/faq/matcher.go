package faq

import (
	"regexp"
	"strings"

	model "github.com/kbjinsurance/advisor/backend/internal/model/faq"
)

// Threshold is the minimum winning score for a match to be accepted.
const Threshold = 3

const (
	containsBonus = 4
	tokenBonus    = 1
	familyBonus   = 2
	minTokenLen   = 3
)

var tokenSplitter = regexp.MustCompile(`[^a-z0-9]+`)

// keywordFamilies boost an entry when the user text and the question both
// mention the same topic.
var keywordFamilies = []*regexp.Regexp{
	regexp.MustCompile(`(ethos|instant)`),
	regexp.MustCompile(`(term|whole|universal|i ?ul|v ?ul)`),
	regexp.MustCompile(`(rider|convert|ladder|return of premium)`),
}

// Result is the outcome of a single match. Answer is empty unless Matched.
type Result struct {
	Score   int
	Answer  string
	Index   int
	Matched bool
}

type indexedEntry struct {
	question string
	answer   string
	tokens   []string
	families []bool
}

// Matcher scores user text against a fixed FAQ bank. It is safe for concurrent use.
type Matcher struct {
	entries []indexedEntry
}

// NewMatcher precomputes the lowercase question, tokens and family hits of every entry.
func NewMatcher(entries []model.Entry) *Matcher {
	indexed := make([]indexedEntry, 0, len(entries))
	for _, entry := range entries {
		question := strings.ToLower(entry.Question)
		families := make([]bool, len(keywordFamilies))
		for i, family := range keywordFamilies {
			families[i] = family.MatchString(question)
		}
		indexed = append(indexed, indexedEntry{
			question: question,
			answer:   entry.Answer,
			tokens:   tokenize(question),
			families: families,
		})
	}
	return &Matcher{entries: indexed}
}

// Match returns the best scoring entry for text. Ties keep the earliest entry.
func (m *Matcher) Match(text string) Result {
	if text == "" {
		return Result{Index: -1}
	}

	normalized := strings.ToLower(text)
	textFamilies := make([]bool, len(keywordFamilies))
	for i, family := range keywordFamilies {
		textFamilies[i] = family.MatchString(normalized)
	}

	best := Result{Index: -1}
	for i, entry := range m.entries {
		score := entry.score(normalized, textFamilies)
		if score > best.Score {
			best = Result{Score: score, Answer: entry.answer, Index: i}
		}
	}

	if best.Score < Threshold {
		return Result{Score: best.Score, Index: -1}
	}
	best.Matched = true
	return best
}

// Score computes the score of text against a single question.
func Score(text, question string) int {
	normalized := strings.ToLower(text)
	textFamilies := make([]bool, len(keywordFamilies))
	for i, family := range keywordFamilies {
		textFamilies[i] = family.MatchString(normalized)
	}
	return NewMatcher([]model.Entry{{Question: question}}).entries[0].score(normalized, textFamilies)
}

func (e indexedEntry) score(text string, textFamilies []bool) int {
	score := 0
	if strings.Contains(text, e.question) {
		score += containsBonus
	}
	for _, token := range e.tokens {
		if strings.Contains(text, token) {
			score += tokenBonus
		}
	}
	for i, hit := range e.families {
		if hit && textFamilies[i] {
			score += familyBonus
		}
	}
	return score
}

// tokenize keeps duplicate tokens; each occurrence scores on its own.
func tokenize(question string) []string {
	parts := tokenSplitter.Split(question, -1)
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if len(part) >= minTokenLen {
			tokens = append(tokens, part)
		}
	}
	return tokens
}
