package faq

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbjinsurance/advisor/backend/internal/model/site"
)

func TestSeedExpandsRoutes(t *testing.T) {
	routes := site.NewRoutes("https://example.test")
	entries, err := Seed(routes)
	require.NoError(t, err)
	require.Len(t, entries, 65)

	assert.Equal(t, "What is life insurance?", entries[0].Question)
	assert.Contains(t, entries[0].Answer, "https://example.test/quote-and-apply")

	for _, entry := range entries {
		assert.NotEmpty(t, entry.Question)
		assert.NotEmpty(t, entry.Answer)
		assert.NotContains(t, entry.Answer, "{quote}")
		assert.NotContains(t, entry.Answer, "{audit}")
	}
}

func TestLoadRejectsEmptyAnswer(t *testing.T) {
	doc := "faqs:\n  - question: \"Anything?\"\n    answer: \"  \"\n"
	_, err := Load(strings.NewReader(doc), site.NewRoutes(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyEntry))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faqs.yaml")
	doc := "faqs:\n  - question: \"Where do I start?\"\n    answer: \"Here: {audit}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	entries, err := LoadFile(path, site.NewRoutes("https://example.test"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Here: https://example.test/free-audit", entries[0].Answer)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), site.NewRoutes(""))
	require.Error(t, err)
}

func TestMemoryStoreCopies(t *testing.T) {
	items := []Entry{{Question: "q", Answer: "a"}}
	store := NewMemoryStore(items)
	items[0].Answer = "changed"

	list := store.List()
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Answer)

	list[0].Answer = "mutated"
	assert.Equal(t, "a", store.List()[0].Answer)
	assert.Equal(t, 1, store.Len())
}

func TestOpenPrefersFile(t *testing.T) {
	embedded, err := Open("", site.NewRoutes(""))
	require.NoError(t, err)
	assert.Len(t, embedded, 65)

	path := filepath.Join(t.TempDir(), "faqs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("faqs:\n  - question: q\n    answer: a\n"), 0o600))

	custom, err := Open(path, site.NewRoutes(""))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Question: "q", Answer: "a"}}, custom)
}
