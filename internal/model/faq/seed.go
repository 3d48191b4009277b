package faq

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kbjinsurance/advisor/backend/internal/model/site"
)

// ErrEmptyEntry is returned when a question or answer is blank.
var ErrEmptyEntry = errors.New("faq entry has empty question or answer")

//go:embed faqs.yaml
var embeddedBank []byte

type bankDocument struct {
	FAQs []Entry `yaml:"faqs"`
}

// Seed loads the embedded FAQ bank with links pointing at routes.
func Seed(routes site.Routes) ([]Entry, error) {
	return Load(bytes.NewReader(embeddedBank), routes)
}

// Open loads the bank at path, or the embedded bank when path is empty.
func Open(path string, routes site.Routes) ([]Entry, error) {
	if path == "" {
		return Seed(routes)
	}
	return LoadFile(path, routes)
}

// LoadFile loads a FAQ bank from a YAML file on disk.
func LoadFile(path string, routes site.Routes) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open faq file: %w", err)
	}
	defer f.Close()

	return Load(f, routes)
}

// Load decodes a YAML bank of the form `faqs: [{question, answer}]` and
// expands route placeholders in every answer.
func Load(r io.Reader, routes site.Routes) ([]Entry, error) {
	var doc bankDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode faq bank: %w", err)
	}

	entries := make([]Entry, 0, len(doc.FAQs))
	for i, item := range doc.FAQs {
		question := strings.TrimSpace(item.Question)
		answer := strings.TrimSpace(item.Answer)
		if question == "" || answer == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyEntry)
		}
		entries = append(entries, Entry{
			Question: question,
			Answer:   routes.Expand(answer),
		})
	}
	return entries, nil
}
