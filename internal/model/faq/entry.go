package faq

// Entry is one static question/answer pair. Answers may contain absolute site links.
type Entry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}
