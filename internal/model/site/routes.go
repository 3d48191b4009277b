package site

import "strings"

// DefaultBaseURL is the public site every generated link points at.
const DefaultBaseURL = "https://www.kevinbrownjrinsurance.com"

// Routes holds the absolute URLs of the primary site pages.
type Routes struct {
	Base      string `json:"base"`
	Quote     string `json:"quote"`
	Audit     string `json:"audit"`
	Solutions string `json:"solutions"`
	Contact   string `json:"contact"`
	Articles  string `json:"articles"`
	Founder   string `json:"founder"`
}

// NewRoutes derives every route from baseURL. An empty base falls back to DefaultBaseURL.
func NewRoutes(baseURL string) Routes {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}

	return Routes{
		Base:      base,
		Quote:     base + "/quote-and-apply",
		Audit:     base + "/free-audit",
		Solutions: base + "/solutions",
		Contact:   base + "/contact",
		Articles:  base + "/articles",
		Founder:   base + "/founder-profile",
	}
}

// Placeholders maps the {name} tokens used in static copy to their URLs.
func (r Routes) Placeholders() map[string]string {
	return map[string]string{
		"quote":     r.Quote,
		"audit":     r.Audit,
		"solutions": r.Solutions,
		"contact":   r.Contact,
		"articles":  r.Articles,
		"founder":   r.Founder,
	}
}

// Expand replaces {name} placeholders in text with the matching route.
func (r Routes) Expand(text string) string {
	pairs := make([]string, 0, 12)
	for name, url := range r.Placeholders() {
		pairs = append(pairs, "{"+name+"}", url)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
