package site

import "testing"

func TestNewRoutesTrimsTrailingSlash(t *testing.T) {
	routes := NewRoutes("https://example.test/")

	if routes.Quote != "https://example.test/quote-and-apply" {
		t.Fatalf("unexpected quote route: %s", routes.Quote)
	}
	if routes.Founder != "https://example.test/founder-profile" {
		t.Fatalf("unexpected founder route: %s", routes.Founder)
	}
}

func TestNewRoutesDefaultsBase(t *testing.T) {
	routes := NewRoutes("  ")
	if routes.Base != DefaultBaseURL {
		t.Fatalf("expected default base, got %s", routes.Base)
	}
}

func TestExpandPlaceholders(t *testing.T) {
	routes := NewRoutes("https://example.test")
	got := routes.Expand("Audit: {audit} then call {contact}. Unknown {nope}.")
	want := "Audit: https://example.test/free-audit then call https://example.test/contact. Unknown {nope}."
	if got != want {
		t.Fatalf("unexpected expansion:\n got %q\nwant %q", got, want)
	}
}
