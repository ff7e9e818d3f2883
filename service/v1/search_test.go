package service

import (
	"testing"

	"github.com/johnasbury91/reachh/clients/scraper"
)

func TestMatchesKeywords(t *testing.T) {
	item := scraper.SearchItem{
		Title: "Looking for a budget commuter bike",
		Body:  "My limit is around 500 dollars, mostly city riding.",
	}

	cases := []struct {
		name     string
		keywords []string
		want     bool
	}{
		{"single word hit", []string{"commuter"}, true},
		{"multi word keyword all present", []string{"budget bike"}, true},
		{"multi word keyword partial", []string{"budget motorcycle"}, false},
		{"any keyword suffices", []string{"motorcycle", "city riding"}, true},
		{"case insensitive", []string{"BUDGET"}, true},
		{"no match", []string{"espresso"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchesKeywords(item, tc.keywords); got != tc.want {
				t.Fatalf("matchesKeywords(%v) = %v, want %v", tc.keywords, got, tc.want)
			}
		})
	}
}

func TestNormalizeSubreddit(t *testing.T) {
	cases := map[string]string{
		"r/Cycling":    "cycling",
		"/r/cycling/":  "cycling",
		"  BikeWrench": "bikewrench",
		"cycling":      "cycling",
	}
	for in, want := range cases {
		if got := normalizeSubreddit(in); got != want {
			t.Fatalf("normalizeSubreddit(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeSubredditsDropsEmpties(t *testing.T) {
	set := normalizeSubreddits([]string{"r/cycling", "", "  "})
	if len(set) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(set))
	}
	if _, ok := set["cycling"]; !ok {
		t.Fatalf("missing normalized entry: %v", set)
	}
}
