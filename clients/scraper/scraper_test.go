package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStartCommentScrape(t *testing.T) {
	var gotPath string
	var gotInput commentRunInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotInput); err != nil {
			t.Fatalf("decode input: %v", err)
		}
		w.Write([]byte(`{"data":{"id":"run-42","status":"RUNNING"}}`))
	}))
	defer srv.Close()

	c := New("tok", srv.URL, "trudax~reddit-comment-scraper", "search-actor")
	runID, err := c.StartCommentScrape(context.Background(), []string{"https://reddit.com/r/x/comments/1/a/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runID != "run-42" {
		t.Fatalf("unexpected run id %q", runID)
	}
	if gotPath != "/acts/trudax~reddit-comment-scraper/runs" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotInput.MaxComments != 1 || len(gotInput.URLs) != 1 {
		t.Fatalf("unexpected input %+v", gotInput)
	}
}

func TestStartCommentScrapeMissingRunID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c := New("tok", srv.URL, "actor", "search")
	if _, err := c.StartCommentScrape(context.Background(), []string{"u"}); err == nil {
		t.Fatal("expected error for missing run id")
	}
}

func TestGetRunItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/actor-runs/run-42/dataset/items" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`[{"url":"https://reddit.com/r/x/comments/1/a/","body":"hello","author":"alice","score":3}]`))
	}))
	defer srv.Close()

	c := New("tok", srv.URL, "actor", "search")
	items, err := c.GetRunItems(context.Background(), "run-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Author != "alice" || items[0].ScoreValue() != 3 {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New("bad-token", srv.URL, "actor", "search")
	if _, err := c.GetRunStatus(context.Background(), "run-42"); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestSearchPostsInput(t *testing.T) {
	var gotInput searchRunInput
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotInput); err != nil {
			t.Fatalf("decode input: %v", err)
		}
		w.Write([]byte(`[{"dataType":"post","title":"t","communityName":"r/cycling"}]`))
	}))
	defer srv.Close()

	c := New("tok", srv.URL, "actor", "search-actor")
	items, err := c.SearchPosts(context.Background(), []string{`"budget bike"`}, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].DataType != "post" {
		t.Fatalf("unexpected items %+v", items)
	}
	if gotInput.SearchType != "posts" || !gotInput.SkipComments || gotInput.MaxItems != 50 {
		t.Fatalf("unexpected search input %+v", gotInput)
	}
}

func TestItemBodyTextFallback(t *testing.T) {
	if (Item{Body: "b", Selftext: "s"}).BodyText() != "b" {
		t.Fatal("body must take precedence")
	}
	if (Item{Selftext: "s", Text: "t"}).BodyText() != "s" {
		t.Fatal("selftext must come before text")
	}
	if (Item{Text: "t"}).BodyText() != "t" {
		t.Fatal("text is the last fallback")
	}
}
