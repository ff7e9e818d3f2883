package taskserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPushTasks(t *testing.T) {
	var gotKey string
	var gotReq pushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotKey = r.Header.Get("X-API-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"accepted":2}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-1")
	raw, err := c.PushTasks(context.Background(), "reachh_user", []ExternalTask{
		{Type: "comment", ExternalID: "t1", Comment: "text"},
		{Type: "post", ExternalID: "t2", Title: "title", Body: "body"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "key-1" {
		t.Fatalf("api key header missing, got %q", gotKey)
	}
	if gotReq.Project != "reachh_user" || len(gotReq.Tasks) != 2 {
		t.Fatalf("unexpected push request %+v", gotReq)
	}
	if string(raw) != `{"accepted":2}` {
		t.Fatalf("raw response not preserved: %s", raw)
	}
}

func TestPushTasksUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("backend down"))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-1")
	if _, err := c.PushTasks(context.Background(), "p", nil); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestFetchSubmissions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/submissions" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"submissions":[{"external_id":"t1","proof_url":"https://reddit.com/r/x/comments/1/a/","reddit_account":"alice"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "key-1")
	subs, err := c.FetchSubmissions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subs) != 1 || subs[0].ExternalID != "t1" || subs[0].RedditAccount != "alice" {
		t.Fatalf("unexpected submissions %+v", subs)
	}
}

func TestConfigured(t *testing.T) {
	if New("", "").Configured() {
		t.Fatal("empty client must not be configured")
	}
	if New("http://ts", "").Configured() {
		t.Fatal("missing api key must not be configured")
	}
	if !New("http://ts", "k").Configured() {
		t.Fatal("url plus key is configured")
	}
}
