package service

import (
	"testing"

	"github.com/johnasbury91/reachh/stores/gdb/task"
	types "github.com/johnasbury91/reachh/types/v1"
)

func TestPrepareTaskDefaultsAndDerivation(t *testing.T) {
	got, err := prepareTask("user-1", types.CreateTaskRequest{
		ThreadURL: "https://www.reddit.com/r/cycling/comments/abc123/best_bike/",
		Body:      "try the allez, solid entry road bike",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Type != task.TypeComment {
		t.Fatalf("type should default to comment, got %s", got.Type)
	}
	if got.Subreddit != "cycling" {
		t.Fatalf("subreddit should derive from url, got %q", got.Subreddit)
	}
	if got.Status != task.StatusQueued {
		t.Fatalf("new task must start queued, got %s", got.Status)
	}
	if got.ID == "" {
		t.Fatal("id must be generated")
	}
}

func TestPrepareTaskExplicitSubredditWins(t *testing.T) {
	got, err := prepareTask("user-1", types.CreateTaskRequest{
		ThreadURL: "https://www.reddit.com/r/cycling/comments/abc123/x/",
		Subreddit: "bikecommuting",
		Body:      "some comment",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Subreddit != "bikecommuting" {
		t.Fatalf("explicit subreddit must win, got %q", got.Subreddit)
	}
}

func TestPrepareTaskValidation(t *testing.T) {
	cases := []struct {
		name string
		req  types.CreateTaskRequest
	}{
		{"missing body", types.CreateTaskRequest{Subreddit: "cycling"}},
		{"missing subreddit", types.CreateTaskRequest{Body: "text"}},
		{"comment without thread url", types.CreateTaskRequest{Body: "text", Subreddit: "cycling"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := prepareTask("user-1", tc.req); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestPrepareTaskPostKeepsTitle(t *testing.T) {
	got, err := prepareTask("user-1", types.CreateTaskRequest{
		Type:      string(task.TypePost),
		Subreddit: "cycling",
		Title:     "What I learned commuting daily",
		Body:      "long post body",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "What I learned commuting daily" {
		t.Fatalf("post title lost, got %q", got.Title)
	}
	if got.ThreadURL != "" {
		t.Fatal("posts should not require a thread url")
	}
}

func TestUpdateFieldsOnlySetPointers(t *testing.T) {
	notes := "updated notes"
	status := string(task.StatusAssigned)
	fields := updateFields(types.UpdateTaskRequest{Notes: &notes, Status: &status})

	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(fields), fields)
	}
	if fields["notes"] != notes || fields["status"] != status {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestUpdateFieldsEmptyRequest(t *testing.T) {
	if fields := updateFields(types.UpdateTaskRequest{}); len(fields) != 0 {
		t.Fatalf("expected no fields, got %v", fields)
	}
}
