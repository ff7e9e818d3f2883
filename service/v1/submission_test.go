package service

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnasbury91/reachh/clients/taskserver"
	"github.com/johnasbury91/reachh/config"
	"github.com/johnasbury91/reachh/dao"
	"github.com/johnasbury91/reachh/service/svc"
	"github.com/johnasbury91/reachh/stores/gdb/task"
	"github.com/johnasbury91/reachh/stores/gdb/user"
)

// newTestCtx sqlite落盘的ServerCtx，表结构与线上模型一致
func newTestCtx(t *testing.T) *svc.ServerCtx {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "reachh.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	migrations := []struct {
		table string
		model interface{}
	}{
		{task.TaskTableName(), &task.Task{}},
		{task.TaskEventTableName(), &task.TaskEvent{}},
		{user.UserProfileTableName(), &user.UserProfile{}},
		{user.CreditPurchaseTableName(), &user.CreditPurchase{}},
	}
	for _, m := range migrations {
		if err := db.Table(m.table).AutoMigrate(m.model); err != nil {
			t.Fatalf("migrate %s: %v", m.table, err)
		}
	}

	return &svc.ServerCtx{C: &config.Config{}, Dao: dao.NewDao(db)}
}

func seedProfile(t *testing.T, s *svc.ServerCtx, userID string, credits int) {
	t.Helper()
	p := user.UserProfile{ID: userID, Credits: credits}
	if err := s.Dao.DB.Table(user.UserProfileTableName()).Create(&p).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func seedTask(t *testing.T, s *svc.ServerCtx, tk task.Task) {
	t.Helper()
	if err := s.Dao.DB.Table(task.TaskTableName()).Create(&tk).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
}

func loadTask(t *testing.T, s *svc.ServerCtx, id string) task.Task {
	t.Helper()
	var tk task.Task
	if err := s.Dao.DB.Table(task.TaskTableName()).Where("id = ?", id).First(&tk).Error; err != nil {
		t.Fatalf("load task: %v", err)
	}
	return tk
}

func loadCredits(t *testing.T, s *svc.ServerCtx, userID string) int {
	t.Helper()
	var p user.UserProfile
	if err := s.Dao.DB.Table(user.UserProfileTableName()).Where("id = ?", userID).First(&p).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	return p.Credits
}

func TestApplySubmissionDecrementsCreditsOnce(t *testing.T) {
	s := newTestCtx(t)
	seedProfile(t, s, "user-1", 5)
	seedTask(t, s, task.Task{
		ID:        "task-1",
		UserID:    "user-1",
		Type:      task.TypeComment,
		Subreddit: "cycling",
		Body:      "comment body",
		Status:    task.StatusAssigned,
	})

	sub := taskserver.Submission{
		ExternalID:    "task-1",
		ProofURL:      "https://reddit.com/r/cycling/comments/abc/x/",
		RedditAccount: "alice",
		SubmittedAt:   "2026-08-01T10:00:00Z",
	}

	applied, err := ApplySubmission(context.Background(), s, sub, SubmissionSourceWebhook)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if !applied {
		t.Fatal("first delivery must apply")
	}

	got := loadTask(t, s, "task-1")
	if got.Status != task.StatusSubmitted {
		t.Fatalf("status = %s, want submitted", got.Status)
	}
	if got.ProofURL != sub.ProofURL || got.RedditAccount != "alice" {
		t.Fatalf("submission fields not persisted: %+v", got)
	}
	if credits := loadCredits(t, s, "user-1"); credits != 4 {
		t.Fatalf("credits = %d, want 4 after one decrement", credits)
	}

	// 同一事件经另一条投递路径重放
	applied, err = ApplySubmission(context.Background(), s, sub, SubmissionSourcePull)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if applied {
		t.Fatal("replayed delivery must be a no-op")
	}
	if credits := loadCredits(t, s, "user-1"); credits != 4 {
		t.Fatalf("credits = %d after replay, want 4 (no double decrement)", credits)
	}
}

func TestApplySubmissionEventKeyBlocksReplay(t *testing.T) {
	s := newTestCtx(t)
	seedProfile(t, s, "user-1", 5)
	seedTask(t, s, task.Task{
		ID:        "task-1",
		UserID:    "user-1",
		Type:      task.TypeComment,
		Subreddit: "cycling",
		Body:      "comment body",
		Status:    task.StatusAssigned,
	})

	sub := taskserver.Submission{ExternalID: "task-1", ProofURL: "https://reddit.com/r/c/comments/1/a/"}
	if _, err := ApplySubmission(context.Background(), s, sub, SubmissionSourceWebhook); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	// 状态被外力退回assigned，事件唯一键仍须挡住第二次入账
	err := s.Dao.DB.Table(task.TaskTableName()).
		Where("id = ?", "task-1").Update("status", task.StatusAssigned).Error
	if err != nil {
		t.Fatalf("reset status: %v", err)
	}

	applied, err := ApplySubmission(context.Background(), s, sub, SubmissionSourceWebhook)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if applied {
		t.Fatal("duplicate event must not apply")
	}
	if credits := loadCredits(t, s, "user-1"); credits != 4 {
		t.Fatalf("credits = %d, want 4 (event key must block second decrement)", credits)
	}
}

func TestApplySubmissionUnknownTask(t *testing.T) {
	s := newTestCtx(t)

	_, err := ApplySubmission(context.Background(), s,
		taskserver.Submission{ExternalID: "missing"}, SubmissionSourceWebhook)
	if err != ErrSubmissionTaskNotFound {
		t.Fatalf("expected ErrSubmissionTaskNotFound, got %v", err)
	}
}

func TestApplySubmissionQueuedTaskSkipped(t *testing.T) {
	s := newTestCtx(t)
	seedProfile(t, s, "user-1", 5)
	seedTask(t, s, task.Task{
		ID:        "task-1",
		UserID:    "user-1",
		Type:      task.TypeComment,
		Subreddit: "cycling",
		Body:      "comment body",
		Status:    task.StatusQueued,
	})

	applied, err := ApplySubmission(context.Background(), s,
		taskserver.Submission{ExternalID: "task-1"}, SubmissionSourceWebhook)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied {
		t.Fatal("queued task has not been pushed, submission must not apply")
	}
	if credits := loadCredits(t, s, "user-1"); credits != 5 {
		t.Fatalf("credits = %d, want 5 untouched", credits)
	}
}
