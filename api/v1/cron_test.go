package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnasbury91/reachh/clients/scraper"
	"github.com/johnasbury91/reachh/config"
	"github.com/johnasbury91/reachh/dao"
	"github.com/johnasbury91/reachh/service/svc"
	"github.com/johnasbury91/reachh/stores/gdb/task"
	types "github.com/johnasbury91/reachh/types/v1"
)

func newCronTestCtx(t *testing.T, scraperURL string) *svc.ServerCtx {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "reachh.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Table(task.TaskTableName()).AutoMigrate(&task.Task{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	c := &config.Config{
		Cron:   config.CronConfig{Secret: "cron_secret"},
		Verify: config.VerifyConfig{BatchSize: 100, MatchThreshold: 0.5},
		Scraper: config.ScraperConfig{
			PollMaxAttempts: 1,
			PollIntervalSec: 0,
		},
	}
	return &svc.ServerCtx{
		C:       c,
		Dao:     dao.NewDao(db),
		Scraper: scraper.New("tok", scraperURL, "comment-actor", "search-actor"),
	}
}

func TestVerifyCronScraperOutageReturnsEmptyTick(t *testing.T) {
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	svcCtx := newCronTestCtx(t, srv.URL)
	submitted := task.Task{
		ID:        "task-1",
		UserID:    "user-1",
		Type:      task.TypeComment,
		Subreddit: "cycling",
		Body:      "comment body",
		ProofURL:  "https://reddit.com/r/cycling/comments/abc/x/",
		Status:    task.StatusSubmitted,
	}
	if err := svcCtx.Dao.DB.Table(task.TaskTableName()).Create(&submitted).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/cron/verify-tasks", nil)
	c.Request.Header.Set("Authorization", "Bearer cron_secret")

	VerifyCron(svcCtx)(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 on scraper outage", w.Code)
	}
	var resp types.VerifyCronResp
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Verified != 0 || resp.Rejected != 0 {
		t.Fatalf("outage tick must verify nothing, got %+v", resp)
	}

	var got task.Task
	if err := svcCtx.Dao.DB.Table(task.TaskTableName()).Where("id = ?", "task-1").First(&got).Error; err != nil {
		t.Fatalf("load task: %v", err)
	}
	if got.Status != task.StatusSubmitted {
		t.Fatalf("task status = %s, want submitted untouched", got.Status)
	}
}

func TestVerifyCronRejectsBadSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svcCtx := newCronTestCtx(t, "http://unused")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/v1/cron/verify-tasks", nil)
	c.Request.Header.Set("Authorization", "Bearer wrong")

	VerifyCron(svcCtx)(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 for bad cron secret", w.Code)
	}
}
