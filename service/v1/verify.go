package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/johnasbury91/reachh/clients/scraper"
	"github.com/johnasbury91/reachh/config"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
	"github.com/johnasbury91/reachh/stores/gdb/task"
)

const rejectionReason = "Content mismatch or deleted"

// minTokenLen 短词按停用词处理
const minTokenLen = 3

// VerifyStore 核验批次需要的存储操作
type VerifyStore interface {
	GetSubmittedTasksWithProof(ctx context.Context, limit int) ([]task.Task, error)
	MarkTaskVerified(ctx context.Context, id, verificationData string, upvotes int) error
	MarkTaskRejected(ctx context.Context, id, reason, verificationData string) error
}

// ProofScraper 抓取平台的最小接口
type ProofScraper interface {
	StartCommentScrape(ctx context.Context, urls []string) (string, error)
	GetRunStatus(ctx context.Context, runID string) (string, error)
	GetRunItems(ctx context.Context, runID string) ([]scraper.Item, error)
}

// AccountStats 账号维度的成功计数，尽力而为
type AccountStats interface {
	IncrVerified(ctx context.Context, account string) error
}

type VerifyResult struct {
	Total    int
	Verified int
	Rejected int
}

// Verifier 周期批量核验引擎。依赖全部显式注入，轮询策略可配置。
type Verifier struct {
	store     VerifyStore
	scraper   ProofScraper
	stats     AccountStats
	policy    scraper.PollPolicy
	batchSize int
	threshold float64
}

func NewVerifier(store VerifyStore, sc ProofScraper, stats AccountStats, policy scraper.PollPolicy, cfg config.VerifyConfig) *Verifier {
	return &Verifier{
		store:     store,
		scraper:   sc,
		stats:     stats,
		policy:    policy,
		batchSize: cfg.BatchSize,
		threshold: cfg.MatchThreshold,
	}
}

// NewVerifierFromCtx 按运行配置组装核验引擎
func NewVerifierFromCtx(s *svc.ServerCtx) *Verifier {
	policy := scraper.NewPollPolicy(
		s.C.Scraper.PollMaxAttempts,
		time.Duration(s.C.Scraper.PollIntervalSec)*time.Second,
	)
	return NewVerifier(s.Dao, s.Scraper, NewAccountStats(s.KV), policy, s.C.Verify)
}

// Run 执行一次核验批次。抓取整体失败时不触碰任何任务状态；
// 单条落库失败只跳过该条。
func (v *Verifier) Run(ctx context.Context) (VerifyResult, error) {
	var res VerifyResult

	tasks, err := v.store.GetSubmittedTasksWithProof(ctx, v.batchSize)
	if err != nil {
		return res, err
	}
	res.Total = len(tasks)
	if len(tasks) == 0 {
		return res, nil
	}

	// 只抓Reddit域名的proof，其余留待人工处理
	urlSet := make(map[string]struct{})
	for _, t := range tasks {
		if strings.Contains(t.ProofURL, "reddit.com") {
			urlSet[t.ProofURL] = struct{}{}
		}
	}
	if len(urlSet) == 0 {
		return res, nil
	}

	runID, err := v.scraper.StartCommentScrape(ctx, maps.Keys(urlSet))
	if err != nil {
		return res, err
	}
	if err := v.policy.WaitForRun(ctx, func(ctx context.Context) (string, error) {
		return v.scraper.GetRunStatus(ctx, runID)
	}); err != nil {
		return res, err
	}

	items, err := v.scraper.GetRunItems(ctx, runID)
	if err != nil {
		return res, err
	}
	byURL := make(map[string]scraper.Item, len(items))
	for _, item := range items {
		if item.URL != "" {
			byURL[item.URL] = item
		}
	}

	for _, t := range tasks {
		item, ok := byURL[t.ProofURL]
		if !ok {
			// 无抓取结果不等于作假，留在submitted下轮重试
			xzap.WithContext(ctx).Info("no scrape result for task",
				zap.String("task_id", t.ID), zap.String("proof_url", t.ProofURL))
			continue
		}

		payload, merr := json.Marshal(item)
		if merr != nil {
			payload = []byte("{}")
		}

		if v.evaluate(t, item) {
			if err := v.store.MarkTaskVerified(ctx, t.ID, string(payload), item.ScoreValue()); err != nil {
				xzap.WithContext(ctx).Error("mark verified", zap.String("task_id", t.ID), zap.Error(err))
				continue
			}
			res.Verified++

			if t.RedditAccount != "" && v.stats != nil {
				if err := v.stats.IncrVerified(ctx, t.RedditAccount); err != nil {
					xzap.WithContext(ctx).Warn("account stats incr",
						zap.String("account", t.RedditAccount), zap.Error(err))
				}
			}
		} else {
			if err := v.store.MarkTaskRejected(ctx, t.ID, rejectionReason, string(payload)); err != nil {
				xzap.WithContext(ctx).Error("mark rejected", zap.String("task_id", t.ID), zap.Error(err))
				continue
			}
			res.Rejected++
		}
	}

	return res, nil
}

// evaluate 按顺序执行核验规则，首个失败即拒绝
func (v *Verifier) evaluate(t task.Task, item scraper.Item) bool {
	if item.Removed || item.Deleted {
		return false
	}

	taskBody := strings.TrimSpace(strings.ToLower(t.Body))
	scrapedBody := strings.TrimSpace(strings.ToLower(item.BodyText()))
	if taskBody != "" && scrapedBody != "" {
		if bodyOverlap(taskBody, scrapedBody) < v.threshold {
			return false
		}
	}

	if t.RedditAccount != "" && item.Author != "" {
		if !strings.EqualFold(t.RedditAccount, item.Author) {
			return false
		}
	}
	return true
}

// tokenSet 按空白切分并丢弃短词
func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		if len(w) > minTokenLen {
			set[w] = struct{}{}
		}
	}
	return set
}

// bodyOverlap 任务正文的有效词出现在抓取正文词集中的比例。
// 宽松模糊匹配，容忍小幅改写。
func bodyOverlap(taskBody, scrapedBody string) float64 {
	taskWords := tokenSet(taskBody)
	if len(taskWords) == 0 {
		return 0
	}
	scrapedWords := tokenSet(scrapedBody)

	matched := 0
	for w := range taskWords {
		if _, ok := scrapedWords[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(taskWords))
}
