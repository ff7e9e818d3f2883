package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/johnasbury91/reachh/clients/taskserver"
	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
	"github.com/johnasbury91/reachh/stores/gdb/task"
	types "github.com/johnasbury91/reachh/types/v1"
)

func defaultProjectName(userID string) string {
	if len(userID) > 8 {
		userID = userID[:8]
	}
	return "reachh_" + userID
}

// buildExternalTasks 组装推送到任务系统的描述，comment与post字段互斥
func buildExternalTasks(tasks []task.Task) []taskserver.ExternalTask {
	out := make([]taskserver.ExternalTask, 0, len(tasks))
	for _, t := range tasks {
		e := taskserver.ExternalTask{
			Type:          string(t.Type),
			URL:           t.ThreadURL,
			Subreddit:     t.Subreddit,
			ExternalID:    t.ID,
			RedditAccount: t.RedditAccount,
		}
		if t.Type == task.TypePost {
			e.Title = t.Title
			e.Body = t.Body
		} else {
			e.Comment = t.Body
		}
		out = append(out, e)
	}
	return out
}

// PushTasks 把请求ID中状态为queued的任务整批推送，成功后置为assigned
func PushTasks(ctx context.Context, s *svc.ServerCtx, userID string, req types.SyncPushRequest) (*types.SyncPushResp, error) {
	if !s.TaskServer.Configured() {
		return nil, errcode.NewErr(errcode.CodeUpstream, "task server not configured")
	}

	tasks, err := s.Dao.GetQueuedTasksByIDs(ctx, userID, req.TaskIDs)
	if err != nil {
		xzap.WithContext(ctx).Error("select queued tasks", zap.Error(err))
		return nil, errcode.ErrPersistence
	}
	if len(tasks) == 0 {
		return nil, errcode.NewErr(errcode.CodeNotFound, "no queued tasks found")
	}

	project := req.ProjectName
	if project == "" {
		project = defaultProjectName(userID)
	}

	raw, err := s.TaskServer.PushTasks(ctx, project, buildExternalTasks(tasks))
	if err != nil {
		// 整批失败，任务保持queued等待幂等重试
		xzap.WithContext(ctx).Error("push tasks", zap.Int("count", len(tasks)), zap.Error(err))
		return nil, errcode.NewErr(errcode.CodeUpstream, "failed to sync tasks")
	}

	pushedIDs := make([]string, 0, len(tasks))
	for _, t := range tasks {
		pushedIDs = append(pushedIDs, t.ID)
	}
	if err := s.Dao.MarkTasksAssigned(ctx, pushedIDs); err != nil {
		xzap.WithContext(ctx).Error("mark tasks assigned", zap.Error(err))
		return nil, errcode.ErrPersistence
	}

	if raw == nil {
		raw = json.RawMessage("null")
	}
	return &types.SyncPushResp{
		Success:            true,
		Synced:             len(tasks),
		TaskServerResponse: raw,
	}, nil
}

// PullSubmissions 轮询变体：拉取任务系统的完成记录并逐条落库
func PullSubmissions(ctx context.Context, s *svc.ServerCtx, userID string) (*types.SyncPullResp, error) {
	if !s.TaskServer.Configured() {
		return nil, errcode.NewErr(errcode.CodeUpstream, "task server not configured")
	}

	submissions, err := s.TaskServer.FetchSubmissions(ctx)
	if err != nil {
		xzap.WithContext(ctx).Error("fetch submissions", zap.Error(err))
		return nil, errcode.NewErr(errcode.CodeUpstream, "failed to pull tasks")
	}

	assigned, err := s.Dao.GetAssignedTasks(ctx, userID)
	if err != nil {
		return nil, errcode.ErrPersistence
	}

	byExternalID := make(map[string]taskserver.Submission, len(submissions))
	for _, sub := range submissions {
		byExternalID[sub.ExternalID] = sub
	}

	updated := 0
	for _, t := range assigned {
		sub, ok := byExternalID[t.ID]
		if !ok {
			continue
		}
		applied, err := ApplySubmission(ctx, s, sub, SubmissionSourcePull)
		if err != nil {
			// 单条失败不中断整批
			xzap.WithContext(ctx).Error("apply submission", zap.String("task_id", t.ID), zap.Error(err))
			continue
		}
		if applied {
			updated++
		}
	}

	return &types.SyncPullResp{Success: true, Updated: updated}, nil
}
