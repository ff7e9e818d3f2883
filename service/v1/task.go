package service

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnasbury91/reachh/dao"
	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
	"github.com/johnasbury91/reachh/stores/gdb/task"
	types "github.com/johnasbury91/reachh/types/v1"
)

var subredditPattern = regexp.MustCompile(`reddit\.com/r/([^/]+)`)

// prepareTask 校验并组装任务记录，subreddit缺省时从URL推导
func prepareTask(userID string, req types.CreateTaskRequest) (task.Task, error) {
	taskType := task.TaskType(req.Type)
	if taskType == "" {
		taskType = task.TypeComment
	}

	subreddit := req.Subreddit
	if subreddit == "" && req.ThreadURL != "" {
		if m := subredditPattern.FindStringSubmatch(req.ThreadURL); m != nil {
			subreddit = m[1]
		}
	}

	if req.Body == "" || subreddit == "" {
		return task.Task{}, errcode.NewCustomErr("body and subreddit are required")
	}
	if taskType == task.TypeComment && req.ThreadURL == "" {
		return task.Task{}, errcode.NewCustomErr("thread_url required for comments")
	}

	t := task.Task{
		ID:            uuid.New().String(),
		UserID:        userID,
		Type:          taskType,
		ThreadURL:     req.ThreadURL,
		Subreddit:     subreddit,
		ThreadTitle:   req.ThreadTitle,
		Body:          req.Body,
		RedditAccount: req.RedditAccount,
		Notes:         req.Notes,
		Status:        task.StatusQueued,
	}
	if req.ProjectID != "" {
		pid := req.ProjectID
		t.ProjectID = &pid
	}
	if taskType == task.TypePost {
		t.Title = req.Title
	}
	return t, nil
}

func CreateTasks(ctx context.Context, s *svc.ServerCtx, userID string, reqs []types.CreateTaskRequest) ([]task.Task, error) {
	tasks := make([]task.Task, 0, len(reqs))
	for _, req := range reqs {
		t, err := prepareTask(userID, req)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	if err := s.Dao.CreateTasks(ctx, tasks); err != nil {
		xzap.WithContext(ctx).Error("create tasks", zap.Error(err))
		return nil, errcode.ErrPersistence
	}
	return tasks, nil
}

func GetTask(ctx context.Context, s *svc.ServerCtx, id, userID string) (*task.Task, error) {
	t, err := s.Dao.GetTaskByID(ctx, id, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, errcode.NewErr(errcode.CodeNotFound, "task not found")
		}
		return nil, errcode.ErrPersistence
	}
	return t, nil
}

func ListTasks(ctx context.Context, s *svc.ServerCtx, userID, status, taskType string, limit, offset int) (*types.TaskListResp, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	tasks, total, err := s.Dao.ListTasks(ctx, userID, status, taskType, limit, offset)
	if err != nil {
		xzap.WithContext(ctx).Error("list tasks", zap.Error(err))
		return nil, errcode.ErrPersistence
	}
	return &types.TaskListResp{Tasks: tasks, Total: total}, nil
}

// 外部可改字段白名单，正文类字段提交后不可再改
func UpdateTask(ctx context.Context, s *svc.ServerCtx, id, userID string, req types.UpdateTaskRequest) (*task.Task, error) {
	t, err := GetTask(ctx, s, id, userID)
	if err != nil {
		return nil, err
	}

	fields := updateFields(req)
	if len(fields) == 0 {
		return t, nil
	}

	if !t.Editable() {
		if _, ok := fields["body"]; ok {
			return nil, errcode.NewErr(errcode.CodeInvalidState, "task content can no longer be edited")
		}
		if _, ok := fields["title"]; ok {
			return nil, errcode.NewErr(errcode.CodeInvalidState, "task content can no longer be edited")
		}
	}

	if err := s.Dao.UpdateTaskFields(ctx, id, userID, fields); err != nil {
		xzap.WithContext(ctx).Error("update task", zap.String("task_id", id), zap.Error(err))
		return nil, errcode.ErrPersistence
	}
	return GetTask(ctx, s, id, userID)
}

func updateFields(req types.UpdateTaskRequest) map[string]interface{} {
	fields := map[string]interface{}{}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.RedditAccount != nil {
		fields["reddit_account"] = *req.RedditAccount
	}
	if req.ProofURL != nil {
		fields["proof_url"] = *req.ProofURL
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}
	if req.ThreadTitle != nil {
		fields["thread_title"] = *req.ThreadTitle
	}
	if req.Body != nil {
		fields["body"] = *req.Body
	}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Subreddit != nil {
		fields["subreddit"] = *req.Subreddit
	}
	return fields
}

func DeleteTask(ctx context.Context, s *svc.ServerCtx, id, userID string) error {
	t, err := GetTask(ctx, s, id, userID)
	if err != nil {
		return err
	}
	if !t.Editable() {
		return errcode.NewErr(errcode.CodeInvalidState, "task can no longer be cancelled")
	}

	if err := s.Dao.DeleteTask(ctx, id, userID); err != nil {
		xzap.WithContext(ctx).Error("delete task", zap.String("task_id", id), zap.Error(err))
		return errcode.ErrPersistence
	}
	return nil
}

func GetTaskStats(ctx context.Context, s *svc.ServerCtx, userID string) (*types.TaskStats, error) {
	tasks, err := s.Dao.CountTasksByStatusType(ctx, userID)
	if err != nil {
		return nil, errcode.ErrPersistence
	}

	stats := &types.TaskStats{
		Total: len(tasks),
		ByStatus: map[string]int{
			string(task.StatusQueued):    0,
			string(task.StatusAssigned):  0,
			string(task.StatusSubmitted): 0,
			string(task.StatusVerified):  0,
			string(task.StatusRejected):  0,
		},
		ByType: map[string]int{
			string(task.TypeComment): 0,
			string(task.TypePost):    0,
		},
	}
	for _, t := range tasks {
		if _, ok := stats.ByStatus[string(t.Status)]; ok {
			stats.ByStatus[string(t.Status)]++
		}
		if _, ok := stats.ByType[string(t.Type)]; ok {
			stats.ByType[string(t.Type)]++
		}
	}
	return stats, nil
}

// QueueTask 额度预检后创建任务，任务系统已配置时尽力直推
func QueueTask(ctx context.Context, s *svc.ServerCtx, userID string, req types.QueueTaskRequest) (*task.Task, error) {
	profile, err := s.Dao.GetProfile(ctx, userID)
	if err != nil && !dao.IsNotFound(err) {
		return nil, errcode.ErrPersistence
	}
	if profile == nil || profile.Credits <= 0 {
		return nil, errcode.ErrPaymentRequired
	}

	t, err := prepareTask(userID, types.CreateTaskRequest{
		ProjectID:   req.ProjectID,
		Type:        req.Type,
		ThreadURL:   req.ThreadURL,
		Subreddit:   req.Subreddit,
		ThreadTitle: req.ThreadTitle,
		Title:       req.Title,
		Body:        req.CommentText,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Dao.CreateTasks(ctx, []task.Task{t}); err != nil {
		xzap.WithContext(ctx).Error("create queued task", zap.Error(err))
		return nil, errcode.ErrPersistence
	}

	// 直推失败不影响创建结果，任务留在queued等待重试
	if s.TaskServer.Configured() {
		project := req.ProjectName
		if project == "" {
			project = defaultProjectName(userID)
		}
		if _, err := s.TaskServer.PushTasks(ctx, project, buildExternalTasks([]task.Task{t})); err != nil {
			xzap.WithContext(ctx).Warn("auto push failed", zap.String("task_id", t.ID), zap.Error(err))
		} else if err := s.Dao.MarkTasksAssigned(ctx, []string{t.ID}); err != nil {
			xzap.WithContext(ctx).Error("mark assigned", zap.String("task_id", t.ID), zap.Error(err))
		} else {
			t.Status = task.StatusAssigned
		}
	}
	return &t, nil
}
