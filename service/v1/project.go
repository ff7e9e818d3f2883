package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnasbury91/reachh/dao"
	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
	"github.com/johnasbury91/reachh/stores/gdb/project"
	"github.com/johnasbury91/reachh/stores/gdb/task"
	types "github.com/johnasbury91/reachh/types/v1"
)

// GetActiveProject 取最近项目，不存在时返回空而非报错
func GetActiveProject(ctx context.Context, s *svc.ServerCtx, userID string) (*project.Project, error) {
	p, err := s.Dao.GetLatestProject(ctx, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, nil
		}
		return nil, errcode.ErrPersistence
	}
	return p, nil
}

func CreateProject(ctx context.Context, s *svc.ServerCtx, userID string, req types.CreateProjectRequest) (*project.Project, error) {
	p := &project.Project{
		ID:         uuid.New().String(),
		UserID:     userID,
		Name:       req.Name,
		Keywords:   project.StringList(req.Keywords),
		Subreddits: project.StringList(req.Subreddits),
		IsActive:   true,
	}
	if err := s.Dao.CreateProject(ctx, p); err != nil {
		xzap.WithContext(ctx).Error("create project", zap.Error(err))
		return nil, errcode.ErrPersistence
	}
	return p, nil
}

func UpdateProject(ctx context.Context, s *svc.ServerCtx, userID string, req types.UpdateProjectRequest) (*project.Project, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Keywords != nil {
		fields["keywords"] = project.StringList(*req.Keywords)
	}
	if req.Subreddits != nil {
		fields["subreddits"] = project.StringList(*req.Subreddits)
	}
	if len(fields) > 0 {
		if err := s.Dao.UpdateProject(ctx, req.ID, userID, fields); err != nil {
			if dao.IsNotFound(err) {
				return nil, errcode.NewErr(errcode.CodeNotFound, "project not found")
			}
			return nil, errcode.ErrPersistence
		}
	}

	p, err := s.Dao.GetProjectByID(ctx, req.ID, userID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, errcode.NewErr(errcode.CodeNotFound, "project not found")
		}
		return nil, errcode.ErrPersistence
	}
	return p, nil
}

func ListOpportunities(ctx context.Context, s *svc.ServerCtx, userID, projectID, status string) ([]project.Opportunity, error) {
	if _, err := s.Dao.GetProjectByID(ctx, projectID, userID); err != nil {
		if dao.IsNotFound(err) {
			return nil, errcode.NewErr(errcode.CodeNotFound, "project not found")
		}
		return nil, errcode.ErrPersistence
	}

	opps, err := s.Dao.ListOpportunities(ctx, projectID, status)
	if err != nil {
		return nil, errcode.ErrPersistence
	}
	if opps == nil {
		opps = []project.Opportunity{}
	}
	return opps, nil
}

// AddOpportunity 保存一条搜索结果，同一帖子重复保存时覆盖内容
func AddOpportunity(ctx context.Context, s *svc.ServerCtx, userID string, req types.AddOpportunityRequest) (*project.Opportunity, error) {
	if _, err := s.Dao.GetProjectByID(ctx, req.ProjectID, userID); err != nil {
		if dao.IsNotFound(err) {
			return nil, errcode.NewErr(errcode.CodeNotFound, "project not found")
		}
		return nil, errcode.ErrPersistence
	}

	op := req.Opportunity
	if op.ID == "" || op.URL == "" {
		return nil, errcode.NewCustomErr("opportunity id and url are required")
	}

	o := &project.Opportunity{
		ID:          uuid.New().String(),
		ProjectID:   req.ProjectID,
		RedditID:    op.ID,
		URL:         op.URL,
		Title:       op.Title,
		Body:        op.Body,
		Subreddit:   op.Subreddit,
		Score:       op.Score,
		NumComments: op.NumComments,
		Status:      project.OpportunityNew,
	}
	if op.CreatedAt != "" {
		if parsed, err := time.Parse(time.RFC3339, op.CreatedAt); err == nil {
			o.RedditCreatedAt = &parsed
		}
	}

	if err := s.Dao.UpsertOpportunity(ctx, o); err != nil {
		xzap.WithContext(ctx).Error("upsert opportunity", zap.Error(err))
		return nil, errcode.ErrPersistence
	}
	return o, nil
}

func UpdateOpportunity(ctx context.Context, s *svc.ServerCtx, userID string, req types.UpdateOpportunityRequest) (*project.Opportunity, error) {
	o, err := getOwnedOpportunity(ctx, s, userID, req.ID)
	if err != nil {
		return nil, err
	}

	if err := s.Dao.UpdateOpportunityStatus(ctx, o.ID, project.OpportunityStatus(req.Status), req.CommentURL); err != nil {
		return nil, errcode.ErrPersistence
	}
	o.Status = project.OpportunityStatus(req.Status)
	if req.CommentURL != "" {
		o.CommentURL = req.CommentURL
	}
	return o, nil
}

// PromoteOpportunity 把机会转成排队中的评论任务并置为requested
func PromoteOpportunity(ctx context.Context, s *svc.ServerCtx, userID string, req types.PromoteOpportunityRequest) (*task.Task, error) {
	o, err := getOwnedOpportunity(ctx, s, userID, req.OpportunityID)
	if err != nil {
		return nil, err
	}

	created, err := CreateTasks(ctx, s, userID, []types.CreateTaskRequest{{
		ProjectID:     o.ProjectID,
		Type:          string(task.TypeComment),
		ThreadURL:     o.URL,
		Subreddit:     o.Subreddit,
		ThreadTitle:   o.Title,
		Body:          req.Body,
		RedditAccount: req.RedditAccount,
	}})
	if err != nil {
		return nil, err
	}

	if err := s.Dao.UpdateOpportunityStatus(ctx, o.ID, project.OpportunityRequested, ""); err != nil {
		xzap.WithContext(ctx).Error("mark opportunity requested",
			zap.String("opportunity_id", o.ID), zap.Error(err))
	}
	return &created[0], nil
}

// getOwnedOpportunity 通过所属项目校验归属
func getOwnedOpportunity(ctx context.Context, s *svc.ServerCtx, userID, id string) (*project.Opportunity, error) {
	o, err := s.Dao.GetOpportunityByID(ctx, id)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, errcode.NewErr(errcode.CodeNotFound, "opportunity not found")
		}
		return nil, errcode.ErrPersistence
	}
	if _, err := s.Dao.GetProjectByID(ctx, o.ProjectID, userID); err != nil {
		if dao.IsNotFound(err) {
			return nil, errcode.NewErr(errcode.CodeNotFound, "opportunity not found")
		}
		return nil, errcode.ErrPersistence
	}
	return o, nil
}
