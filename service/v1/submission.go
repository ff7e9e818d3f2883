package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnasbury91/reachh/clients/taskserver"
	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
	"github.com/johnasbury91/reachh/stores/gdb/task"
	"github.com/johnasbury91/reachh/stores/gdb/user"
)

const (
	SubmissionSourceWebhook = "webhook"
	SubmissionSourcePull    = "pull"
)

var ErrSubmissionTaskNotFound = errcode.NewErr(errcode.CodeNotFound, "task not found")

// ApplySubmission 落库一条完成记录：状态推进与扣credit在同一事务内，
// 以(task_id, event_type)唯一键做重放保护。返回false表示幂等跳过。
func ApplySubmission(ctx context.Context, s *svc.ServerCtx, sub taskserver.Submission, source string) (bool, error) {
	if sub.ExternalID == "" {
		return false, errcode.NewCustomErr("external_id is required")
	}

	var t task.Task
	err := s.Dao.DB.WithContext(ctx).
		Table(task.TaskTableName()).Where("id = ?", sub.ExternalID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrSubmissionTaskNotFound
		}
		return false, errcode.ErrPersistence
	}

	// 重复投递：已提交或已核验直接按成功返回
	if t.Status == task.StatusSubmitted || t.Status == task.StatusVerified {
		return false, nil
	}

	submittedAt := time.Now()
	if sub.SubmittedAt != "" {
		if parsed, perr := time.Parse(time.RFC3339, sub.SubmittedAt); perr == nil {
			submittedAt = parsed
		}
	}

	applied := false
	err = s.Dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event := task.TaskEvent{
			ID:        uuid.New().String(),
			TaskID:    t.ID,
			EventType: task.EventSubmitted,
			Source:    source,
		}
		if err := tx.Table(task.TaskEventTableName()).Create(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// 并发重放，另一次投递已处理
				return nil
			}
			return err
		}

		res := tx.Table(task.TaskTableName()).
			Where("id = ? and status = ?", t.ID, task.StatusAssigned).
			Updates(map[string]interface{}{
				"status":         task.StatusSubmitted,
				"proof_url":      sub.ProofURL,
				"reddit_account": sub.RedditAccount,
				"task_code":      sub.Code,
				"worker_id":      sub.WorkerID,
				"submitted_at":   submittedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// 状态已被其它路径推进，放弃本次事件
			return gorm.ErrRecordNotFound
		}

		if err := tx.Table(user.UserProfileTableName()).
			Where("id = ?", t.UserID).
			Update("credits", gorm.Expr("credits - 1")).Error; err != nil {
			return err
		}

		applied = true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		xzap.WithContext(ctx).Error("apply submission tx",
			zap.String("task_id", t.ID), zap.String("source", source), zap.Error(err))
		return false, errcode.ErrPersistence
	}

	if applied {
		xzap.WithContext(ctx).Info("task submitted",
			zap.String("task_id", t.ID),
			zap.String("user_id", t.UserID),
			zap.String("source", source))
	}
	return applied, nil
}
