package dao

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/johnasbury91/reachh/stores/gdb/task"
)

func (d *Dao) CreateTasks(c context.Context, tasks []task.Task) error {
	return d.DB.WithContext(c).Table(task.TaskTableName()).Create(&tasks).Error
}

func (d *Dao) GetTaskByID(c context.Context, id, userID string) (*task.Task, error) {
	var t task.Task
	err := d.DB.WithContext(c).
		Table(task.TaskTableName()).Where("id = ? and user_id = ?", id, userID).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks 按状态/类型过滤，倒序分页
func (d *Dao) ListTasks(c context.Context, userID, status, taskType string, limit, offset int) ([]task.Task, int64, error) {
	q := d.DB.WithContext(c).Table(task.TaskTableName()).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if taskType != "" {
		q = q.Where("type = ?", taskType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []task.Task
	err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&tasks).Error
	return tasks, total, err
}

func (d *Dao) UpdateTaskFields(c context.Context, id, userID string, fields map[string]interface{}) error {
	res := d.DB.WithContext(c).
		Table(task.TaskTableName()).Where("id = ? and user_id = ?", id, userID).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *Dao) DeleteTask(c context.Context, id, userID string) error {
	return d.DB.WithContext(c).
		Table(task.TaskTableName()).Where("id = ? and user_id = ?", id, userID).Delete(&task.Task{}).Error
}

// GetQueuedTasksByIDs 只选取状态为queued的任务
func (d *Dao) GetQueuedTasksByIDs(c context.Context, userID string, ids []string) ([]task.Task, error) {
	var tasks []task.Task
	err := d.DB.WithContext(c).
		Table(task.TaskTableName()).
		Where("user_id = ? and id in ? and status = ?", userID, ids, task.StatusQueued).
		Find(&tasks).Error
	return tasks, err
}

func (d *Dao) MarkTasksAssigned(c context.Context, ids []string) error {
	now := time.Now()
	return d.DB.WithContext(c).
		Table(task.TaskTableName()).Where("id in ?", ids).
		Updates(map[string]interface{}{
			"status":      task.StatusAssigned,
			"assigned_at": now,
		}).Error
}

func (d *Dao) GetAssignedTasks(c context.Context, userID string) ([]task.Task, error) {
	var tasks []task.Task
	err := d.DB.WithContext(c).
		Table(task.TaskTableName()).
		Where("user_id = ? and status = ?", userID, task.StatusAssigned).
		Find(&tasks).Error
	return tasks, err
}

// GetSubmittedTasksWithProof 待核验批次，limit作为背压上限
func (d *Dao) GetSubmittedTasksWithProof(c context.Context, limit int) ([]task.Task, error) {
	var tasks []task.Task
	err := d.DB.WithContext(c).
		Table(task.TaskTableName()).
		Where("status = ? and proof_url <> ''", task.StatusSubmitted).
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (d *Dao) MarkTaskVerified(c context.Context, id, verificationData string, upvotes int) error {
	now := time.Now()
	return d.DB.WithContext(c).
		Table(task.TaskTableName()).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            task.StatusVerified,
			"verified_at":       now,
			"verification_data": verificationData,
			"upvotes":           upvotes,
		}).Error
}

func (d *Dao) MarkTaskRejected(c context.Context, id, reason, verificationData string) error {
	return d.DB.WithContext(c).
		Table(task.TaskTableName()).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":            task.StatusRejected,
			"rejection_reason":  reason,
			"verification_data": verificationData,
		}).Error
}

// CountTasksByStatusType 统计用状态与类型
func (d *Dao) CountTasksByStatusType(c context.Context, userID string) ([]task.Task, error) {
	var tasks []task.Task
	err := d.DB.WithContext(c).
		Table(task.TaskTableName()).Select("status, type").
		Where("user_id = ?", userID).
		Find(&tasks).Error
	return tasks, err
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
