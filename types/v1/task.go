package types

import "github.com/johnasbury91/reachh/stores/gdb/task"

// CreateTaskRequest 创建任务请求，支持单条或数组
type CreateTaskRequest struct {
	ProjectID     string `json:"project_id"`
	Type          string `json:"type" binding:"omitempty,oneof=comment post"`
	ThreadURL     string `json:"thread_url"`
	Subreddit     string `json:"subreddit"`
	ThreadTitle   string `json:"thread_title"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	RedditAccount string `json:"reddit_account"`
	Notes         string `json:"notes"`
}

type UpdateTaskRequest struct {
	Status        *string `json:"status" binding:"omitempty,oneof=queued assigned submitted verified rejected"`
	RedditAccount *string `json:"reddit_account"`
	ProofURL      *string `json:"proof_url"`
	Notes         *string `json:"notes"`
	ThreadTitle   *string `json:"thread_title"`
	Body          *string `json:"body"`
	Title         *string `json:"title"`
	Subreddit     *string `json:"subreddit"`
}

// QueueTaskRequest 创建任务并尽力直推任务系统
type QueueTaskRequest struct {
	Type        string `json:"type" binding:"omitempty,oneof=comment post"`
	ThreadURL   string `json:"thread_url"`
	Subreddit   string `json:"subreddit"`
	ThreadTitle string `json:"thread_title"`
	Title       string `json:"title"`
	CommentText string `json:"comment_text"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
}

type TaskListResp struct {
	Tasks []task.Task `json:"tasks"`
	Total int64       `json:"total"`
}

type TaskResp struct {
	Task *task.Task `json:"task"`
}

type TaskStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	ByType   map[string]int `json:"byType"`
}

type TaskStatsResp struct {
	Stats TaskStats `json:"stats"`
}

type DeleteTaskResp struct {
	Success bool `json:"success"`
}
