package task

import "time"

type TaskStatus string

const (
	StatusQueued    TaskStatus = "queued"
	StatusAssigned  TaskStatus = "assigned"
	StatusSubmitted TaskStatus = "submitted"
	StatusVerified  TaskStatus = "verified"
	StatusRejected  TaskStatus = "rejected"
)

type TaskType string

const (
	TypeComment TaskType = "comment"
	TypePost    TaskType = "post"
)

// Task 外包的Reddit评论/发帖任务
type Task struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	UserID           string     `gorm:"size:36;not null;index" json:"user_id"`
	ProjectID        *string    `gorm:"size:36;index" json:"project_id"`
	Type             TaskType   `gorm:"size:20;default:comment" json:"type"`
	ThreadURL        string     `gorm:"size:500" json:"thread_url"`
	Subreddit        string     `gorm:"size:100;not null" json:"subreddit"`
	ThreadTitle      string     `gorm:"size:500" json:"thread_title"`
	Title            string     `gorm:"size:500" json:"title"` // 发帖任务标题
	Body             string     `gorm:"type:text;not null" json:"body"`
	RedditAccount    string     `gorm:"size:100" json:"reddit_account"`
	Notes            string     `gorm:"type:text" json:"notes"`
	ProofURL         string     `gorm:"size:500" json:"proof_url"`
	TaskCode         string     `gorm:"size:100" json:"task_code"`
	WorkerID         string     `gorm:"size:100" json:"worker_id"`
	VerificationData string     `gorm:"type:text" json:"verification_data"` // 抓取回来的原始记录
	Upvotes          int        `json:"upvotes"`
	Status           TaskStatus `gorm:"size:20;default:queued;index" json:"status"`
	RejectionReason  string     `gorm:"size:200" json:"rejection_reason"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	AssignedAt       *time.Time `json:"assigned_at,omitempty"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
}

func TaskTableName() string {
	return "task_queue"
}

// Editable 提交后正文不可再改
func (t *Task) Editable() bool {
	return t.Status != StatusSubmitted && t.Status != StatusVerified
}

type EventType string

const (
	EventSubmitted EventType = "submitted"
)

// TaskEvent 幂等记录，(task_id, event_type)唯一
type TaskEvent struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;uniqueIndex:uk_task_event,priority:1" json:"task_id"`
	EventType EventType `gorm:"size:20;not null;uniqueIndex:uk_task_event,priority:2" json:"event_type"`
	Source    string    `gorm:"size:20" json:"source"` // webhook / pull
	CreatedAt time.Time `json:"created_at"`
}

func TaskEventTableName() string {
	return "task_events"
}
