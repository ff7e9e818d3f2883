package project

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// StringList 以JSON文本存储的字符串数组
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.Errorf("unsupported StringList source type %T", value)
	}
}

type Project struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	UserID     string     `gorm:"size:36;not null;index" json:"user_id"`
	Name       string     `gorm:"size:200;not null" json:"name"`
	Keywords   StringList `gorm:"type:text" json:"keywords"`
	Subreddits StringList `gorm:"type:text" json:"subreddits"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func ProjectTableName() string {
	return "projects"
}

type OpportunityStatus string

const (
	OpportunityNew       OpportunityStatus = "new"
	OpportunityQueued    OpportunityStatus = "queued"
	OpportunityRequested OpportunityStatus = "requested"
	OpportunityWriting   OpportunityStatus = "writing"
	OpportunityPosted    OpportunityStatus = "posted"
	OpportunityRejected  OpportunityStatus = "rejected"
)

// Opportunity 通过关键词发现的Reddit帖子，区别于Task
type Opportunity struct {
	ID              string            `gorm:"primaryKey;size:36" json:"id"`
	ProjectID       string            `gorm:"size:36;not null;uniqueIndex:uk_project_reddit,priority:1" json:"project_id"`
	RedditID        string            `gorm:"size:50;not null;uniqueIndex:uk_project_reddit,priority:2" json:"reddit_id"`
	URL             string            `gorm:"size:500" json:"url"`
	Title           string            `gorm:"size:500" json:"title"`
	Body            string            `gorm:"type:text" json:"body"`
	Subreddit       string            `gorm:"size:100" json:"subreddit"`
	Score           int               `json:"score"`
	NumComments     int               `json:"num_comments"`
	RedditCreatedAt *time.Time        `json:"reddit_created_at,omitempty"`
	FoundAt         time.Time         `gorm:"autoCreateTime" json:"found_at"`
	Status          OpportunityStatus `gorm:"size:20;default:new" json:"status"`
	CommentURL      string            `gorm:"size:500" json:"comment_url"`
}

func OpportunityTableName() string {
	return "opportunities"
}
