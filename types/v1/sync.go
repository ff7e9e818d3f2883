package types

import "encoding/json"

type SyncPushRequest struct {
	TaskIDs     []string `json:"taskIds" binding:"required,min=1"`
	ProjectName string   `json:"projectName"`
}

type SyncPushResp struct {
	Success            bool            `json:"success"`
	Synced             int             `json:"synced"`
	TaskServerResponse json.RawMessage `json:"taskServerResponse"`
}

type SyncPullResp struct {
	Success bool `json:"success"`
	Updated int  `json:"updated"`
}

type WebhookResp struct {
	Received bool   `json:"received"`
	Message  string `json:"message,omitempty"`
}

type VerifyCronResp struct {
	Message  string `json:"message"`
	Total    int    `json:"total"`
	Verified int    `json:"verified"`
	Rejected int    `json:"rejected"`
}
