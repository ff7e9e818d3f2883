package taskserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const requestTimeout = 30 * time.Second

// Client 外部任务分发系统（人工执行池）的HTTP客户端
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

// ExternalTask 推送到任务系统的任务描述
type ExternalTask struct {
	Type          string `json:"type"`
	URL           string `json:"url,omitempty"`
	Comment       string `json:"comment,omitempty"`
	Subreddit     string `json:"subreddit"`
	Title         string `json:"title,omitempty"`
	Body          string `json:"body,omitempty"`
	ExternalID    string `json:"external_id"`
	RedditAccount string `json:"reddit_account,omitempty"`
}

type pushRequest struct {
	Project string         `json:"project"`
	Tasks   []ExternalTask `json:"tasks"`
}

// PushTasks 批量推送，整批成功或整批失败
func (c *Client) PushTasks(ctx context.Context, project string, tasks []ExternalTask) (json.RawMessage, error) {
	payload, err := json.Marshal(pushRequest{Project: project, Tasks: tasks})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/tasks", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "push tasks")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("task server returned %d: %s", resp.StatusCode, string(body))
	}
	return json.RawMessage(body), nil
}

// Submission 任务系统回报的完成记录
type Submission struct {
	ExternalID    string `json:"external_id"`
	ProofURL      string `json:"proof_url"`
	RedditAccount string `json:"reddit_account"`
	Code          string `json:"code"`
	WorkerID      string `json:"worker_id"`
	SubmittedAt   string `json:"submitted_at"`
}

type submissionsResponse struct {
	Submissions []Submission `json:"submissions"`
}

func (c *Client) FetchSubmissions(ctx context.Context) ([]Submission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/submissions", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch submissions")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("task server returned %d", resp.StatusCode)
	}

	var data submissionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	return data.Submissions, nil
}
