package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

const requestTimeout = 60 * time.Second

// 抓取平台的run状态
const (
	RunSucceeded = "SUCCEEDED"
	RunFailed    = "FAILED"
)

// Client 第三方抓取平台（actor模式）的HTTP客户端
type Client struct {
	token        string
	baseURL      string
	commentActor string
	searchActor  string
	httpClient   *http.Client
}

func New(token, baseURL, commentActor, searchActor string) *Client {
	return &Client{
		token:        token,
		baseURL:      baseURL,
		commentActor: commentActor,
		searchActor:  searchActor,
		httpClient:   &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.token != ""
}

// Item 抓取结果的一条记录
type Item struct {
	URL      string `json:"url"`
	Body     string `json:"body"`
	Selftext string `json:"selftext"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Score    int    `json:"score"`
	Upvotes  int    `json:"upvotes"`
	Removed  bool   `json:"removed"`
	Deleted  bool   `json:"deleted"`
}

// BodyText 不同actor的正文字段不统一，取第一个非空
func (i Item) BodyText() string {
	if i.Body != "" {
		return i.Body
	}
	if i.Selftext != "" {
		return i.Selftext
	}
	return i.Text
}

// ScoreValue score与upvotes字段二选一
func (i Item) ScoreValue() int {
	if i.Score != 0 {
		return i.Score
	}
	return i.Upvotes
}

type runResponse struct {
	Data struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"data"`
}

type commentRunInput struct {
	URLs        []string `json:"urls"`
	MaxComments int      `json:"maxComments"`
}

// StartCommentScrape 发起proof URL批量抓取，返回runID
func (c *Client) StartCommentScrape(ctx context.Context, urls []string) (string, error) {
	input := commentRunInput{URLs: urls, MaxComments: 1}
	endpoint := fmt.Sprintf("%s/acts/%s/runs?token=%s", c.baseURL, c.commentActor, url.QueryEscape(c.token))

	var out runResponse
	if err := c.postJSON(ctx, endpoint, input, &out); err != nil {
		return "", err
	}
	if out.Data.ID == "" {
		return "", errors.New("scraper run id missing")
	}
	return out.Data.ID, nil
}

func (c *Client) GetRunStatus(ctx context.Context, runID string) (string, error) {
	endpoint := fmt.Sprintf("%s/actor-runs/%s?token=%s", c.baseURL, runID, url.QueryEscape(c.token))
	var out runResponse
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return "", err
	}
	return out.Data.Status, nil
}

func (c *Client) GetRunItems(ctx context.Context, runID string) ([]Item, error) {
	endpoint := fmt.Sprintf("%s/actor-runs/%s/dataset/items?token=%s", c.baseURL, runID, url.QueryEscape(c.token))
	var items []Item
	if err := c.getJSON(ctx, endpoint, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SearchItem 搜索actor返回的帖子
type SearchItem struct {
	ID               string `json:"id"`
	ParsedID         string `json:"parsedId"`
	DataType         string `json:"dataType"`
	URL              string `json:"url"`
	Title            string `json:"title"`
	Body             string `json:"body"`
	CommunityName    string `json:"communityName"`
	UpVotes          int    `json:"upVotes"`
	NumberOfComments int    `json:"numberOfComments"`
	CreatedAt        string `json:"createdAt"`
}

type searchRunInput struct {
	Searches      []string `json:"searches"`
	Sort          string   `json:"sort"`
	Time          string   `json:"time"`
	MaxItems      int      `json:"maxItems"`
	SkipComments  bool     `json:"skipComments"`
	SkipCommunity bool     `json:"skipCommunity"`
	SkipUserPosts bool     `json:"skipUserPosts"`
	SearchType    string   `json:"searchType"`
}

// SearchPosts 同步搜索接口，直接返回数据集
func (c *Client) SearchPosts(ctx context.Context, queries []string, maxItems int) ([]SearchItem, error) {
	input := searchRunInput{
		Searches:      queries,
		Sort:          "relevance",
		Time:          "month",
		MaxItems:      maxItems,
		SkipComments:  true,
		SkipCommunity: true,
		SkipUserPosts: true,
		SearchType:    "posts",
	}
	endpoint := fmt.Sprintf("%s/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, c.searchActor, url.QueryEscape(c.token))

	var items []SearchItem
	if err := c.postJSON(ctx, endpoint, input, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "scraper request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("scraper returned %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
