package types

import "github.com/johnasbury91/reachh/stores/gdb/project"

type CreateProjectRequest struct {
	Name       string   `json:"name" binding:"required,max=200"`
	Keywords   []string `json:"keywords" binding:"required,min=1"`
	Subreddits []string `json:"subreddits"`
}

type UpdateProjectRequest struct {
	ID         string    `json:"id" binding:"required"`
	Name       *string   `json:"name"`
	Keywords   *[]string `json:"keywords"`
	Subreddits *[]string `json:"subreddits"`
}

type ProjectResp struct {
	Project *project.Project `json:"project"`
}

// OpportunityPayload 搜索结果中的一条机会
type OpportunityPayload struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Subreddit   string `json:"subreddit"`
	Score       int    `json:"score"`
	NumComments int    `json:"numComments"`
	CreatedAt   string `json:"createdAt"`
}

type AddOpportunityRequest struct {
	ProjectID   string             `json:"projectId" binding:"required"`
	Opportunity OpportunityPayload `json:"opportunity" binding:"required"`
}

type UpdateOpportunityRequest struct {
	ID         string `json:"id" binding:"required"`
	Status     string `json:"status" binding:"required,oneof=new queued requested writing posted rejected"`
	CommentURL string `json:"comment_url"`
}

// PromoteOpportunityRequest 把机会转成排队中的评论任务
type PromoteOpportunityRequest struct {
	OpportunityID string `json:"opportunityId" binding:"required"`
	Body          string `json:"body" binding:"required"`
	RedditAccount string `json:"reddit_account"`
}

type OpportunityResp struct {
	Opportunity *project.Opportunity `json:"opportunity"`
}

type OpportunityListResp struct {
	Opportunities []project.Opportunity `json:"opportunities"`
}
