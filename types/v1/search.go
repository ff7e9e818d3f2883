package types

type SearchRequest struct {
	Keywords   []string `json:"keywords" binding:"required,min=1"`
	Subreddits []string `json:"subreddits"`
	MaxResults int      `json:"maxResults"`
}

type SearchResp struct {
	Opportunities []OpportunityPayload `json:"opportunities"`
}
