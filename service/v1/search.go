package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/johnasbury91/reachh/clients/scraper"
	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
	types "github.com/johnasbury91/reachh/types/v1"
)

const defaultMaxResults = 25

// SearchOpportunities 按关键词搜索近期帖子。多抓一倍再本地过滤，
// 搜索actor的相关度召回偏松。
func SearchOpportunities(ctx context.Context, s *svc.ServerCtx, req types.SearchRequest) (*types.SearchResp, error) {
	if !s.Scraper.Configured() {
		return nil, errcode.NewErr(errcode.CodeUpstream, "scraper not configured")
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	queries := make([]string, 0, len(req.Keywords))
	for _, kw := range req.Keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			queries = append(queries, `"`+kw+`"`)
		}
	}
	if len(queries) == 0 {
		return nil, errcode.NewCustomErr("keywords are required")
	}

	items, err := s.Scraper.SearchPosts(ctx, queries, maxResults*2)
	if err != nil {
		xzap.WithContext(ctx).Error("search posts", zap.Error(err))
		return nil, errcode.NewErr(errcode.CodeUpstream, "search failed")
	}

	subreddits := normalizeSubreddits(req.Subreddits)

	out := make([]types.OpportunityPayload, 0, maxResults)
	for _, item := range items {
		if item.DataType != "post" {
			continue
		}
		if !matchesKeywords(item, req.Keywords) {
			continue
		}
		if len(subreddits) > 0 {
			if _, ok := subreddits[normalizeSubreddit(item.CommunityName)]; !ok {
				continue
			}
		}

		id := item.ParsedID
		if id == "" {
			id = item.ID
		}
		out = append(out, types.OpportunityPayload{
			ID:          id,
			URL:         item.URL,
			Title:       item.Title,
			Body:        item.Body,
			Subreddit:   normalizeSubreddit(item.CommunityName),
			Score:       item.UpVotes,
			NumComments: item.NumberOfComments,
			CreatedAt:   item.CreatedAt,
		})
		if len(out) >= maxResults {
			break
		}
	}

	return &types.SearchResp{Opportunities: out}, nil
}

// matchesKeywords 标题加正文需覆盖任一关键词的全部单词
func matchesKeywords(item scraper.SearchItem, keywords []string) bool {
	text := strings.ToLower(item.Title + " " + item.Body)
	for _, kw := range keywords {
		words := strings.Fields(strings.ToLower(kw))
		if len(words) == 0 {
			continue
		}
		all := true
		for _, w := range words {
			if !strings.Contains(text, w) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// normalizeSubreddit 去掉r/前缀并统一小写
func normalizeSubreddit(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	name = strings.TrimPrefix(name, "/r/")
	name = strings.TrimPrefix(name, "r/")
	return strings.Trim(name, "/")
}

func normalizeSubreddits(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if norm := normalizeSubreddit(n); norm != "" {
			set[norm] = struct{}{}
		}
	}
	return set
}
