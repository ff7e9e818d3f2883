package service

import (
	"context"
	"strings"

	"github.com/johnasbury91/reachh/stores/xkv"
)

const accountStatsKeyPrefix = "account:stats:"

// redisAccountStats 以redis hash累计账号完成数
type redisAccountStats struct {
	kv *xkv.Store
}

func NewAccountStats(kv *xkv.Store) AccountStats {
	if kv == nil {
		return noopAccountStats{}
	}
	return &redisAccountStats{kv: kv}
}

func (r *redisAccountStats) IncrVerified(ctx context.Context, account string) error {
	key := accountStatsKeyPrefix + strings.ToLower(account)
	return r.kv.HIncrBy(ctx, key, "verified_tasks", 1)
}

type noopAccountStats struct{}

func (noopAccountStats) IncrVerified(context.Context, string) error { return nil }
