package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
	"github.com/johnasbury91/reachh/xhttp"
)

const (
	userIDKey       = "auth_user_id"
	authCacheKeyNS  = "auth:token:"
	authCacheTTL    = 5 * time.Minute
	providerTimeout = 10 * time.Second
)

// CurrentUser 取鉴权中间件写入的用户ID
func CurrentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// Auth bearer令牌换用户ID。配置了provider时调用其userinfo接口，
// 结果经redis短缓存；未配置时退化为X-User-ID透传，仅限内网部署。
func Auth(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	client := &http.Client{Timeout: providerTimeout}

	return func(c *gin.Context) {
		if svcCtx.C.Auth.ProviderURL == "" {
			userID := c.GetHeader("X-User-ID")
			if userID == "" {
				xhttp.Error(c, errcode.ErrAuth)
				c.Abort()
				return
			}
			c.Set(userIDKey, userID)
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			xhttp.Error(c, errcode.ErrAuth)
			c.Abort()
			return
		}

		userID, err := resolveToken(c.Request.Context(), svcCtx, client, token)
		if err != nil || userID == "" {
			if err != nil {
				xzap.WithContext(c.Request.Context()).Warn("resolve token", zap.Error(err))
			}
			xhttp.Error(c, errcode.ErrAuth)
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

type userInfo struct {
	Sub string `json:"sub"`
	ID  string `json:"id"`
}

func (u userInfo) userID() string {
	if u.Sub != "" {
		return u.Sub
	}
	return u.ID
}

func resolveToken(ctx context.Context, svcCtx *svc.ServerCtx, client *http.Client, token string) (string, error) {
	cacheKey := authCacheKeyNS + token
	if svcCtx.KV != nil {
		if cached, err := svcCtx.KV.Get(ctx, cacheKey); err == nil && cached != "" {
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(svcCtx.C.Auth.ProviderURL, "/")+"/userinfo", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", err
	}
	userID := info.userID()

	if userID != "" && svcCtx.KV != nil {
		if err := svcCtx.KV.Set(ctx, cacheKey, userID, authCacheTTL); err != nil {
			xzap.WithContext(ctx).Warn("cache auth token", zap.Error(err))
		}
	}
	return userID, nil
}
