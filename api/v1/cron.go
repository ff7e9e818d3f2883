package v1

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
	service "github.com/johnasbury91/reachh/service/v1"
	types "github.com/johnasbury91/reachh/types/v1"
	"github.com/johnasbury91/reachh/xhttp"
)

func validCronSecret(ctx *gin.Context, secret string) bool {
	if secret == "" {
		return false
	}
	h := ctx.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return false
	}
	token := strings.TrimPrefix(h, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}

// VerifyCron 外部调度器触发的核验批次入口
func VerifyCron(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !validCronSecret(ctx, svcCtx.C.Cron.Secret) {
			xhttp.Error(ctx, errcode.ErrAuth)
			return
		}

		verifier := service.NewVerifierFromCtx(svcCtx)
		result, err := verifier.Run(ctx.Request.Context())
		if err != nil {
			// 抓取整体失败不改任何任务状态，按空tick返回，下轮重试
			xzap.WithContext(ctx.Request.Context()).Error("verify batch", zap.Error(err))
			xhttp.OkJson(ctx, types.VerifyCronResp{Message: "verification skipped, scraper unavailable"})
			return
		}

		msg := "no submitted tasks to verify"
		if result.Total > 0 {
			msg = "verification completed"
		}
		xhttp.OkJson(ctx, types.VerifyCronResp{
			Message:  msg,
			Total:    result.Total,
			Verified: result.Verified,
			Rejected: result.Rejected,
		})
	}
}
