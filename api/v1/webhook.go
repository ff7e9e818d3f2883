package v1

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/johnasbury91/reachh/clients/taskserver"
	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
	service "github.com/johnasbury91/reachh/service/v1"
	types "github.com/johnasbury91/reachh/types/v1"
	"github.com/johnasbury91/reachh/xhttp"
)

const signatureHeader = "x-webhook-signature"

// validSignature 原始请求体的HMAC-SHA256十六进制摘要，常量时间比较。
// 未配置secret时跳过校验。
func validSignature(body []byte, secret, signature string) bool {
	if secret == "" {
		return true
	}
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// TaskWebhook 任务系统的完成回调。签名不过直接401，
// 重复投递幂等返回received。
func TaskWebhook(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		body, err := ctx.GetRawData()
		if err != nil {
			xhttp.Error(ctx, errcode.ErrValidation)
			return
		}

		if !validSignature(body, svcCtx.C.TaskServer.WebhookSecret, ctx.GetHeader(signatureHeader)) {
			xhttp.Error(ctx, errcode.NewErr(errcode.CodeAuth, "invalid signature"))
			return
		}

		var sub taskserver.Submission
		if err := json.Unmarshal(body, &sub); err != nil {
			xhttp.Error(ctx, errcode.NewCustomErr("invalid payload"))
			return
		}

		applied, err := service.ApplySubmission(ctx.Request.Context(), svcCtx, sub, service.SubmissionSourceWebhook)
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}

		resp := types.WebhookResp{Received: true}
		if !applied {
			resp.Message = "already processed"
		}
		xzap.WithContext(ctx.Request.Context()).Info("webhook received",
			zap.String("external_id", sub.ExternalID), zap.Bool("applied", applied))
		xhttp.OkJson(ctx, resp)
	}
}
