package v1

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/johnasbury91/reachh/api/middleware"
	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/service/svc"
	service "github.com/johnasbury91/reachh/service/v1"
	types "github.com/johnasbury91/reachh/types/v1"
	"github.com/johnasbury91/reachh/xhttp"
)

func GetCredits(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		resp, err := service.GetCredits(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx))
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, resp)
	}
}

func CheckCredits(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		resp, err := service.CheckCredits(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx))
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, resp)
	}
}

func GetSubscription(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		resp, err := service.GetSubscription(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx))
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, resp)
	}
}

// BillingWebhook 支付平台回调，签名机制与任务回调一致
func BillingWebhook(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		body, err := ctx.GetRawData()
		if err != nil {
			xhttp.Error(ctx, errcode.ErrValidation)
			return
		}

		if !validSignature(body, svcCtx.C.Billing.WebhookSecret, ctx.GetHeader(signatureHeader)) {
			xhttp.Error(ctx, errcode.NewErr(errcode.CodeAuth, "invalid signature"))
			return
		}

		var ev types.BillingEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			xhttp.Error(ctx, errcode.NewCustomErr("invalid payload"))
			return
		}

		if err := service.HandleBillingEvent(ctx.Request.Context(), svcCtx, ev); err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.BillingWebhookResp{Received: true})
	}
}
