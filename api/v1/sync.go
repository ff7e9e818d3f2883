package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/johnasbury91/reachh/api/middleware"
	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/service/svc"
	service "github.com/johnasbury91/reachh/service/v1"
	types "github.com/johnasbury91/reachh/types/v1"
	"github.com/johnasbury91/reachh/xhttp"
)

func PushTasks(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req types.SyncPushRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			xhttp.Error(ctx, errcode.NewCustomErr("task_ids are required"))
			return
		}

		resp, err := service.PushTasks(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx), req)
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, resp)
	}
}

func PullSubmissions(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		resp, err := service.PullSubmissions(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx))
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, resp)
	}
}
