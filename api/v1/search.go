package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/service/svc"
	service "github.com/johnasbury91/reachh/service/v1"
	types "github.com/johnasbury91/reachh/types/v1"
	"github.com/johnasbury91/reachh/xhttp"
)

func SearchOpportunities(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req types.SearchRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			xhttp.Error(ctx, errcode.NewCustomErr("keywords are required"))
			return
		}

		resp, err := service.SearchOpportunities(ctx.Request.Context(), svcCtx, req)
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, resp)
	}
}
