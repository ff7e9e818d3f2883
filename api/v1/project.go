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

func GetActiveProject(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p, err := service.GetActiveProject(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx))
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.ProjectResp{Project: p})
	}
}

func CreateProject(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req types.CreateProjectRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			xhttp.Error(ctx, errcode.NewCustomErr("name and keywords are required"))
			return
		}

		p, err := service.CreateProject(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx), req)
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.ProjectResp{Project: p})
	}
}

func UpdateProject(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req types.UpdateProjectRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			xhttp.Error(ctx, errcode.ErrValidation)
			return
		}

		p, err := service.UpdateProject(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx), req)
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.ProjectResp{Project: p})
	}
}

func ListOpportunities(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		projectID := ctx.Query("projectId")
		if projectID == "" {
			xhttp.Error(ctx, errcode.NewCustomErr("projectId is required"))
			return
		}

		opps, err := service.ListOpportunities(ctx.Request.Context(), svcCtx,
			middleware.CurrentUser(ctx), projectID, ctx.Query("status"))
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.OpportunityListResp{Opportunities: opps})
	}
}

func AddOpportunity(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req types.AddOpportunityRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			xhttp.Error(ctx, errcode.ErrValidation)
			return
		}

		o, err := service.AddOpportunity(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx), req)
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.OpportunityResp{Opportunity: o})
	}
}

func UpdateOpportunity(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req types.UpdateOpportunityRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			xhttp.Error(ctx, errcode.ErrValidation)
			return
		}

		o, err := service.UpdateOpportunity(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx), req)
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.OpportunityResp{Opportunity: o})
	}
}

func PromoteOpportunity(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req types.PromoteOpportunityRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			xhttp.Error(ctx, errcode.ErrValidation)
			return
		}

		t, err := service.PromoteOpportunity(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx), req)
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.TaskResp{Task: t})
	}
}
