package v1

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/johnasbury91/reachh/api/middleware"
	"github.com/johnasbury91/reachh/errcode"
	"github.com/johnasbury91/reachh/kit/validator"
	"github.com/johnasbury91/reachh/service/svc"
	service "github.com/johnasbury91/reachh/service/v1"
	types "github.com/johnasbury91/reachh/types/v1"
	"github.com/johnasbury91/reachh/xhttp"
)

// CreateTasks 请求体兼容单对象与数组两种形态
func CreateTasks(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, err := ctx.GetRawData()
		if err != nil {
			xhttp.Error(ctx, errcode.ErrValidation)
			return
		}

		var reqs []types.CreateTaskRequest
		if err := json.Unmarshal(raw, &reqs); err != nil {
			var single types.CreateTaskRequest
			if err := json.Unmarshal(raw, &single); err != nil {
				xhttp.Error(ctx, errcode.ErrValidation)
				return
			}
			reqs = []types.CreateTaskRequest{single}
		}
		if len(reqs) == 0 {
			xhttp.Error(ctx, errcode.NewCustomErr("at least one task is required"))
			return
		}
		// 数组形态不经过gin绑定，tag校验单独补上
		for _, req := range reqs {
			if err := validator.Verify(req); err != nil {
				xhttp.Error(ctx, errcode.ErrValidation)
				return
			}
		}

		tasks, err := service.CreateTasks(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx), reqs)
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.TaskListResp{Tasks: tasks, Total: int64(len(tasks))})
	}
}

func ListTasks(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		limit, _ := strconv.Atoi(ctx.Query("limit"))
		offset, _ := strconv.Atoi(ctx.Query("offset"))

		resp, err := service.ListTasks(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx),
			ctx.Query("status"), ctx.Query("type"), limit, offset)
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, resp)
	}
}

func GetTask(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		t, err := service.GetTask(ctx.Request.Context(), svcCtx, ctx.Param("id"), middleware.CurrentUser(ctx))
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.TaskResp{Task: t})
	}
}

func UpdateTask(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req types.UpdateTaskRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			xhttp.Error(ctx, errcode.ErrValidation)
			return
		}

		t, err := service.UpdateTask(ctx.Request.Context(), svcCtx, ctx.Param("id"), middleware.CurrentUser(ctx), req)
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.TaskResp{Task: t})
	}
}

func DeleteTask(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if err := service.DeleteTask(ctx.Request.Context(), svcCtx, ctx.Param("id"), middleware.CurrentUser(ctx)); err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.DeleteTaskResp{Success: true})
	}
}

func GetTaskStats(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		stats, err := service.GetTaskStats(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx))
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.TaskStatsResp{Stats: *stats})
	}
}

func QueueTask(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req types.QueueTaskRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			xhttp.Error(ctx, errcode.ErrValidation)
			return
		}

		t, err := service.QueueTask(ctx.Request.Context(), svcCtx, middleware.CurrentUser(ctx), req)
		if err != nil {
			xhttp.Error(ctx, err)
			return
		}
		xhttp.OkJson(ctx, types.TaskResp{Task: t})
	}
}
