package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnasbury91/reachh/api/middleware"
	v1 "github.com/johnasbury91/reachh/api/v1"
	"github.com/johnasbury91/reachh/logger/xzap"
	"github.com/johnasbury91/reachh/service/svc"
)

func NewRouter(svcCtx *svc.ServerCtx) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLog())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-ID"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	api := r.Group("/api/v1")

	// 回调与定时入口走各自的secret校验，不经用户鉴权
	api.POST("/tasks/webhook", v1.TaskWebhook(svcCtx))
	api.POST("/billing/webhook", v1.BillingWebhook(svcCtx))
	api.GET("/cron/verify-tasks", v1.VerifyCron(svcCtx))

	authed := api.Group("", middleware.Auth(svcCtx))
	{
		authed.POST("/tasks", v1.CreateTasks(svcCtx))
		authed.GET("/tasks", v1.ListTasks(svcCtx))
		authed.GET("/tasks/stats", v1.GetTaskStats(svcCtx))
		authed.GET("/tasks/:id", v1.GetTask(svcCtx))
		authed.PATCH("/tasks/:id", v1.UpdateTask(svcCtx))
		authed.DELETE("/tasks/:id", v1.DeleteTask(svcCtx))
		authed.POST("/tasks/queue", v1.QueueTask(svcCtx))

		authed.POST("/tasks/sync", v1.PushTasks(svcCtx))
		authed.GET("/tasks/sync", v1.PullSubmissions(svcCtx))

		authed.GET("/user/credits", v1.GetCredits(svcCtx))
		authed.POST("/user/credits/check", v1.CheckCredits(svcCtx))
		authed.GET("/subscription", v1.GetSubscription(svcCtx))

		authed.GET("/projects", v1.GetActiveProject(svcCtx))
		authed.POST("/projects", v1.CreateProject(svcCtx))
		authed.PATCH("/projects", v1.UpdateProject(svcCtx))

		authed.GET("/opportunities", v1.ListOpportunities(svcCtx))
		authed.POST("/opportunities", v1.AddOpportunity(svcCtx))
		authed.PATCH("/opportunities", v1.UpdateOpportunity(svcCtx))
		authed.POST("/opportunities/promote", v1.PromoteOpportunity(svcCtx))

		authed.POST("/search", v1.SearchOpportunities(svcCtx))
	}

	return r
}

func requestLog() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		traced := xzap.ContextWithTraceID(ctx.Request.Context(), uuid.New().String())
		ctx.Request = ctx.Request.WithContext(traced)
		ctx.Next()
		xzap.WithContext(ctx.Request.Context()).Info("http request",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
