package router

import (
	"context"

	"intern-match-go/internal/api/handler"
	"intern-match-go/internal/config"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, cfg *config.Config, matchHandler *handler.MatchHandler) {
	api := h.Group("/api/v1")

	// 健康检查不走鉴权
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	// 配置了 API Key 时启用请求头鉴权
	if cfg.Server.APIKey != "" {
		api.Use(keyauth.New(
			keyauth.WithKeyLookUp("header:X-API-Key", ""),
			keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
				return key == cfg.Server.APIKey, nil
			}),
			keyauth.WithErrorHandler(func(c context.Context, ctx *app.RequestContext, err error) {
				ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "无效的 API Key"})
				ctx.Abort()
			}),
		))
	}

	match := api.Group("/match")
	match.POST("/evaluate", matchHandler.HandleEvaluateBatch)
	match.POST("/recommend", matchHandler.HandleRecommend)
	match.GET("/evaluations/:batch_id", matchHandler.HandleGetBatchEvaluations)
	match.GET("/batches/:batch_id/report", matchHandler.HandleGetBatchReport)

	skills := api.Group("/skills")
	skills.POST("/extract", matchHandler.HandleExtractSkills)
	skills.POST("/gaps", matchHandler.HandleSkillGaps)
}
