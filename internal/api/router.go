package api

import (
	"fmt"
	"time"

	"pfc-analyzer/internal/api/handlers/health"
	mealHandler "pfc-analyzer/internal/api/handlers/meal"
	"pfc-analyzer/internal/api/middleware"
	"pfc-analyzer/internal/core/ai/cache"
	"pfc-analyzer/internal/core/ai/extract"
	"pfc-analyzer/internal/core/analyzer"
	"pfc-analyzer/internal/infrastructure/config"
	"pfc-analyzer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 請求體大小限制 (1MB)，純文字分析用不到更大的請求
const maxBodySize = 1 << 20

// SetupRouter 設置路由並組裝引擎
func SetupRouter(cfg *config.Config, cacheManager *cache.Manager) (*gin.Engine, *analyzer.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("model", cfg.OpenRouter.Model),
		zap.Duration("batch_flush_interval", cfg.Batch.FlushInterval),
	)

	// 初始化萃取客戶端與引擎
	extractClient := extract.NewClient(cfg)
	engine := analyzer.NewEngine(cfg, extractClient, cacheManager)
	if engine == nil {
		common.LogError("Failed to initialize analysis engine")
		return nil, nil, fmt.Errorf("failed to initialize analysis engine")
	}

	// 設定注入
	router.Use(func(c *gin.Context) {
		c.Set("config", cfg)
		c.Next()
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		handler := mealHandler.NewHandler(engine)

		mealGroup := api.Group("/meal")
		{
			// 單筆分析
			mealGroup.POST("/analyze", handler.HandleAnalyze)

			// 批量分析（歷史補算入口）
			mealGroup.POST("/analyze/bulk", handler.HandleBulk)

			// 統計資訊
			mealGroup.GET("/stats", handler.HandleStats)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, engine, nil
}
