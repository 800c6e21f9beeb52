// Package core 组装 gin 路由与 http.Server
package core

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/voidovo/imgtoss-sub000/api/common"
	"github.com/voidovo/imgtoss-sub000/api/handler/profiles"
	"github.com/voidovo/imgtoss-sub000/api/handler/records"
	"github.com/voidovo/imgtoss-sub000/api/handler/uploads"
	"github.com/voidovo/imgtoss-sub000/api/middleware"
	"github.com/voidovo/imgtoss-sub000/cache"
	"github.com/voidovo/imgtoss-sub000/cache/conntest"
	"github.com/voidovo/imgtoss-sub000/config"
	"github.com/voidovo/imgtoss-sub000/internal/history"
)

var startTime = time.Now()

// ServerDependencies 服务器依赖项
type ServerDependencies struct {
	DB            *gorm.DB
	CacheProvider cache.Provider
	ProfileStore  *config.ProfileStore
	ProbeCache    *conntest.Cache
	History       *history.Service
}

// setupRouter 组装路由
func setupRouter(deps *ServerDependencies) *gin.Engine {
	cfg := config.Get()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Length", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	router.SetTrustedProxies(nil)
	router.MaxMultipartMemory = int64(cfg.UploadMaxSizeMB) << 20

	apiRateLimiter := middleware.NewSimpleRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst)

	router.GET("/health", func(c *gin.Context) {
		health := gin.H{
			"status": "ok",
			"uptime": time.Since(startTime).Round(time.Second).String(),
			"checks": gin.H{
				"database": checkDatabaseHealth(deps.DB),
				"cache":    checkCacheHealth(deps.CacheProvider),
			},
		}
		httpStatus := http.StatusOK
		for _, checkResult := range health["checks"].(gin.H) {
			if result, ok := checkResult.(string); ok && result != "ok" {
				httpStatus = http.StatusServiceUnavailable
				break
			}
		}
		c.JSON(httpStatus, health)
	})

	uploadHandler := uploads.NewHandler(deps.ProfileStore, deps.ProbeCache, deps.History)
	profileHandler := profiles.NewHandler(deps.ProfileStore)
	recordHandler := records.NewHandler(deps.History)

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(apiRateLimiter.Middleware())
	apiGroup.Use(func(c *gin.Context) { // 所有API禁止缓存
		c.Header("Cache-Control", "no-store")
		c.Next()
	})
	{
		uploadGroup := apiGroup.Group("/uploads")
		{
			uploadGroup.POST("", uploadHandler.UploadImage)        // POST /api/v1/uploads
			uploadGroup.POST("/batch", uploadHandler.UploadImages) // POST /api/v1/uploads/batch
		}

		objectsGroup := apiGroup.Group("/objects")
		{
			objectsGroup.GET("", uploadHandler.ListObjects)          // GET /api/v1/objects?profile=&prefix=
			objectsGroup.DELETE("/:key", uploadHandler.DeleteObject) // DELETE /api/v1/objects/{key}?profile=
		}

		apiGroup.POST("/connection/test", uploadHandler.TestConnection) // POST /api/v1/connection/test?profile=&force=

		profileGroup := apiGroup.Group("/profiles")
		{
			profileGroup.GET("", profileHandler.ListProfiles)           // GET /api/v1/profiles
			profileGroup.POST("", profileHandler.SaveProfile)           // POST /api/v1/profiles
			profileGroup.GET("/:name", profileHandler.GetProfile)       // GET /api/v1/profiles/{name}
			profileGroup.DELETE("/:name", profileHandler.DeleteProfile) // DELETE /api/v1/profiles/{name}
		}

		historyGroup := apiGroup.Group("/history")
		{
			historyGroup.GET("", recordHandler.ListHistory)          // GET /api/v1/history?offset=&limit=
			historyGroup.GET("/:key", recordHandler.GetHistoryByKey) // GET /api/v1/history/{key}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		common.RespondError(c, http.StatusNotFound, "Not found")
	})

	return router
}

// StartServer 创建 http.Server
func StartServer(deps *ServerDependencies) *http.Server {
	cfg := config.Get()
	router := setupRouter(deps)

	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}
}
