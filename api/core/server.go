package core

import (
	"net/http"
	"time"

	"github.com/anoixa/photo-album/api/middleware"
	"github.com/anoixa/photo-album/config"
	svcAlbums "github.com/anoixa/photo-album/internal/albums"
	"github.com/anoixa/photo-album/internal/upload"
	"github.com/anoixa/photo-album/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// ServerDependencies 服务器依赖项
type ServerDependencies struct {
	Config   *config.Config
	Store    *svcAlbums.Store
	Uploader *upload.Service
	Files    storage.Provider
}

// 启动gin
func setupRouter(deps *ServerDependencies) (*gin.Engine, func()) {
	cfg := deps.Config
	router := gin.New()

	// 全局中间件
	// 仅在开发版本时启用 gin 日志
	if config.IsDevelopment() {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.BaseURL()},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	_ = router.SetTrustedProxies(nil)

	// 限制上传文件在内存中的大小
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	// 并发限制（100并发，避免内存过载）
	concurrencyLimiter := middleware.NewConcurrencyLimiter(100)
	router.Use(concurrencyLimiter.Middleware())

	// 请求体大小限制（批量上传总限制加上表单开销）
	requestBodyLimit := cfg.MaxBatchBytes() + 1<<20
	router.Use(middleware.MaxBytesReader(requestBodyLimit))

	// 请求ID追踪
	router.Use(middleware.RequestID())

	// 基础监控指标
	router.Use(middleware.Metrics())

	// 速率限制
	apiRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitApiRPS, cfg.RateLimitApiBurst, cfg.RateLimitExpireTime)
	fileRateLimiter := middleware.NewIPRateLimiter(cfg.RateLimitApiRPS*4, cfg.RateLimitApiBurst*4, cfg.RateLimitExpireTime)
	cleanup := func() {
		apiRateLimiter.StopCleanup()
		fileRateLimiter.StopCleanup()
	}

	RegisterRoutes(router, &RouterDependencies{
		Store:           deps.Store,
		Uploader:        deps.Uploader,
		Files:           deps.Files,
		APIRateLimiter:  apiRateLimiter,
		FileRateLimiter: fileRateLimiter,
	})

	return router, cleanup
}

// StartServer 创建 http.Server
func StartServer(deps *ServerDependencies) (*http.Server, func()) {
	cfg := deps.Config
	router, clean := setupRouter(deps)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return srv, clean
}
