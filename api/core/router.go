package core

import (
	"net/http"

	"github.com/anoixa/photo-album/api/common"
	handlerAlbums "github.com/anoixa/photo-album/api/handler/albums"
	handlerFiles "github.com/anoixa/photo-album/api/handler/files"
	handlerPhotos "github.com/anoixa/photo-album/api/handler/photos"
	"github.com/anoixa/photo-album/api/middleware"
	"github.com/anoixa/photo-album/config"
	svcAlbums "github.com/anoixa/photo-album/internal/albums"
	"github.com/anoixa/photo-album/internal/upload"
	"github.com/anoixa/photo-album/storage"
	"github.com/gin-gonic/gin"
)

// RouterDependencies 路由注册依赖
type RouterDependencies struct {
	Store           *svcAlbums.Store
	Uploader        *upload.Service
	Files           storage.Provider
	APIRateLimiter  *middleware.IPRateLimiter
	FileRateLimiter *middleware.IPRateLimiter
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, deps *RouterDependencies) {
	// 基础路由
	registerBasicRoutes(router, deps)

	// 公共文件访问
	registerPublicRoutes(router, deps)

	// API 路由
	registerAPIRoutes(router, deps)
}

// registerBasicRoutes 注册基础路由
func registerBasicRoutes(router *gin.Engine, deps *RouterDependencies) {
	healthHandler := NewHealthHandler(deps.Store, deps.Files)
	router.GET("/health", healthHandler.Handle)

	router.GET("/version", func(context *gin.Context) {
		common.RespondSuccess(context, gin.H{
			"version": config.Version,
			"commit":  config.CommitHash,
		})
	})

	router.GET("/metrics", func(context *gin.Context) {
		context.JSON(http.StatusOK, middleware.GetMetrics())
	})
}

// registerPublicRoutes 注册 object 模式上传文件的访问路由
func registerPublicRoutes(router *gin.Engine, deps *RouterDependencies) {
	if deps.Files == nil {
		return
	}
	fileHandler := handlerFiles.NewHandler(deps.Files)

	filesGroup := router.Group("/files")
	filesGroup.Use(deps.FileRateLimiter.Middleware())
	{
		filesGroup.GET("/*path", fileHandler.ServeFileHandler) // GET /files/photos/{yyyy}/{mm}/{dd}/{name}
	}
}

// registerAPIRoutes 注册 API 路由
func registerAPIRoutes(router *gin.Engine, deps *RouterDependencies) {
	albumHandler := handlerAlbums.NewHandler(deps.Store)
	photoHandler := handlerPhotos.NewHandler(deps.Store, deps.Uploader)

	apiGroup := router.Group("/api")
	apiGroup.Use(func(context *gin.Context) { // 所有API禁止缓存
		context.Header("Cache-Control", "no-store")
		context.Next()
	})
	{
		v1 := apiGroup.Group("/v1")
		v1.Use(deps.APIRateLimiter.Middleware())
		{
			// Albums
			albumsGroup := v1.Group("/albums")
			{
				albumsGroup.GET("", albumHandler.ListAlbumsHandler)              // GET /api/v1/albums
				albumsGroup.POST("", albumHandler.CreateAlbumHandler)            // POST /api/v1/albums
				albumsGroup.GET("/:albumId", albumHandler.GetAlbumDetailHandler) // GET /api/v1/albums/{albumId}
				albumsGroup.PATCH("/:albumId", albumHandler.UpdateAlbumHandler)  // PATCH /api/v1/albums/{albumId}
				albumsGroup.DELETE("/:albumId", albumHandler.DeleteAlbumHandler) // DELETE /api/v1/albums/{albumId}
			}

			// Photos
			photosGroup := v1.Group("/albums/:albumId/photos")
			{
				photosGroup.GET("", photoHandler.ListPhotosHandler)              // GET /api/v1/albums/{albumId}/photos?q=
				photosGroup.POST("", photoHandler.AddPhotoHandler)               // POST /api/v1/albums/{albumId}/photos
				photosGroup.POST("/upload", photoHandler.UploadPhotosHandler)    // POST /api/v1/albums/{albumId}/photos/upload
				photosGroup.GET("/:photoId", photoHandler.ViewPhotoHandler)      // GET /api/v1/albums/{albumId}/photos/{photoId}
				photosGroup.PATCH("/:photoId", photoHandler.UpdatePhotoHandler)  // PATCH /api/v1/albums/{albumId}/photos/{photoId}
				photosGroup.DELETE("/:photoId", photoHandler.DeletePhotoHandler) // DELETE /api/v1/albums/{albumId}/photos/{photoId}
			}
		}
	}
}
