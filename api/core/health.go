package core

import (
	"context"
	"net/http"
	"time"

	"github.com/anoixa/photo-album/config"
	svcAlbums "github.com/anoixa/photo-album/internal/albums"
	"github.com/anoixa/photo-album/storage"
	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 3 * time.Second

// HealthHandler 健康检查处理器
type HealthHandler struct {
	store *svcAlbums.Store
	files storage.Provider
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(store *svcAlbums.Store, files storage.Provider) *HealthHandler {
	return &HealthHandler{store: store, files: files}
}

// Handle 检查相册存储与文件存储，任一不可用时返回 503
func (h *HealthHandler) Handle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	checks := gin.H{
		"store":   checkStoreHealth(ctx, h.store),
		"storage": checkStorageHealth(ctx, h.files),
	}
	health := gin.H{
		"status":  "ok",
		"uptime":  time.Since(startTime).Round(time.Second).String(),
		"version": config.Version,
		"checks":  checks,
	}
	if h.store != nil {
		health["backend"] = h.store.Backend()
	}

	httpStatus := http.StatusOK
	for _, checkResult := range checks {
		if result, ok := checkResult.(string); ok && result != "ok" {
			httpStatus = http.StatusServiceUnavailable
			health["status"] = "degraded"
			break
		}
	}
	c.JSON(httpStatus, health)
}

func checkStoreHealth(ctx context.Context, store *svcAlbums.Store) string {
	if store == nil {
		return "not initialized"
	}
	if _, err := store.ListAlbums(ctx); err != nil {
		return "unavailable: " + err.Error()
	}
	return "ok"
}

func checkStorageHealth(ctx context.Context, provider storage.Provider) string {
	if provider == nil {
		return "not initialized"
	}
	if err := provider.Health(ctx); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
