package files

import (
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/anoixa/photo-album/api/common"
	"github.com/anoixa/photo-album/storage"
	"github.com/anoixa/photo-album/utils"
	"github.com/gin-gonic/gin"
)

const photoPrefix = "photos/"

// Handler 上传文件访问处理器
type Handler struct {
	provider storage.Provider
}

// NewHandler 创建文件处理器
func NewHandler(provider storage.Provider) *Handler {
	return &Handler{provider: provider}
}

// ServeFileHandler 输出 object 模式上传的图片
// 只开放 photos/ 下的路径，KV 文档不对外暴露
func (h *Handler) ServeFileHandler(c *gin.Context) {
	storagePath := strings.TrimPrefix(c.Param("path"), "/")
	if !storage.IsValidStoragePath(storagePath) || !strings.HasPrefix(storagePath, photoPrefix) {
		common.RespondError(c, http.StatusNotFound, "File not found")
		return
	}

	reader, err := h.provider.GetWithContext(c.Request.Context(), storagePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			common.RespondError(c, http.StatusNotFound, "File not found")
			return
		}
		common.RespondInternalError(c, "serve file", err)
		return
	}
	if closer, ok := reader.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	if mimeType := utils.MimeTypeFromExtension(path.Ext(storagePath)); mimeType != "" {
		c.Header("Content-Type", mimeType)
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("X-Content-Type-Options", "nosniff")
	http.ServeContent(c.Writer, c.Request, path.Base(storagePath), time.Time{}, reader)
}
