package albums

import (
	"errors"
	"net/http"

	"github.com/anoixa/photo-album/api/common"
	svcAlbums "github.com/anoixa/photo-album/internal/albums"
	"github.com/gin-gonic/gin"
)

// GetAlbumDetailHandler 获取相册详情
func (h *Handler) GetAlbumDetailHandler(c *gin.Context) {
	album, err := h.store.GetAlbum(c.Request.Context(), c.Param("albumId"))
	if err != nil {
		if errors.Is(err, svcAlbums.ErrAlbumNotFound) {
			common.RespondError(c, http.StatusNotFound, "Album not found")
			return
		}
		common.RespondInternalError(c, "get album", err)
		return
	}

	common.RespondSuccess(c, album)
}
