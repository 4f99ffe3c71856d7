package albums

import (
	"github.com/anoixa/photo-album/api/common"
	"github.com/gin-gonic/gin"
)

// DeleteAlbumHandler 删除相册及其照片，相册不存在时同样返回成功
func (h *Handler) DeleteAlbumHandler(c *gin.Context) {
	if err := h.store.DeleteAlbum(c.Request.Context(), c.Param("albumId")); err != nil {
		common.RespondInternalError(c, "delete album", err)
		return
	}

	common.RespondSuccessMessage(c, "Album deleted", nil)
}
