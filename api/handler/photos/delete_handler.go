package photos

import (
	"github.com/anoixa/photo-album/api/common"
	"github.com/gin-gonic/gin"
)

// DeletePhotoHandler 删除照片
func (h *Handler) DeletePhotoHandler(c *gin.Context) {
	if err := h.store.DeletePhoto(c.Request.Context(), c.Param("albumId"), c.Param("photoId")); err != nil {
		common.RespondInternalError(c, "delete photo", err)
		return
	}

	common.RespondSuccessMessage(c, "Photo deleted", nil)
}
