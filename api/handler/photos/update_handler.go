package photos

import (
	"net/http"

	"github.com/anoixa/photo-album/api/common"
	"github.com/gin-gonic/gin"
)

// UpdatePhotoRequest 更新照片请求
type UpdatePhotoRequest struct {
	Title string `json:"title" binding:"max=200"`
}

// UpdatePhotoHandler 重命名照片
func (h *Handler) UpdatePhotoHandler(c *gin.Context) {
	var req UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.RenamePhoto(c.Request.Context(), c.Param("albumId"), c.Param("photoId"), req.Title); err != nil {
		common.RespondInternalError(c, "rename photo", err)
		return
	}

	common.RespondSuccessMessage(c, "Photo updated", nil)
}
