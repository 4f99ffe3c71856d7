package photos

import (
	"errors"
	"net/http"

	"github.com/anoixa/photo-album/api/common"
	svcAlbums "github.com/anoixa/photo-album/internal/albums"
	"github.com/gin-gonic/gin"
)

// ViewPhotoHandler 返回照片及其在相册中的前后位置
func (h *Handler) ViewPhotoHandler(c *gin.Context) {
	view, err := h.store.ViewPhoto(c.Request.Context(), c.Param("albumId"), c.Param("photoId"))
	if err != nil {
		if errors.Is(err, svcAlbums.ErrPhotoNotFound) {
			common.RespondError(c, http.StatusNotFound, "Photo not found")
			return
		}
		common.RespondInternalError(c, "view photo", err)
		return
	}

	common.RespondSuccess(c, view)
}
