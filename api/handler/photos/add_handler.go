package photos

import (
	"errors"
	"net/http"

	"github.com/anoixa/photo-album/api/common"
	svcAlbums "github.com/anoixa/photo-album/internal/albums"
	"github.com/gin-gonic/gin"
)

// AddPhotoRequest 按 URL 添加照片
type AddPhotoRequest struct {
	Title string `json:"title" binding:"max=200"`
	URL   string `json:"url" binding:"required"`
}

// AddPhotoHandler 向相册添加一张已有地址的照片
func (h *Handler) AddPhotoHandler(c *gin.Context) {
	var req AddPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	photo, err := h.store.AddPhoto(c.Request.Context(), c.Param("albumId"), req.Title, req.URL)
	if err != nil {
		if errors.Is(err, svcAlbums.ErrAlbumNotFound) {
			common.RespondError(c, http.StatusNotFound, "Album not found")
			return
		}
		common.RespondInternalError(c, "add photo", err)
		return
	}

	common.Respond(c, http.StatusCreated, "success", "Photo added", photo)
}
