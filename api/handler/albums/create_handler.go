package albums

import (
	"errors"
	"io"
	"net/http"

	"github.com/anoixa/photo-album/api/common"
	"github.com/gin-gonic/gin"
)

type createAlbumRequest struct {
	Title string `json:"title" binding:"max=100"`
}

// CreateAlbumHandler 创建相册，请求体可省略
func (h *Handler) CreateAlbumHandler(c *gin.Context) {
	var req createAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	album, err := h.store.CreateAlbum(c.Request.Context(), req.Title)
	if err != nil {
		common.RespondInternalError(c, "create album", err)
		return
	}

	common.Respond(c, http.StatusCreated, "success", "Album created", album)
}
