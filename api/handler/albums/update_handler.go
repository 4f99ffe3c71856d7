package albums

import (
	"errors"
	"net/http"

	"github.com/anoixa/photo-album/api/common"
	svcAlbums "github.com/anoixa/photo-album/internal/albums"
	"github.com/anoixa/photo-album/utils"
	"github.com/gin-gonic/gin"
)

// UpdateAlbumRequest 更新相册请求
type UpdateAlbumRequest struct {
	Title string `json:"title" binding:"max=100"`
}

// UpdateAlbumHandler 重命名相册
// 空标题与不存在的相册都不报错，返回当前状态
// @Summary      Rename album
// @Tags         albums
// @Accept       json
// @Produce      json
// @Param        albumId  path      string              true  "Album ID"
// @Param        request  body      UpdateAlbumRequest  true  "New title"
// @Success      200      {object}  common.Response{data=svcAlbums.Album}
// @Failure      400      {object}  common.Response  "Invalid request"
// @Failure      500      {object}  common.Response  "Internal server error"
// @Router       /albums/{albumId} [patch]
func (h *Handler) UpdateAlbumHandler(c *gin.Context) {
	albumID := c.Param("albumId")

	var req UpdateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	if err := h.store.RenameAlbum(ctx, albumID, req.Title); err != nil {
		common.RespondInternalError(c, "rename album", err)
		return
	}
	utils.LogIfDevf("[Albums] Rename %s -> %q", albumID, utils.SanitizeLogTitle(req.Title))

	album, err := h.store.GetAlbum(ctx, albumID)
	if err != nil {
		if errors.Is(err, svcAlbums.ErrAlbumNotFound) {
			common.RespondSuccess(c, nil)
			return
		}
		common.RespondInternalError(c, "get album", err)
		return
	}
	common.RespondSuccess(c, album)
}
