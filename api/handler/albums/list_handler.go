package albums

import (
	"github.com/anoixa/photo-album/api/common"
	svcAlbums "github.com/anoixa/photo-album/internal/albums"
	"github.com/gin-gonic/gin"
)

// ListAlbumsResponse 相册列表响应
type ListAlbumsResponse struct {
	Albums []svcAlbums.Album `json:"albums"`
	Total  int               `json:"total"`
}

// ListAlbumsHandler 获取相册列表
// @Summary      List albums
// @Description  List all albums in insertion order
// @Tags         albums
// @Produce      json
// @Success      200  {object}  common.Response{data=ListAlbumsResponse}
// @Failure      500  {object}  common.Response  "Internal server error"
// @Router       /albums [get]
func (h *Handler) ListAlbumsHandler(c *gin.Context) {
	albums, err := h.store.ListAlbums(c.Request.Context())
	if err != nil {
		common.RespondInternalError(c, "list albums", err)
		return
	}

	common.RespondSuccess(c, ListAlbumsResponse{
		Albums: albums,
		Total:  len(albums),
	})
}
