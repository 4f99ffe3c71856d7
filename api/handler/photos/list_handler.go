package photos

import (
	"github.com/anoixa/photo-album/api/common"
	svcAlbums "github.com/anoixa/photo-album/internal/albums"
	"github.com/gin-gonic/gin"
)

// ListPhotosResponse 照片列表响应
type ListPhotosResponse struct {
	Photos []svcAlbums.Photo `json:"photos"`
	Total  int               `json:"total"`
	Query  string            `json:"query,omitempty"`
}

// ListPhotosHandler 获取相册内照片，q 参数按标题过滤
// @Summary      List photos of an album
// @Tags         photos
// @Produce      json
// @Param        albumId  path      string  true   "Album ID"
// @Param        q        query     string  false  "Case-insensitive title filter"
// @Success      200      {object}  common.Response{data=ListPhotosResponse}
// @Failure      500      {object}  common.Response  "Internal server error"
// @Router       /albums/{albumId}/photos [get]
func (h *Handler) ListPhotosHandler(c *gin.Context) {
	query := c.Query("q")

	photos, err := h.store.SearchPhotos(c.Request.Context(), c.Param("albumId"), query)
	if err != nil {
		common.RespondInternalError(c, "list photos", err)
		return
	}

	common.RespondSuccess(c, ListPhotosResponse{
		Photos: photos,
		Total:  len(photos),
		Query:  query,
	})
}
