package photos

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anoixa/photo-album/api/common"
	svcAlbums "github.com/anoixa/photo-album/internal/albums"
	"github.com/anoixa/photo-album/internal/upload"
	"github.com/gin-gonic/gin"
)

// UploadResponse 批量上传响应，Results 与请求中的文件顺序一致
type UploadResponse struct {
	Results   []*upload.Result `json:"results"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
}

// UploadPhotosHandler 批量上传图片到相册
// @Summary      Upload photos
// @Description  Upload one or more images; every file becomes its own photo
// @Tags         photos
// @Accept       multipart/form-data
// @Produce      json
// @Param        albumId  path      string  true  "Album ID"
// @Param        files[]  formData  file    true  "Image files"
// @Success      200      {object}  common.Response{data=UploadResponse}
// @Failure      400      {object}  common.Response  "No files"
// @Failure      404      {object}  common.Response  "Album not found"
// @Failure      413      {object}  common.Response  "Too large"
// @Router       /albums/{albumId}/photos/upload [post]
func (h *Handler) UploadPhotosHandler(c *gin.Context) {
	if h.uploader == nil {
		common.RespondError(c, http.StatusServiceUnavailable, "Upload is not configured")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var files []upload.File
	for _, field := range []string{"files[]", "files"} {
		for _, fh := range form.File[field] {
			files = append(files, upload.FromFileHeader(fh))
		}
	}

	results, err := h.uploader.UploadBatch(c.Request.Context(), c.Param("albumId"), files)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrNoFiles):
			common.RespondError(c, http.StatusBadRequest, "No files uploaded")
		case errors.Is(err, svcAlbums.ErrAlbumNotFound):
			common.RespondError(c, http.StatusNotFound, "Album not found")
		case errors.Is(err, upload.ErrBatchTooLarge):
			common.RespondError(c, http.StatusRequestEntityTooLarge, err.Error())
		default:
			common.RespondInternalError(c, "upload photos", err)
		}
		return
	}

	resp := UploadResponse{Results: results}
	for _, r := range results {
		if r.Err() == nil {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	common.RespondSuccessMessage(c, fmt.Sprintf("Uploaded %d of %d files", resp.Succeeded, len(results)), resp)
}
