package photos

import (
	svcAlbums "github.com/anoixa/photo-album/internal/albums"
	"github.com/anoixa/photo-album/internal/upload"
)

// Handler 照片处理器
type Handler struct {
	store    *svcAlbums.Store
	uploader *upload.Service
}

// NewHandler 创建新的照片处理器
func NewHandler(store *svcAlbums.Store, uploader *upload.Service) *Handler {
	return &Handler{
		store:    store,
		uploader: uploader,
	}
}
