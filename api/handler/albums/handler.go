package albums

import (
	svcAlbums "github.com/anoixa/photo-album/internal/albums"
)

// Handler 相册处理器
type Handler struct {
	store *svcAlbums.Store
}

// NewHandler 创建新的相册处理器
func NewHandler(store *svcAlbums.Store) *Handler {
	return &Handler{store: store}
}
