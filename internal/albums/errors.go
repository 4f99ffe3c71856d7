package albums

import "errors"

var (
	// ErrAlbumNotFound 相册不存在
	ErrAlbumNotFound = errors.New("album not found")
	// ErrPhotoNotFound 照片不存在
	ErrPhotoNotFound = errors.New("photo not found")
	// ErrInvalidSnapshot 快照违反完整性约束
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)
