package albums

// Album 相册
type Album struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	CoverURL   string `json:"coverUrl,omitempty"`
	Timestamp  int64  `json:"timestamp"`
	PhotoCount int    `json:"photoCount"`
}

// Photo 照片，AlbumID 指向所属相册
type Photo struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	AlbumID   string `json:"albumId"`
	Timestamp int64  `json:"timestamp"`
}

// PhotoView 全屏浏览时的照片位置信息
// PrevID / NextID 在首尾为空，不循环
type PhotoView struct {
	Photo  Photo  `json:"photo"`
	Index  int    `json:"index"`
	Total  int    `json:"total"`
	PrevID string `json:"prevId,omitempty"`
	NextID string `json:"nextId,omitempty"`
}

// Snapshot 相册与照片的完整副本，用于备份和恢复
type Snapshot struct {
	Albums []Album `json:"albums"`
	Photos []Photo `json:"photos"`
}
