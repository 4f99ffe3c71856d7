package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const photoRoot = "photos"

// PathGenerator 按日期分层的照片对象路径生成器
type PathGenerator struct {
	newName func() string
}

// NewPathGenerator 创建路径生成器，文件名使用 UUID
func NewPathGenerator() *PathGenerator {
	return &PathGenerator{newName: uuid.NewString}
}

// NewPathGeneratorWithNames 使用自定义文件名生成器
func NewPathGeneratorWithNames(fn func() string) *PathGenerator {
	return &PathGenerator{newName: fn}
}

// GeneratePhotoPath 生成 photos/YYYY/MM/DD/<name><ext>
func (pg *PathGenerator) GeneratePhotoPath(ext string, uploadTime time.Time) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s/%s/%s%s", photoRoot, uploadTime.Format("2006/01/02"), pg.newName(), strings.ToLower(ext))
}

// ParseDatePath 从照片路径提取日期部分，如 2024/01/15
func ParseDatePath(storagePath string) string {
	parts := strings.Split(storagePath, "/")
	if len(parts) < 5 || parts[0] != photoRoot {
		return ""
	}
	return strings.Join(parts[1:4], "/")
}
