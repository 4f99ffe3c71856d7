package utils

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// mimeToExtMap MIME类型到安全扩展名的映射
var mimeToExtMap = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
	"image/avif": ".avif",
}

// GetSafeExtension 根据MIME类型返回安全的文件扩展名
// 如果MIME类型不被允许，返回空字符串
func GetSafeExtension(mimeType string) string {
	// 标准化MIME类型（去除可能的参数）
	mimeType = strings.Split(mimeType, ";")[0]
	mimeType = strings.TrimSpace(mimeType)

	if ext, ok := mimeToExtMap[mimeType]; ok {
		return ext
	}
	return ""
}

// MimeTypeFromExtension 根据扩展名反查图片 MIME 类型，未知扩展名返回空字符串
func MimeTypeFromExtension(ext string) string {
	ext = strings.ToLower(ext)
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	for mimeType, e := range mimeToExtMap {
		if e == ext {
			return mimeType
		}
	}
	return ""
}

// GetExtensionFromFilename 从文件名获取扩展名（小写）
func GetExtensionFromFilename(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// TitleFromFilename 去掉目录和最后一个扩展名
func TitleFromFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// DetectImage 根据内容识别图片类型，返回 MIME 与扩展名
// 不在允许列表中的类型 ok=false
func DetectImage(data []byte) (mimeType, ext string, ok bool) {
	mimeType = mimetype.Detect(data).String()
	ext = GetSafeExtension(mimeType)
	return mimeType, ext, ext != ""
}
