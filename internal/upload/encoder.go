package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/anoixa/photo-album/config"
	"github.com/anoixa/photo-album/storage"
	"github.com/anoixa/photo-album/utils"
	"github.com/anoixa/photo-album/utils/generator"
)

// Encoder 把图片字节转换为可展示的引用（data URL 或远程地址）
type Encoder interface {
	Encode(ctx context.Context, name string, data []byte) (string, error)
	Mode() string
}

// NewEncoder 根据 upload_mode 创建编码器
func NewEncoder(cfg *config.Config, providers *storage.Factory) (Encoder, error) {
	switch cfg.UploadMode {
	case "", "dataurl":
		return NewDataURLEncoder(), nil
	case "object":
		if providers == nil {
			return nil, fmt.Errorf("upload mode object requires a storage provider")
		}
		return NewObjectEncoder(providers.GetDefault(), cfg.BaseURL()), nil
	default:
		return nil, fmt.Errorf("unsupported upload mode: %s", cfg.UploadMode)
	}
}

// detect 校验内容为允许的图片类型
func detect(name string, data []byte) (string, string, error) {
	mimeType, ext, ok := utils.DetectImage(data)
	if !ok {
		return "", "", fmt.Errorf("%w: %s is %s", ErrNotImage, name, mimeType)
	}
	return mimeType, ext, nil
}

// DataURLEncoder 将图片内嵌为 data URL
type DataURLEncoder struct{}

// NewDataURLEncoder 创建 data URL 编码器
func NewDataURLEncoder() *DataURLEncoder {
	return &DataURLEncoder{}
}

// Encode 返回 data:<mime>;base64,<payload>
func (e *DataURLEncoder) Encode(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	mimeType, _, err := detect(name, data)
	if err != nil {
		return "", err
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Mode 返回编码模式
func (e *DataURLEncoder) Mode() string {
	return "dataurl"
}

// ObjectEncoder 将图片保存到存储提供者，返回 /files/ 下的访问地址
type ObjectEncoder struct {
	provider storage.Provider
	baseURL  string
	paths    *generator.PathGenerator
	now      func() time.Time
}

// NewObjectEncoder 创建对象存储编码器
func NewObjectEncoder(provider storage.Provider, baseURL string) *ObjectEncoder {
	return &ObjectEncoder{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		paths:    generator.NewPathGenerator(),
		now:      time.Now,
	}
}

// Encode 保存图片并返回访问地址
func (e *ObjectEncoder) Encode(ctx context.Context, name string, data []byte) (string, error) {
	_, ext, err := detect(name, data)
	if err != nil {
		return "", err
	}

	storagePath := e.paths.GeneratePhotoPath(ext, e.now())
	if err := e.provider.SaveWithContext(ctx, storagePath, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to save %s to %s: %w", name, e.provider.Name(), err)
	}
	utils.LogIfDevf("[Upload] Stored %s as %s", utils.SanitizeLogTitle(name), storagePath)
	return e.baseURL + "/files/" + storagePath, nil
}

// Mode 返回编码模式
func (e *ObjectEncoder) Mode() string {
	return "object"
}
