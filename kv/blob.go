package kv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/anoixa/photo-album/storage"
)

// BlobStore 将每个键保存为存储提供者中的一个对象: <prefix>/<key>.json
type BlobStore struct {
	provider storage.Provider
	prefix   string
}

// NewBlobStore 基于存储提供者创建 KV 存储
func NewBlobStore(provider storage.Provider, prefix string) *BlobStore {
	return &BlobStore{
		provider: provider,
		prefix:   strings.Trim(prefix, "/"),
	}
}

func (b *BlobStore) objectPath(key string) string {
	if b.prefix == "" {
		return key + ".json"
	}
	return path.Join(b.prefix, key+".json")
}

// Get 读取对象内容
func (b *BlobStore) Get(ctx context.Context, key string) (string, bool, error) {
	reader, err := b.provider.GetWithContext(ctx, b.objectPath(key))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: read %s from %s: %w", ErrUnavailable, key, b.provider.Name(), err)
	}
	if closer, ok := reader.(io.Closer); ok {
		defer closer.Close()
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", false, fmt.Errorf("%w: read %s from %s: %w", ErrUnavailable, key, b.provider.Name(), err)
	}
	return string(data), true, nil
}

// Set 覆盖写入对象
func (b *BlobStore) Set(ctx context.Context, key, value string) error {
	if err := b.provider.SaveWithContext(ctx, b.objectPath(key), strings.NewReader(value)); err != nil {
		return fmt.Errorf("%w: write %s to %s: %w", ErrUnavailable, key, b.provider.Name(), err)
	}
	return nil
}

// Name 返回后端名称
func (b *BlobStore) Name() string {
	return "blob:" + b.provider.Name()
}
