// Package kv 相册存储使用的键值持久化抽象
//
// 每个键保存一个完整的字符串值（相册集合、照片集合各一个 JSON 数组），
// 写入总是整体覆盖，不做增量更新。
package kv

import (
	"context"
	"errors"
)

// ErrUnavailable 底层存储无法访问（连接失败、配额不足等）
var ErrUnavailable = errors.New("kv: storage unavailable")

// Storage 键值存储接口
type Storage interface {
	// Get 读取键值，ok=false 表示该键从未写入
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set 整体覆盖写入
	Set(ctx context.Context, key, value string) error

	// Name 返回后端名称
	Name() string
}

// Batcher 支持多键原子写入的后端
type Batcher interface {
	// SetMany 要么全部写入，要么全部不写入
	SetMany(ctx context.Context, entries map[string]string) error
}

// Closer 持有连接的后端
type Closer interface {
	Close() error
}

// Close 如果后端持有资源则关闭
func Close(s Storage) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
