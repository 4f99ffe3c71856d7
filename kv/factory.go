package kv

import (
	"fmt"
	"log"

	"github.com/anoixa/photo-album/cache"
	"github.com/anoixa/photo-album/config"
	"github.com/anoixa/photo-album/database"
	"github.com/anoixa/photo-album/storage"
)

// New 根据 storage_type 创建 KV 存储，cacheProvider 非空时启用缓存
func New(cfg *config.Config, providers *storage.Factory, cacheProvider cache.Provider) (Storage, error) {
	backend, err := newBackend(cfg, providers)
	if err != nil {
		return nil, err
	}
	log.Printf("[KV] Using %s backend", backend.Name())

	if cacheProvider == nil {
		return backend, nil
	}
	log.Printf("[KV] Caching enabled via %s (ttl %s)", cacheProvider.Name(), cfg.CacheTTL)
	return NewCached(backend, cacheProvider, cfg.CacheTTL), nil
}

func newBackend(cfg *config.Config, providers *storage.Factory) (Storage, error) {
	switch cfg.StorageType {
	case "memory":
		return NewMemory(), nil
	case "", "local", "minio", "webdav":
		name := cfg.StorageType
		if name == "" {
			name = "local"
		}
		if providers == nil {
			return nil, fmt.Errorf("storage type %s requires a storage factory", name)
		}
		provider, err := providers.Get(name)
		if err != nil {
			return nil, err
		}
		return NewBlobStore(provider, cfg.StorageKVPrefix), nil
	case "database":
		db, err := database.NewDB(cfg)
		if err != nil {
			return nil, err
		}
		store, err := NewDBStore(db)
		if err != nil {
			_ = database.Close(db)
			return nil, err
		}
		return store, nil
	case "redis":
		return DialRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StorageKVPrefix)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.StorageType)
	}
}
