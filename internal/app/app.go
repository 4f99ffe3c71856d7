package app

import (
	"context"
	"fmt"
	"log"

	"github.com/anoixa/photo-album/cache"
	"github.com/anoixa/photo-album/config"
	"github.com/anoixa/photo-album/internal/albums"
	"github.com/anoixa/photo-album/internal/upload"
	"github.com/anoixa/photo-album/kv"
	"github.com/anoixa/photo-album/storage"
	"github.com/anoixa/photo-album/utils"
)

// Container 依赖注入容器 - 管理所有服务的生命周期
type Container struct {
	config         *config.Config
	storageFactory *storage.Factory
	cacheProvider  cache.Provider
	kvStorage      kv.Storage
	store          *albums.Store
	uploader       *upload.Service
}

// NewContainer 创建新的依赖注入容器
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// Init 按依赖顺序初始化：存储 -> 缓存 -> KV -> 相册 -> 上传
// 失败时已经打开的资源会被关闭
func (c *Container) Init(ctx context.Context) error {
	utils.LogIfDev("Initializing DI container...")

	if err := c.initStorage(); err != nil {
		return fmt.Errorf("failed to initialize storage factory: %w", err)
	}

	if err := c.initKV(); err != nil {
		c.Close()
		return fmt.Errorf("failed to initialize kv storage: %w", err)
	}

	if err := c.initStore(ctx); err != nil {
		c.Close()
		return fmt.Errorf("failed to initialize album store: %w", err)
	}

	if err := c.initUploader(); err != nil {
		c.Close()
		return fmt.Errorf("failed to initialize uploader: %w", err)
	}

	utils.LogIfDev("DI container initialized successfully")
	return nil
}

// initStorage 初始化存储工厂
func (c *Container) initStorage() error {
	factory, err := storage.NewFactory(c.config)
	if err != nil {
		return err
	}
	c.storageFactory = factory
	return nil
}

// initKV 初始化缓存提供者与 KV 后端
func (c *Container) initKV() error {
	provider, err := cache.NewProvider(c.config)
	if err != nil {
		return err
	}
	c.cacheProvider = provider

	backend, err := kv.New(c.config, c.storageFactory, provider)
	if err != nil {
		// cache_type=none 时 provider 为 nil
		if provider != nil {
			_ = provider.Close()
		}
		c.cacheProvider = nil
		return err
	}
	c.kvStorage = backend
	return nil
}

// initStore 打开相册存储，首次启动时写入演示数据
func (c *Container) initStore(ctx context.Context) error {
	store, err := albums.New(ctx, c.kvStorage,
		albums.WithKeys(c.config.StoreAlbumKey, c.config.StorePhotoKey),
	)
	if err != nil {
		return err
	}
	c.store = store
	utils.LogIfDevf("Album store ready on %s", store.Backend())
	return nil
}

// initUploader 初始化上传服务
func (c *Container) initUploader() error {
	encoder, err := upload.NewEncoder(c.config, c.storageFactory)
	if err != nil {
		return err
	}
	c.uploader = upload.NewService(c.store, encoder, c.config.GetWorkerCount(), upload.Limits{
		MaxFileBytes:  c.config.MaxUploadBytes(),
		MaxBatchBytes: c.config.MaxBatchBytes(),
	})
	log.Printf("[Upload] Mode: %s, workers: %d", encoder.Mode(), c.config.GetWorkerCount())
	return nil
}

// GetConfig 获取配置
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStorageFactory 获取存储工厂
func (c *Container) GetStorageFactory() *storage.Factory {
	return c.storageFactory
}

// GetStore 获取相册存储
func (c *Container) GetStore() *albums.Store {
	return c.store
}

// GetUploader 获取上传服务
func (c *Container) GetUploader() *upload.Service {
	return c.uploader
}

// Close 关闭所有服务
func (c *Container) Close() error {
	utils.LogIfDev("Closing DI container...")

	var err error
	switch {
	case c.kvStorage != nil:
		// KV 存储关闭时会一并关闭缓存
		err = kv.Close(c.kvStorage)
		c.kvStorage = nil
		c.cacheProvider = nil
	case c.cacheProvider != nil:
		err = c.cacheProvider.Close()
		c.cacheProvider = nil
	}
	if err != nil {
		log.Printf("[Container] Error closing storage: %v", err)
	}

	utils.LogIfDev("DI container closed")
	return err
}
