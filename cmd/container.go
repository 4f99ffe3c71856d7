package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/anoixa/photo-album/config"
	"github.com/anoixa/photo-album/internal/app"
)

// openContainer 加载配置并初始化容器，调用方负责 Close
// 一次性命令不使用进程内缓存，直接读写后端
func openContainer(ctx context.Context) (*app.Container, error) {
	config.InitConfig()
	return initContainer(ctx, oneShotConfig(config.Get()))
}

// openServerContainer serve 使用，保留配置的缓存
func openServerContainer(ctx context.Context) (*app.Container, error) {
	config.InitConfig()
	cfg := config.Get()
	if cfg.CacheType == "memory" {
		log.Printf("[Server] cache_type=memory assumes this server is the only writer; changes made by other processes stay invisible for up to %s", cfg.CacheTTL)
	}
	return initContainer(ctx, cfg)
}

func initContainer(ctx context.Context, cfg *config.Config) (*app.Container, error) {
	container := app.NewContainer(cfg)
	if err := container.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return container, nil
}

// oneShotConfig 返回关闭进程内缓存的配置副本
// 进程内缓存对短命令没有收益，且会让命令读到与 serve 不同的数据
func oneShotConfig(cfg *config.Config) *config.Config {
	if cfg.CacheType != "memory" {
		return cfg
	}
	copied := *cfg
	copied.CacheType = "none"
	return &copied
}
