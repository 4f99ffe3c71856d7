package cache

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/anoixa/photo-album/cache/memory"
	"github.com/anoixa/photo-album/cache/redis"
	"github.com/anoixa/photo-album/config"
	"github.com/mitchellh/mapstructure"
)

// NewProvider 根据配置创建缓存提供者
// cache_type=none 时返回 nil, nil，调用方直接访问后端
func NewProvider(cfg *config.Config) (Provider, error) {
	options, err := parseOptions(cfg.CacheOptions)
	if err != nil {
		return nil, err
	}

	switch cfg.CacheType {
	case "", "none":
		return nil, nil
	case "memory":
		return newMemoryProvider(options)
	case "redis":
		return newRedisProvider(cfg, options)
	default:
		return nil, fmt.Errorf("unsupported cache provider type: %s", cfg.CacheType)
	}
}

// parseOptions 解析 cache_options JSON
func parseOptions(raw string) (map[string]interface{}, error) {
	options := make(map[string]interface{})
	if raw == "" {
		return options, nil
	}
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return nil, fmt.Errorf("failed to parse cache_options: %w", err)
	}
	return options, nil
}

// decodeOptions 将选项覆盖到已有默认值的结构体上
func decodeOptions(options map[string]interface{}, target interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(options); err != nil {
		return fmt.Errorf("invalid cache_options: %w", err)
	}
	return nil
}

// newMemoryProvider 创建内存缓存提供者
func newMemoryProvider(options map[string]interface{}) (Provider, error) {
	memConfig := memory.DefaultConfig()
	if err := decodeOptions(options, &memConfig); err != nil {
		return nil, err
	}

	provider, err := memory.NewMemory(memConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	log.Printf("[Cache] Using memory cache (max cost %d bytes)", memConfig.MaxCost)
	return provider, nil
}

// newRedisProvider 创建 Redis 缓存提供者
func newRedisProvider(cfg *config.Config, options map[string]interface{}) (Provider, error) {
	redisConfig := &redis.Config{
		Address:      cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     10,
		MinIdleConns: 2,
		KeyPrefix:    "photo-album:cache:",
	}
	if err := decodeOptions(options, redisConfig); err != nil {
		return nil, err
	}

	provider, err := redis.NewRedisFromConfig(redisConfig)
	if err != nil {
		return nil, err
	}
	log.Printf("[Cache] Using redis cache at %s", redisConfig.Address)
	return provider, nil
}
