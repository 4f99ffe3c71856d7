package storage

import (
	"fmt"
	"log"
	"sort"

	"github.com/anoixa/photo-album/config"
)

// Factory 存储工厂 - 负责创建和管理存储提供者
type Factory struct {
	providers       map[string]Provider
	defaultProvider string
}

// NewFactory 根据配置创建存储工厂
// local 总是初始化；minio / webdav 只有在配置了地址时才初始化
func NewFactory(cfg *config.Config) (*Factory, error) {
	factory := &Factory{
		providers: make(map[string]Provider),
	}

	log.Println("[Storage] Initializing storage providers...")

	localProvider, err := NewLocalStorage(cfg.StorageLocalPath)
	if err != nil {
		log.Printf("[Storage] Failed to initialize local storage: %v", err)
	} else {
		factory.providers["local"] = localProvider
		log.Println("[Storage] Successfully initialized 'local' storage provider")
	}

	if cfg.MinioEndpoint != "" {
		minioProvider, err := NewMinioStorage(MinioConfig{
			Endpoint:        cfg.MinioEndpoint,
			AccessKeyID:     cfg.MinioAccessKeyID,
			SecretAccessKey: cfg.MinioSecretAccessKey,
			BucketName:      cfg.MinioBucketName,
			UseSSL:          cfg.MinioUseSSL,
		})
		if err != nil {
			log.Printf("[Storage] Failed to initialize minio storage: %v", err)
		} else {
			factory.providers["minio"] = minioProvider
			log.Println("[Storage] Successfully initialized 'minio' storage provider")
		}
	}

	if cfg.WebDAVURL != "" {
		webdavProvider, err := NewWebDAVStorage(WebDAVConfig{
			URL:      cfg.WebDAVURL,
			Username: cfg.WebDAVUsername,
			Password: cfg.WebDAVPassword,
			RootPath: cfg.WebDAVRootPath,
			Timeout:  cfg.WebDAVTimeout,
		})
		if err != nil {
			log.Printf("[Storage] Failed to initialize webdav storage: %v", err)
		} else {
			factory.providers["webdav"] = webdavProvider
			log.Println("[Storage] Successfully initialized 'webdav' storage provider")
		}
	}

	if len(factory.providers) == 0 {
		return nil, fmt.Errorf("no storage providers were successfully initialized")
	}

	// storage_type 不是文件类后端时（memory/database/redis），上传文件落在 local
	factory.defaultProvider = cfg.StorageType
	if _, ok := factory.providers[factory.defaultProvider]; !ok {
		switch cfg.StorageType {
		case "local", "minio", "webdav":
			return nil, fmt.Errorf("default storage type '%s' is not available", cfg.StorageType)
		}
		factory.defaultProvider = "local"
		if _, ok := factory.providers["local"]; !ok {
			return nil, fmt.Errorf("local storage is required for storage type '%s'", cfg.StorageType)
		}
	}
	log.Printf("[Storage] Default storage provider set to: '%s'", factory.defaultProvider)

	return factory, nil
}

// NewFactoryWith 使用给定的提供者创建工厂，测试和嵌入场景使用
func NewFactoryWith(defaultName string, providers map[string]Provider) (*Factory, error) {
	if _, ok := providers[defaultName]; !ok {
		return nil, fmt.Errorf("default storage provider '%s' not found", defaultName)
	}
	return &Factory{providers: providers, defaultProvider: defaultName}, nil
}

// Get 获取指定名称的存储提供者
func (f *Factory) Get(name string) (Provider, error) {
	if name == "" {
		name = f.defaultProvider
	}

	provider, ok := f.providers[name]
	if !ok {
		return nil, fmt.Errorf("storage provider '%s' not found", name)
	}
	return provider, nil
}

// GetDefault 获取默认存储提供者
func (f *Factory) GetDefault() Provider {
	provider, _ := f.Get(f.defaultProvider)
	return provider
}

// GetDefaultName 获取默认存储提供者名称
func (f *Factory) GetDefaultName() string {
	return f.defaultProvider
}

// ListProviders 列出所有可用的存储提供者名称
func (f *Factory) ListProviders() []string {
	names := make([]string, 0, len(f.providers))
	for name := range f.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
