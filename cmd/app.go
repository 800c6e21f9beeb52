package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/voidovo/imgtoss-sub000/cache/conntest"
	"github.com/voidovo/imgtoss-sub000/config"
	"github.com/voidovo/imgtoss-sub000/internal/uploader"
	"github.com/voidovo/imgtoss-sub000/utils/crypto"
)

// ConntestFile 探测缓存文件名
const ConntestFile = "conntest.json"

// appEnv 各命令共用的运行环境
type appEnv struct {
	cfg        *config.Config
	store      *config.ProfileStore
	probeCache *conntest.Cache
}

// newAppEnv 初始化配置、档案仓库和探测缓存
func newAppEnv() (*appEnv, error) {
	config.InitConfig()
	cfg := config.Get()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	key, err := crypto.LoadOrCreateMasterKey(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key: %w", err)
	}
	encryptor, err := crypto.NewEncryptor(key)
	if err != nil {
		return nil, err
	}

	store, err := config.NewProfileStore(filepath.Join(cfg.DataDir, config.ProfileStoreFile), encryptor)
	if err != nil {
		return nil, err
	}

	probeCache := conntest.New(filepath.Join(cfg.DataDir, ConntestFile))

	return &appEnv{cfg: cfg, store: store, probeCache: probeCache}, nil
}

// uploaderFor 按档案名构建上传服务
func (a *appEnv) uploaderFor(profile string) (*uploader.Service, config.StorageConfig, error) {
	if profile == "" {
		return nil, config.StorageConfig{}, fmt.Errorf("the --profile flag is required")
	}
	cfg, err := a.store.Load(profile)
	if err != nil {
		return nil, config.StorageConfig{}, err
	}
	svc, err := uploader.New(cfg, a.probeCache)
	if err != nil {
		return nil, config.StorageConfig{}, err
	}
	return svc, cfg, nil
}
