package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/voidovo/imgtoss-sub000/utils/crypto"
)

// ProfileStoreFile 配置档案文件名
const ProfileStoreFile = "profiles.json"

// ProfileStore 命名存储配置档案的持久化仓库。
// 档案以 JSON 落盘，access_key_secret 字段加密存储，
// 读取时透明解密，调用方始终拿到明文配置。
type ProfileStore struct {
	mu        sync.RWMutex
	path      string
	encryptor *crypto.Encryptor
	profiles  map[string]map[string]interface{}
}

// NewProfileStore 打开（或创建）档案仓库，path 为 JSON 文件路径
func NewProfileStore(path string, encryptor *crypto.Encryptor) (*ProfileStore, error) {
	s := &ProfileStore{
		path:      path,
		encryptor: encryptor,
		profiles:  make(map[string]map[string]interface{}),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile store: %w", err)
	}
	if err := json.Unmarshal(data, &s.profiles); err != nil {
		return nil, fmt.Errorf("profile store is corrupt: %w", err)
	}
	return s, nil
}

// Save 写入（或覆盖）一个命名档案
func (s *ProfileStore) Save(name string, cfg StorageConfig) error {
	if name == "" {
		return fmt.Errorf("profile name is required")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid profile %q: %w", name, err)
	}

	secret, err := s.encryptor.Encrypt(cfg.AccessKeySecret)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret for profile %q: %w", name, err)
	}
	cfg.AccessKeySecret = secret

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal profile %q: %w", name, err)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return fmt.Errorf("failed to encode profile %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[name] = entry
	return s.persist()
}

// Load 按名称读取档案，密钥已解密
func (s *ProfileStore) Load(name string) (StorageConfig, error) {
	s.mu.RLock()
	entry, ok := s.profiles[name]
	s.mu.RUnlock()
	if !ok {
		return StorageConfig{}, fmt.Errorf("profile %q not found", name)
	}

	var cfg StorageConfig
	if err := mapstructure.Decode(entry, &cfg); err != nil {
		return StorageConfig{}, fmt.Errorf("failed to decode profile %q: %w", name, err)
	}

	secret, err := s.encryptor.Decrypt(cfg.AccessKeySecret)
	if err != nil {
		return StorageConfig{}, fmt.Errorf("failed to decrypt secret for profile %q: %w", name, err)
	}
	cfg.AccessKeySecret = secret
	return cfg, nil
}

// Delete 删除命名档案，档案不存在时报错
func (s *ProfileStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	delete(s.profiles, name)
	return s.persist()
}

// List 返回所有档案名，按字典序
func (s *ProfileStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// persist 调用方必须持有写锁
func (s *ProfileStore) persist() error {
	data, err := json.MarshalIndent(s.profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create profile store directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write profile store: %w", err)
	}
	return nil
}
