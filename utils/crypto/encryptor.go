// Package crypto 配置档案的字段级加密。
// 访问密钥等敏感字段以 AES-256-GCM 加密后落盘，密文带版本前缀，
// 便于识别已加密内容并为将来升级算法留口子。
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	// EncPrefixV1 AES-256-GCM 加密版本前缀
	EncPrefixV1 = "__ENC:v1:"
	// MasterKeyFile 主密钥文件名
	MasterKeyFile = "master.key"
	// MasterKeyEnv 主密钥环境变量（base64 的 32 字节）
	MasterKeyEnv = "IMGTOSS_MASTER_KEY"
)

// DeriveKey 用 argon2id 从口令派生 32 字节密钥
func DeriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, 32)
}

// LoadOrCreateMasterKey 获取主密钥。
// 优先级：环境变量 > 密钥文件 > 生成新密钥并写入文件。
func LoadOrCreateMasterKey(dataDir string) ([]byte, error) {
	if envKey := os.Getenv(MasterKeyEnv); envKey != "" {
		key, err := base64.StdEncoding.DecodeString(envKey)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", MasterKeyEnv, err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("%s must be 32 bytes (base64 encoded), got %d bytes", MasterKeyEnv, len(key))
		}
		return key, nil
	}

	keyPath := filepath.Join(dataDir, MasterKeyFile)
	if data, err := os.ReadFile(keyPath); err == nil {
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("invalid master key file: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("master key must be 32 bytes, got %d bytes", len(key))
		}
		return key, nil
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(key)
	if err := os.WriteFile(keyPath, []byte(encoded), 0600); err != nil {
		return nil, fmt.Errorf("failed to write master key file: %w", err)
	}
	return key, nil
}

// Encryptor 字段加密器
type Encryptor struct {
	key []byte
}

// NewEncryptor 创建字段加密器，key 必须为 32 字节
func NewEncryptor(key []byte) (*Encryptor, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	return &Encryptor{key: key}, nil
}

// Encrypt 加密字符串，返回带版本前缀的密文。
// 空串和已加密内容原样返回。
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" || strings.HasPrefix(plaintext, EncPrefixV1) {
		return plaintext, nil
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncPrefixV1 + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt 解密带版本前缀的密文，无前缀的内容视为明文原样返回
func (e *Encryptor) Decrypt(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, EncPrefixV1) {
		return ciphertext, nil
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, EncPrefixV1))
	if err != nil {
		return "", fmt.Errorf("decode error: %w", err)
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("failed to create GCM: %w", err)
	}

	if len(data) < gcm.NonceSize() {
		return "", errors.New("ciphertext too short")
	}
	nonce, payload := data[:gcm.NonceSize()], data[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, payload, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}
	return string(plaintext), nil
}
