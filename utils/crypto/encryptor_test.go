package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	return DeriveKey("test-passphrase", []byte("fixed-salt-value"))
}

// TestEncryptDecrypt_RoundTrip 加解密往返
func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	e, err := NewEncryptor(testKey(t))
	require.NoError(t, err)

	ciphertext, err := e.Encrypt("my-secret-access-key")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ciphertext, EncPrefixV1))
	assert.NotContains(t, ciphertext, "my-secret-access-key")

	plaintext, err := e.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "my-secret-access-key", plaintext)
}

// TestEncrypt_Idempotent 已加密内容不会二次加密
func TestEncrypt_Idempotent(t *testing.T) {
	e, err := NewEncryptor(testKey(t))
	require.NoError(t, err)

	once, err := e.Encrypt("secret")
	require.NoError(t, err)
	twice, err := e.Encrypt(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

// TestDecrypt_Plaintext 无前缀内容视为明文
func TestDecrypt_Plaintext(t *testing.T) {
	e, err := NewEncryptor(testKey(t))
	require.NoError(t, err)

	got, err := e.Decrypt("not-encrypted")
	require.NoError(t, err)
	assert.Equal(t, "not-encrypted", got)
}

// TestDecrypt_WrongKey 错误密钥解密失败而非返回垃圾
func TestDecrypt_WrongKey(t *testing.T) {
	e1, err := NewEncryptor(DeriveKey("passphrase-one", []byte("salt")))
	require.NoError(t, err)
	e2, err := NewEncryptor(DeriveKey("passphrase-two", []byte("salt")))
	require.NoError(t, err)

	ciphertext, err := e1.Encrypt("secret")
	require.NoError(t, err)

	_, err = e2.Decrypt(ciphertext)
	assert.Error(t, err)
}

// TestDeriveKey 派生确定且区分口令
func TestDeriveKey(t *testing.T) {
	k1 := DeriveKey("a", []byte("salt"))
	k2 := DeriveKey("a", []byte("salt"))
	k3 := DeriveKey("b", []byte("salt"))

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1, 32)
}

// TestLoadOrCreateMasterKey 首次生成后可重复加载
func TestLoadOrCreateMasterKey(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrCreateMasterKey(dir)
	require.NoError(t, err)
	assert.Len(t, key1, 32)

	key2, err := LoadOrCreateMasterKey(dir)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)
}

// TestNewEncryptor_BadKeyLength 非 32 字节密钥被拒绝
func TestNewEncryptor_BadKeyLength(t *testing.T) {
	_, err := NewEncryptor([]byte("short"))
	assert.Error(t, err)
}
