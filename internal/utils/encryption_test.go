package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	ciphertext, err := Encrypt("NL-1234567", testKey)
	require.NoError(t, err)
	assert.NotEqual(t, "NL-1234567", ciphertext)

	plain, err := Decrypt(ciphertext, testKey)
	require.NoError(t, err)
	assert.Equal(t, "NL-1234567", plain)

	// 同一明文两次加密产生不同密文（随机 nonce）
	other, err := Encrypt("NL-1234567", testKey)
	require.NoError(t, err)
	assert.NotEqual(t, ciphertext, other)
}

func TestEncryptRejectsShortKey(t *testing.T) {
	_, err := Encrypt("data", "short")
	assert.Error(t, err)
	_, err = Decrypt("data", "short")
	assert.Error(t, err)
}

func TestDecryptFailures(t *testing.T) {
	// 错误密钥
	ciphertext, err := Encrypt("secret", testKey)
	require.NoError(t, err)
	_, err = Decrypt(ciphertext, "fedcba9876543210fedcba9876543210")
	assert.Error(t, err)

	// 非法 base64 与过短密文
	_, err = Decrypt("!!!not-base64!!!", testKey)
	assert.Error(t, err)
	_, err = Decrypt("AA==", testKey)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, VerifyPassword("s3cret-password", hash))
	assert.False(t, VerifyPassword("wrong-password", hash))
	assert.False(t, VerifyPassword("s3cret-password", "not-a-hash"))
}
