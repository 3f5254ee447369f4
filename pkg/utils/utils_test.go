package utils

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCipherRoundTrip(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	c, err := NewCipher(key)
	require.NoError(t, err)

	enc, err := c.Encrypt("today felt lighter")
	require.NoError(t, err)
	assert.NotEqual(t, "today felt lighter", enc)

	dec, err := c.Decrypt(enc)
	require.NoError(t, err)
	assert.Equal(t, "today felt lighter", dec)

	empty, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestParseEncryptionKey(t *testing.T) {
	_, err := ParseEncryptionKey("")
	assert.Error(t, err)

	_, err = ParseEncryptionKey("not base64!")
	assert.Error(t, err)

	_, err = ParseEncryptionKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=3,p=2$"))

	ok, err := VerifyPassword("correct horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong horse", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("x", "plaintext")
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("12345678"))

	err := ValidatePassword("short")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "password", vErr.Field)

	assert.Error(t, ValidatePassword(strings.Repeat("a", MaxPasswordLength+1)))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("calm_river"))

	for _, bad := range []string{"ab", "_leading", "has space", strings.Repeat("a", 21)} {
		err := ValidateUsername(bad)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, bad)
		assert.Equal(t, "username", vErr.Field)
	}
	assert.Equal(t, "calm_river", NormalizeUsername("  Calm_River "))
}

func TestValidateUsernameRefusesIdentifyingHandles(t *testing.T) {
	assert.NoError(t, ValidateUsername("  Quiet_Fox_2024 "))
	assert.NoError(t, ValidateUsername("river123456"))

	tests := []struct {
		name    string
		message string
	}{
		{"jane@mail", "Username must not be an email address"},
		{"call_5551234567", "Username must not contain a phone number"},
		{"Admin_team", "Username is reserved"},
		{"01_support", "Username is reserved"},
		{"serenify", "Username is reserved"},
	}
	for _, tt := range tests {
		err := ValidateUsername(tt.name)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, tt.name)
		assert.Equal(t, tt.message, vErr.Message, tt.name)
	}
}
