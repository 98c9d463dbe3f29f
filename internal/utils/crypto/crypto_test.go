package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "TestPassword123"
	cost := 12

	hash, err := HashPassword(password, cost)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestCheckPassword(t *testing.T) {
	password := "TestPassword123"
	cost := 12

	hash, err := HashPassword(password, cost)
	assert.NoError(t, err)

	err = CheckPassword(password, hash)
	assert.NoError(t, err, "correct password should pass")

	err = CheckPassword("WrongPassword", hash)
	assert.Error(t, err, "wrong password should fail")
}

func TestIsStrong(t *testing.T) {
	tests := []struct {
		name     string
		password string
		expected bool
	}{
		{"Valid password", "Password123", true},
		{"Too short", "Pass1", false},
		{"No uppercase", "password123", false},
		{"No lowercase", "PASSWORD123", false},
		{"No digit", "Password", false},
		{"Minimum valid", "Passw0rd", true},
		{"Long valid", "MyVeryLongPassword123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsStrong(tt.password)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGenerateResetToken(t *testing.T) {
	raw, err := GenerateResetToken()
	require.NoError(t, err)

	decoded, err := hex.DecodeString(raw)
	require.NoError(t, err)
	assert.Len(t, decoded, ResetTokenBytes)

	other, err := GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, other, "tokens must be unique")
}

func TestHashResetToken(t *testing.T) {
	raw, err := GenerateResetToken()
	require.NoError(t, err)

	digest := HashResetToken(raw)
	assert.Len(t, digest, 64, "sha256 hex digest")
	assert.NotEqual(t, raw, digest)
	assert.Equal(t, digest, HashResetToken(raw), "hashing is deterministic")
	assert.NotEqual(t, digest, HashResetToken(raw+"x"))
}
