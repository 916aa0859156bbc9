package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubhub-app/clubhub/pkg/utils"
)

func TestIsValidPhone(t *testing.T) {
	valid := []string{"+15551234567", "+442071838750", "+8613800138000"}
	for _, p := range valid {
		assert.True(t, utils.IsValidPhone(p), p)
	}

	invalid := []string{"", "15551234567", "+0551234567", "+1", "555-123-4567", "+1555123456789012"}
	for _, p := range invalid {
		assert.False(t, utils.IsValidPhone(p), p)
	}
}

func TestGenerateOTP(t *testing.T) {
	code := utils.GenerateOTP()
	require.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestGenerateRandomToken(t *testing.T) {
	a := utils.GenerateRandomToken(16)
	b := utils.GenerateRandomToken(16)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestHashOTP_RoundTrip(t *testing.T) {
	hash, err := utils.HashOTP("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)

	assert.True(t, utils.CheckOTP(hash, "123456"))
	assert.False(t, utils.CheckOTP(hash, "654321"))
}
