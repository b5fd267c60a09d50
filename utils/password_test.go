// utils/password_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTemporaryPassword(t *testing.T) {
	first, err := GenerateTemporaryPassword()
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := GenerateTemporaryPassword()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
	assert.False(t, CheckPassword("not-a-hash", "hunter22"))
}
