package security_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity-web-server/internal/security"
)

func TestHashAndCompareRefreshToken(t *testing.T) {
	digest, err := security.HashRefreshToken("some.refresh.token")
	require.NoError(t, err)

	assert.True(t, security.CompareRefreshToken("some.refresh.token", digest))
	assert.False(t, security.CompareRefreshToken("another.token", digest))
}

func TestHashRefreshToken_LongInput(t *testing.T) {
	// подписанный JWT сильно длиннее лимита bcrypt в 72 байта
	longToken := strings.Repeat("a", 600)

	digest, err := security.HashRefreshToken(longToken)
	require.NoError(t, err)
	assert.True(t, security.CompareRefreshToken(longToken, digest))
}

func TestHashRefreshToken_DistinctDigests(t *testing.T) {
	first, err := security.HashRefreshToken("token")
	require.NoError(t, err)
	second, err := security.HashRefreshToken("token")
	require.NoError(t, err)

	// bcrypt солёный, одинаковый вход даёт разные digest
	assert.NotEqual(t, first, second)
}
