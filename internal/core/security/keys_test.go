package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	realKey, hash, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(realKey, APIKeyPrefix))
	assert.Len(t, realKey, len(APIKeyPrefix)+64)
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashKey(realKey))

	otherKey, otherHash, err := GenerateAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, realKey, otherKey)
	assert.NotEqual(t, hash, otherHash)
}

func TestHashKeyIsDeterministic(t *testing.T) {
	assert.Equal(t, HashKey("bk_live_abc"), HashKey("bk_live_abc"))
	assert.NotEqual(t, HashKey("bk_live_abc"), HashKey("bk_live_abd"))
}
