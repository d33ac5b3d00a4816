package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "byggekrav/pkg/domain-errors"
)

func TestGenerate(t *testing.T) {
	first, err := Generate()
	require.NoError(t, err)
	second, err := Generate()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestHashAndVerify(t *testing.T) {
	secret, err := Generate()
	require.NoError(t, err)

	hash, err := Hash(secret)
	require.NoError(t, err)
	assert.NotEqual(t, secret, hash)

	assert.NoError(t, Verify(secret, hash))
	err = Verify("wrong-secret", hash)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestHashEmpty(t *testing.T) {
	_, err := Hash("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
