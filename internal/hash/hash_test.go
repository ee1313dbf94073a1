package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifiesAndSalts(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("Secret123!")
	require.NoError(t, err)
	require.NotEmpty(t, h1)
	assert.NotEqual(t, "Secret123!", h1)

	h2, err := HashPassword("Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)

	assert.True(t, CheckPassword(h1, "Secret123!"))
	assert.True(t, CheckPassword(h2, "Secret123!"))
	assert.False(t, CheckPassword(h1, "Secret123?"))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("", "anything"))
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "anything"))
}
