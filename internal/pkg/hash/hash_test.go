package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCheckPassword(t *testing.T) {
	hashed, err := HashPasswordWithCost("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPassword(hashed, "s3cret"))
	assert.False(t, CheckPassword(hashed, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret"))

	_, err = HashPasswordWithCost("", bcrypt.MinCost)
	assert.Error(t, err)
}
