package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcrypt_HashAndVerify(t *testing.T) {
	h := Bcrypt{Cost: bcrypt.MinCost}

	hashed, err := h.Hash("longenough1")
	require.NoError(t, err)
	assert.NotEqual(t, "longenough1", hashed)

	assert.True(t, h.Verify("longenough1", hashed))
	assert.False(t, h.Verify("longenough2", hashed))
}

func TestBcrypt_FreshSaltPerHash(t *testing.T) {
	h := Bcrypt{Cost: bcrypt.MinCost}

	a, err := h.Hash("samepassword")
	require.NoError(t, err)
	b, err := h.Hash("samepassword")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("samepassword", a))
	assert.True(t, h.Verify("samepassword", b))
}

func TestBcrypt_VerifyGarbageHash(t *testing.T) {
	assert.False(t, NewBcrypt().Verify("whatever", "not-a-bcrypt-hash"))
}
