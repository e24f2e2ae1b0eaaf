package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cheap() *ArgonHash {
	return &ArgonHash{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
}

func TestGenerateAndVerify(t *testing.T) {
	a := cheap()

	encoded, err := a.GenerateFromPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=64,t=1,p=1$"))
	assert.NotContains(t, encoded, "correct horse")

	ok, err := a.VerifyPasswd("correct horse", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("wrong horse", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSaltIsRandom(t *testing.T) {
	a := cheap()

	h1, err := a.GenerateFromPassword("same")
	require.NoError(t, err)
	h2, err := a.GenerateFromPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyMalformedHash(t *testing.T) {
	a := cheap()

	for _, e := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=64,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=64,t=1,p=1$!!!$aGFzaA",
		"$argon2id$v=19$m=64,t=0,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=64,t=1,p=1$c2FsdA$",
	} {
		ok, err := a.VerifyPasswd("whatever", e)
		assert.False(t, ok, e)
		assert.ErrorIs(t, err, ErrInvalidHash, e)
	}
}

func TestVerifyUsesParamsFromHash(t *testing.T) {
	strong := &ArgonHash{Memory: 128, Iterations: 2, Parallelism: 1, SaltLength: 16, KeyLength: 16}

	encoded, err := strong.GenerateFromPassword("pw123456")
	require.NoError(t, err)

	ok, err := cheap().VerifyPasswd("pw123456", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyDummy(t *testing.T) {
	a := cheap()

	a.VerifyDummy("anything")
	assert.NotEmpty(t, a.dummy)
}
