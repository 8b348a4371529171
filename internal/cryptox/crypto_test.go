package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	passphrase := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(passphrase, salt)
	key2 := DeriveKey(passphrase, salt)

	assert.Equal(t, key1, key2)
	assert.Equal(t, "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39", hex.EncodeToString(key1))
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	passphrase := []byte("secret-password")
	assert.NotEqual(t, DeriveKey(passphrase, []byte("salt-1")), DeriveKey(passphrase, []byte("salt-2")))
}

func TestMakeVerifier_Length(t *testing.T) {
	assert.Len(t, MakeVerifier([]byte("k")), 32)
}

func TestNewVerifier_RoundTrip(t *testing.T) {
	salt, verifier, err := NewVerifier([]byte("open sesame"))
	require.NoError(t, err)
	require.Len(t, salt, saltSize)

	assert.True(t, Verify([]byte("open sesame"), salt, verifier))
	assert.False(t, Verify([]byte("open sesame!"), salt, verifier))
	assert.False(t, Verify([]byte("open sesame"), []byte("other-salt"), verifier))
}

func TestVerify_EmptyVerifierNeverMatches(t *testing.T) {
	assert.False(t, Verify([]byte(""), nil, nil))
}
