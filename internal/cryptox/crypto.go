// Package cryptox derives and checks the access passphrase verifier.
// Only the salt and the verifier are ever stored; the passphrase is not.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"github.com/dmitrijs2005/bizboard/internal/common"
	"golang.org/x/crypto/argon2"
)

const saltSize = 16

// DeriveKey stretches a passphrase with Argon2id.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier returns the value stored in configuration to check a derived key.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// NewVerifier creates a fresh random salt and the matching verifier.
func NewVerifier(passphrase []byte) (salt, verifier []byte, err error) {
	salt = common.GenerateRandByteArray(saltSize)
	if salt == nil {
		return nil, nil, errors.New("random source failed")
	}
	key := DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)
	return salt, MakeVerifier(key), nil
}

// Verify reports whether passphrase matches the stored salt and verifier.
// The comparison runs in constant time.
func Verify(passphrase, salt, verifier []byte) bool {
	if len(verifier) == 0 {
		return false
	}
	key := DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)
	return subtle.ConstantTimeCompare(MakeVerifier(key), verifier) == 1
}
