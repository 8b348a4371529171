package services

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bizboard/internal/common"
	"github.com/dmitrijs2005/bizboard/internal/cryptox"
)

// Confirmer guards destructive actions with a short, explicit confirmation.
type Confirmer interface {
	// Confirm returns an error wrapping common.ErrUnauthorized when input does
	// not confirm the action on target.
	Confirm(target string, input []byte) error
	// Prompt is shown to the user before input is read.
	Prompt(target string) string
	// Hidden reports whether input should be read without echo.
	Hidden() bool
}

// NewConfirmer asks for the access passphrase when one is configured and
// falls back to type-to-confirm otherwise.
func NewConfirmer(salt, verifier []byte) Confirmer {
	if len(verifier) == 0 {
		return TypeToConfirm{}
	}
	return PassphraseConfirmer{salt: salt, verifier: verifier}
}

type PassphraseConfirmer struct {
	salt     []byte
	verifier []byte
}

func (c PassphraseConfirmer) Confirm(target string, input []byte) error {
	if !cryptox.Verify(input, c.salt, c.verifier) {
		return fmt.Errorf("confirm delete of %s: %w", target, common.ErrUnauthorized)
	}
	return nil
}

func (c PassphraseConfirmer) Prompt(string) string {
	return "Re-enter the access passphrase to confirm deletion"
}

func (c PassphraseConfirmer) Hidden() bool { return true }

// TypeToConfirm requires the user to type the id of the post being deleted.
type TypeToConfirm struct{}

func (TypeToConfirm) Confirm(target string, input []byte) error {
	typed := strings.TrimSpace(string(input))
	if target == "" || subtle.ConstantTimeCompare([]byte(typed), []byte(target)) != 1 {
		return fmt.Errorf("confirm delete of %s: %w", target, common.ErrUnauthorized)
	}
	return nil
}

func (TypeToConfirm) Prompt(target string) string {
	return fmt.Sprintf("Type the post id (%s) to confirm deletion", target)
}

func (TypeToConfirm) Hidden() bool { return false }
