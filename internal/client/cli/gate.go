package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bizboard/internal/common"
)

const maxEntryAttempts = 3

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Enter resumes a stored access token or, failing that, asks for the access
// passphrase. An open board needs no passphrase.
func (a *App) Enter(ctx context.Context) error {
	id, err := a.access.Resume(ctx)
	if err == nil {
		a.actor = id
		return nil
	}
	if !errors.Is(err, common.ErrUnauthorized) &&
		!errors.Is(err, common.ErrTokenExpired) &&
		!errors.Is(err, common.ErrInvalidToken) {
		return err
	}

	if !a.access.Required() {
		id, err := a.access.Enter(ctx, nil)
		if err != nil {
			return err
		}
		a.actor = id
		return nil
	}

	for attempt := 0; attempt < maxEntryAttempts; attempt++ {
		pass, err := getPassword("Access passphrase", a.out)
		if err != nil {
			return err
		}
		id, err := a.access.Enter(ctx, pass)
		common.WipeByteArray(pass)

		if err == nil {
			a.actor = id
			fmt.Fprintln(a.out, "Access granted")
			return nil
		}
		if !errors.Is(err, common.ErrUnauthorized) {
			return err
		}
		fmt.Fprintln(a.out, "Wrong passphrase")
	}
	return common.ErrUnauthorized
}

// Logout drops the stored access token; the next start asks again.
func (a *App) Logout(ctx context.Context) error {
	if err := a.access.Leave(ctx); err != nil {
		return err
	}
	a.actor = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
