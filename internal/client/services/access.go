package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/bizboard/internal/auth"
	"github.com/dmitrijs2005/bizboard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bizboard/internal/common"
	"github.com/dmitrijs2005/bizboard/internal/cryptox"
	"github.com/dmitrijs2005/bizboard/internal/logging"
)

const signingKeySize = 32

// IdentitySource yields the actor token of the current profile.
type IdentitySource interface {
	GetOrCreate(ctx context.Context) (string, error)
}

// AccessService is the board entry gate.
//
//   - Required reports whether a passphrase is configured at all.
//   - Enter checks the passphrase and stores a token bound to the identity.
//   - Resume accepts a previously stored token that is still valid.
//   - Identity returns the actor once the gate has been passed.
type AccessService interface {
	Required() bool
	Enter(ctx context.Context, passphrase []byte) (string, error)
	Resume(ctx context.Context) (string, error)
	Identity() (string, bool)
	Leave(ctx context.Context) error
}

type AccessConfig struct {
	Salt          []byte
	Verifier      []byte
	TokenKey      []byte
	TokenValidity time.Duration
}

type accessService struct {
	meta     metadata.Repository
	identity IdentitySource
	log      logging.Logger
	cfg      AccessConfig
	now      func() time.Time

	mu      sync.Mutex
	key     []byte
	granted string
}

func NewAccessService(meta metadata.Repository, identity IdentitySource, cfg AccessConfig, log logging.Logger) AccessService {
	if cfg.TokenValidity <= 0 {
		cfg.TokenValidity = 24 * time.Hour
	}
	return &accessService{
		meta:     meta,
		identity: identity,
		log:      log.With("component", "access"),
		cfg:      cfg,
		now:      time.Now,
	}
}

func (a *accessService) Required() bool {
	return len(a.cfg.Verifier) > 0
}

func (a *accessService) Identity() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.granted, a.granted != ""
}

func (a *accessService) Enter(ctx context.Context, passphrase []byte) (string, error) {
	if a.Required() && !cryptox.Verify(passphrase, a.cfg.Salt, a.cfg.Verifier) {
		a.log.Warn(ctx, "access denied")
		return "", common.ErrUnauthorized
	}

	id, err := a.identity.GetOrCreate(ctx)
	if err != nil {
		return "", err
	}
	key, err := a.signingKey(ctx)
	if err != nil {
		return "", err
	}

	token, err := auth.GenerateToken(id, key, a.cfg.TokenValidity, a.now())
	if err != nil {
		return "", err
	}
	if err := a.meta.Set(ctx, common.AccessTokenKey, []byte(token)); err != nil {
		return "", fmt.Errorf("store access token: %w", err)
	}

	a.grant(id)
	return id, nil
}

// Resume returns ErrUnauthorized when there is no stored token and
// ErrTokenExpired or ErrInvalidToken when the stored one cannot be used.
func (a *accessService) Resume(ctx context.Context) (string, error) {
	stored, err := a.meta.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", fmt.Errorf("load access token: %w", err)
	}
	if len(stored) == 0 {
		return "", common.ErrUnauthorized
	}

	key, err := a.signingKey(ctx)
	if err != nil {
		return "", err
	}
	subject, err := auth.IdentityFromToken(string(stored), key)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			a.log.Info(ctx, "access token expired")
		}
		return "", err
	}

	id, err := a.identity.GetOrCreate(ctx)
	if err != nil {
		return "", err
	}
	if subject != id {
		return "", fmt.Errorf("token issued to another identity: %w", common.ErrInvalidToken)
	}

	a.grant(id)
	return id, nil
}

func (a *accessService) Leave(ctx context.Context) error {
	a.mu.Lock()
	a.granted = ""
	a.mu.Unlock()

	if err := a.meta.Delete(ctx, common.AccessTokenKey); err != nil {
		return fmt.Errorf("drop access token: %w", err)
	}
	return nil
}

func (a *accessService) grant(id string) {
	a.mu.Lock()
	a.granted = id
	a.mu.Unlock()
}

// signingKey returns the configured key, or a random one kept in local
// metadata so tokens survive restarts.
func (a *accessService) signingKey(ctx context.Context) ([]byte, error) {
	if len(a.cfg.TokenKey) > 0 {
		return a.cfg.TokenKey, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.key != nil {
		return a.key, nil
	}

	key, err := a.meta.Get(ctx, common.AccessSigningKey)
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}
	if len(key) == 0 {
		key = common.GenerateRandByteArray(signingKeySize)
		if key == nil {
			return nil, errors.New("generate signing key: random source failed")
		}
		if err := a.meta.Set(ctx, common.AccessSigningKey, key); err != nil {
			return nil, fmt.Errorf("store signing key: %w", err)
		}
	}
	a.key = key
	return key, nil
}
