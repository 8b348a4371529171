// Package identity owns the opaque per-profile actor token used to tag post
// ownership. It is not a credential.
package identity

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/bizboard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bizboard/internal/common"
)

const (
	suffixLen = 9
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

type Provider struct {
	repo metadata.Repository
	now  func() time.Time

	mu     sync.Mutex
	cached string
}

func NewProvider(repo metadata.Repository) *Provider {
	return &Provider{repo: repo, now: time.Now}
}

// GetOrCreate returns the persisted token, minting and storing one on first
// use. The token never changes afterwards.
func (p *Provider) GetOrCreate(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cached != "" {
		return p.cached, nil
	}

	stored, err := p.repo.Get(ctx, common.IdentityKey)
	if err != nil {
		return "", fmt.Errorf("load identity: %w", err)
	}
	if len(stored) > 0 {
		p.cached = string(stored)
		return p.cached, nil
	}

	token, err := newToken(p.now())
	if err != nil {
		return "", err
	}
	if err := p.repo.Set(ctx, common.IdentityKey, []byte(token)); err != nil {
		return "", fmt.Errorf("persist identity: %w", err)
	}
	p.cached = token
	return token, nil
}

// newToken builds "user_<unix millis>_<9 random base36 chars>".
func newToken(now time.Time) (string, error) {
	suffix := make([]byte, suffixLen)
	max := big.NewInt(int64(len(alphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate identity: %w", err)
		}
		suffix[i] = alphabet[n.Int64()]
	}
	return "user_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + string(suffix), nil
}
