// Package services holds the board's application logic: the post
// coordinator that routes every operation between the remote store and the
// local cache, the per-view board state, the notification poller and the
// access gate.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/bizboard/internal/client/categories"
	"github.com/dmitrijs2005/bizboard/internal/client/models"
	"github.com/dmitrijs2005/bizboard/internal/client/remote"
	"github.com/dmitrijs2005/bizboard/internal/client/repositories/posts"
	"github.com/dmitrijs2005/bizboard/internal/common"
	"github.com/dmitrijs2005/bizboard/internal/logging"
	"github.com/google/uuid"
)

// DefaultTTL applies when a non-positive TTL is configured.
const DefaultTTL = 30 * 24 * time.Hour

// Mode is the routing state of the coordinator.
type Mode string

const (
	// ModePrimary: the last remote call succeeded.
	ModePrimary Mode = "online"
	// ModeDegraded: the last remote call failed as unavailable.
	ModeDegraded Mode = "offline"
)

// Listing is one read result. Source tells which store produced it.
type Listing struct {
	Posts  []models.Post
	Source models.Source
}

type PostService interface {
	List(ctx context.Context) (Listing, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, draft models.PostDraft, actor string) (*models.Post, error)
	Update(ctx context.Context, id string, draft models.PostDraft, actor string) (*models.Post, error)
	Delete(ctx context.Context, id string, confirmation []byte) error
	CanEdit(p models.Post, actor string) bool
	Sweep(ctx context.Context) (int, error)
	Probe(ctx context.Context) error
	Categories(posts []models.Post) []models.Category
	Mode() Mode
}

type PostServiceConfig struct {
	TTL           time.Duration
	RemoteTimeout time.Duration
}

type PostOption func(*postService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) PostOption {
	return func(s *postService) { s.now = now }
}

type postService struct {
	remote    remote.Store
	cache     posts.Repository
	registry  *categories.Registry
	confirmer Confirmer
	log       logging.Logger

	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	mu   sync.Mutex
	mode Mode
}

func NewPostService(
	store remote.Store,
	cache posts.Repository,
	registry *categories.Registry,
	confirmer Confirmer,
	cfg PostServiceConfig,
	log logging.Logger,
	opts ...PostOption,
) PostService {
	s := &postService{
		remote:    store,
		cache:     cache,
		registry:  registry,
		confirmer: confirmer,
		log:       log.With("component", "posts"),
		ttl:       cfg.TTL,
		timeout:   cfg.RemoteTimeout,
		now:       time.Now,
		mode:      ModePrimary,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *postService) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// observe feeds the outcome of a remote call into the mode state machine.
// Only ErrUnavailable degrades; any answer from the remote, including
// NotFound, proves it reachable.
func (s *postService) observe(ctx context.Context, err error) {
	next := ModePrimary
	if errors.Is(err, common.ErrUnavailable) {
		next = ModeDegraded
	}

	s.mu.Lock()
	changed := s.mode != next
	s.mode = next
	s.mu.Unlock()

	if changed {
		s.log.Info(ctx, fmt.Sprintf("Switched to %s mode", next))
	}
}

func (s *postService) remoteCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *postService) Probe(ctx context.Context) error {
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()

	err := s.remote.Ping(rctx)
	s.observe(ctx, err)
	return err
}

// List reads from the remote store and falls back to the local cache. The
// two sets are never merged. Expired posts are dropped from either.
func (s *postService) List(ctx context.Context) (Listing, error) {
	rctx, cancel := s.remoteCtx(ctx)
	remotePosts, err := s.remote.ListPosts(rctx)
	cancel()
	s.observe(ctx, err)

	if err == nil {
		return Listing{Posts: models.Live(remotePosts, s.now()), Source: models.SourceRemote}, nil
	}

	s.log.Warn(ctx, "remote list failed, reading local cache", "err", err)
	cached, lerr := s.cache.Load(ctx)
	if lerr != nil {
		return Listing{}, fmt.Errorf("list posts: local cache: %w", lerr)
	}
	local := models.WithSource(cached, models.SourceLocal)
	return Listing{Posts: models.Live(local, s.now()), Source: models.SourceLocal}, nil
}

// Get finds a post for editing: remote first, then the local cache, which
// also holds posts created while offline.
func (s *postService) Get(ctx context.Context, id string) (*models.Post, error) {
	rctx, cancel := s.remoteCtx(ctx)
	p, err := s.remote.GetPost(rctx, id)
	cancel()
	s.observe(ctx, err)

	if err == nil {
		return p, nil
	}
	if !errors.Is(err, common.ErrNotFound) && !errors.Is(err, common.ErrUnavailable) {
		return nil, err
	}

	cached, lerr := s.cache.Load(ctx)
	if lerr != nil {
		return nil, fmt.Errorf("get post %s: local cache: %w", id, lerr)
	}
	if i := models.IndexOf(cached, id); i >= 0 {
		local := cached[i]
		local.Source = models.SourceLocal
		return &local, nil
	}
	return nil, fmt.Errorf("get post %s: %w", id, common.ErrNotFound)
}

func (s *postService) Create(ctx context.Context, draft models.PostDraft, actor string) (*models.Post, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	category, err := s.registry.Resolve(draft.Category, draft.CustomCategory)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := models.Post{
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		Owner:     models.OwnedBy(actor),
	}
	p = applyDraft(p, draft, category)

	rctx, cancel := s.remoteCtx(ctx)
	created, err := s.remote.InsertPost(rctx, p)
	cancel()
	s.observe(ctx, err)

	if err == nil {
		s.announce(ctx, *created)
		return created, nil
	}
	if !errors.Is(err, common.ErrUnavailable) {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Warn(ctx, "remote insert failed, saving post locally", "err", err)
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("create post: local id: %w", err)
	}
	p.ID = id.String()
	p.Source = models.SourceLocal

	err = s.cache.Mutate(ctx, func(cur []models.Post) ([]models.Post, bool, error) {
		next := make([]models.Post, 0, len(cur)+1)
		next = append(next, p)
		return append(next, cur...), true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("create post: local cache: %w", err)
	}
	return &p, nil
}

// announce records the new-post notification. Failures are logged only.
func (s *postService) announce(ctx context.Context, p models.Post) {
	msg := "New post from " + p.CompanyName
	if p.Category.Label != "" {
		msg += " (" + p.Category.Label + ")"
	}

	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	if err := s.remote.InsertNotification(rctx, models.Notification{PostID: p.ID, Message: msg}); err != nil {
		s.log.Warn(ctx, "notification enqueue failed", "post_id", p.ID, "err", err)
	}
}

func (s *postService) Update(ctx context.Context, id string, draft models.PostDraft, actor string) (*models.Post, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	category, err := s.registry.Resolve(draft.Category, draft.CustomCategory)
	if err != nil {
		return nil, err
	}

	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !target.Owner.Permits(actor) {
		return nil, fmt.Errorf("edit post %s: %w", id, common.ErrUnauthorized)
	}

	if target.Source != models.SourceLocal {
		rctx, cancel := s.remoteCtx(ctx)
		updated, err := s.remote.UpdatePost(rctx, applyDraft(*target, draft, category))
		cancel()
		s.observe(ctx, err)

		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, common.ErrUnavailable) && !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("edit post %s: %w", id, err)
		}
		s.log.Warn(ctx, "remote update failed, trying local cache", "post_id", id, "err", err)
	}

	var updated models.Post
	err = s.cache.Mutate(ctx, func(cur []models.Post) ([]models.Post, bool, error) {
		i := models.IndexOf(cur, id)
		if i < 0 {
			return nil, false, fmt.Errorf("edit post %s: %w", id, common.ErrNotFound)
		}
		if !cur[i].Owner.Permits(actor) {
			return nil, false, fmt.Errorf("edit post %s: %w", id, common.ErrUnauthorized)
		}
		next := append([]models.Post(nil), cur...)
		next[i] = applyDraft(cur[i], draft, category)
		updated = next[i]
		return next, true, nil
	})
	if err != nil {
		return nil, err
	}
	updated.Source = models.SourceLocal
	return &updated, nil
}

// Delete asks the confirmer first; nothing is touched when it refuses.
func (s *postService) Delete(ctx context.Context, id string, confirmation []byte) error {
	if err := s.confirmer.Confirm(id, confirmation); err != nil {
		return err
	}

	rctx, cancel := s.remoteCtx(ctx)
	err := s.remote.DeletePost(rctx, id)
	cancel()
	s.observe(ctx, err)

	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrUnavailable) && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("delete post %s: %w", id, err)
	}

	return s.cache.Mutate(ctx, func(cur []models.Post) ([]models.Post, bool, error) {
		if models.IndexOf(cur, id) < 0 {
			return nil, false, fmt.Errorf("delete post %s: %w", id, common.ErrNotFound)
		}
		return models.Without(cur, id), true, nil
	})
}

func (s *postService) CanEdit(p models.Post, actor string) bool {
	return p.Owner.Permits(actor)
}

// Sweep prunes expired posts from the local cache. The cache is rewritten
// only when something was removed. The remote store is never touched.
func (s *postService) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	removed := 0

	err := s.cache.Mutate(ctx, func(cur []models.Post) ([]models.Post, bool, error) {
		live := models.Live(cur, now)
		removed = len(cur) - len(live)
		return live, removed > 0, nil
	})
	if err != nil {
		return 0, fmt.Errorf("sweep local cache: %w", err)
	}
	if removed > 0 {
		s.log.Info(ctx, "expired posts pruned from local cache", "removed", removed)
	}
	return removed, nil
}

func (s *postService) Categories(ps []models.Post) []models.Category {
	return s.registry.DeriveDisplayTaxonomy(ps)
}

// applyDraft overwrites the editable fields. Id, timestamps, owner and source
// are kept from p.
func applyDraft(p models.Post, d models.PostDraft, c models.Category) models.Post {
	p.AuthorName = d.AuthorName
	p.CompanyName = d.CompanyName
	p.Description = d.Description
	p.ContactEmail = d.ContactEmail
	p.ContactPhone = d.ContactPhone
	p.Category = c
	return p
}
