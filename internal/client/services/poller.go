package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/bizboard/internal/client/models"
	"github.com/dmitrijs2005/bizboard/internal/logging"
)

// NotificationSource is the part of the remote store the poller needs.
type NotificationSource interface {
	ListUnreadNotifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

type pollState struct {
	watermark time.Time
	unread    []models.Notification
	// ids marked read here; excluded from every later fetch even if the
	// remote flag update failed
	readLocally map[string]struct{}
}

func (s *pollState) clone() *pollState {
	next := &pollState{
		watermark:   s.watermark,
		unread:      s.unread,
		readLocally: make(map[string]struct{}, len(s.readLocally)),
	}
	for id := range s.readLocally {
		next.readLocally[id] = struct{}{}
	}
	return next
}

type PollerOption func(*Poller)

func WithPollerClock(now func() time.Time) PollerOption {
	return func(p *Poller) { p.now = now }
}

func WithPollTimeout(d time.Duration) PollerOption {
	return func(p *Poller) { p.timeout = d }
}

// Poller tracks unread notifications for one consumer. Only notifications
// created after the watermark are announced through onNew. The watermark
// starts at construction time and then follows the newest announced item.
type Poller struct {
	src     NotificationSource
	log     logging.Logger
	onNew   func([]models.Notification)
	now     func() time.Time
	timeout time.Duration

	mu    sync.Mutex // serializes writers; readers use state directly
	state atomic.Pointer[pollState]
}

func NewPoller(src NotificationSource, log logging.Logger, onNew func([]models.Notification), opts ...PollerOption) *Poller {
	p := &Poller{
		src:   src,
		log:   log.With("component", "poller"),
		onNew: onNew,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state.Store(&pollState{watermark: p.now(), readLocally: map[string]struct{}{}})
	return p
}

func (p *Poller) Watermark() time.Time {
	return p.state.Load().watermark
}

// Unread returns the current unread view, newest first.
func (p *Poller) Unread() []models.Notification {
	return p.state.Load().unread
}

// Check runs one poll cycle and returns the notifications it announced.
// A failed fetch changes nothing. A result that arrives after ctx is done is
// discarded.
func (p *Poller) Check(ctx context.Context) ([]models.Notification, error) {
	fctx, cancel := ctx, context.CancelFunc(func() {})
	if p.timeout > 0 {
		fctx, cancel = context.WithTimeout(ctx, p.timeout)
	}
	fetched, err := p.src.ListUnreadNotifications(fctx)
	cancel()
	if err != nil {
		p.log.Warn(ctx, "notification poll failed", "err", err)
		return nil, fmt.Errorf("poll notifications: %w", err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	p.mu.Lock()
	cur := p.state.Load()
	next := cur.clone()

	unread := make([]models.Notification, 0, len(fetched))
	fresh := make([]models.Notification, 0)
	seen := make(map[string]struct{}, len(fetched))
	newest := cur.watermark
	for _, n := range fetched {
		seen[n.ID] = struct{}{}
		if _, done := cur.readLocally[n.ID]; done {
			continue
		}
		unread = append(unread, n)
		if n.CreatedAt.After(cur.watermark) {
			fresh = append(fresh, n)
			if n.CreatedAt.After(newest) {
				newest = n.CreatedAt
			}
		}
	}
	// the remote no longer lists these as unread, so the flag update landed
	for id := range next.readLocally {
		if _, ok := seen[id]; !ok {
			delete(next.readLocally, id)
		}
	}

	next.unread = unread
	// CreatedAt is stamped by the database; only remote timestamps move the
	// watermark so client clock skew cannot hide an item
	next.watermark = latest(cur.watermark, newest)
	p.state.Store(next)
	p.mu.Unlock()

	if len(fresh) > 0 && p.onNew != nil {
		p.onNew(fresh)
	}
	return fresh, nil
}

// MarkAsRead drops id from the unread view before the remote call and keeps
// it dropped whatever the remote answers.
func (p *Poller) MarkAsRead(ctx context.Context, id string) error {
	p.mu.Lock()
	next := p.state.Load().clone()
	next.readLocally[id] = struct{}{}
	unread := make([]models.Notification, 0, len(next.unread))
	for _, n := range next.unread {
		if n.ID != id {
			unread = append(unread, n)
		}
	}
	next.unread = unread
	p.state.Store(next)
	p.mu.Unlock()

	if err := p.src.MarkNotificationRead(ctx, id); err != nil {
		p.log.Warn(ctx, "remote mark-as-read failed", "notification_id", id, "err", err)
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return nil
}

func latest(ts ...time.Time) time.Time {
	var out time.Time
	for _, t := range ts {
		if t.After(out) {
			out = t
		}
	}
	return out
}
