package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bizboard/internal/client/categories"
	"github.com/dmitrijs2005/bizboard/internal/client/localdb"
	"github.com/dmitrijs2005/bizboard/internal/client/models"
	"github.com/dmitrijs2005/bizboard/internal/client/remote"
	"github.com/dmitrijs2005/bizboard/internal/client/repositories/posts"
	"github.com/dmitrijs2005/bizboard/internal/common"
	"github.com/dmitrijs2005/bizboard/internal/logging"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory remote.Store. Setting down makes every call fail
// the way an unreachable database does.
type memStore struct {
	mu      sync.Mutex
	down    bool
	seq     int
	posts   []models.Post
	notes   []models.Notification
	noteErr error
}

var _ remote.Store = (*memStore)(nil)

func (m *memStore) setDown(v bool) {
	m.mu.Lock()
	m.down = v
	m.mu.Unlock()
}

func (m *memStore) check(op string) error {
	if m.down {
		return fmt.Errorf("%s: %w: connection refused", op, common.ErrUnavailable)
	}
	return nil
}

func (m *memStore) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.check("ping")
}

func (m *memStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("list posts"); err != nil {
		return nil, err
	}
	return append([]models.Post(nil), m.posts...), nil
}

func (m *memStore) GetPost(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("get post"); err != nil {
		return nil, err
	}
	i := models.IndexOf(m.posts, id)
	if i < 0 {
		return nil, fmt.Errorf("get post: %w", common.ErrNotFound)
	}
	p := m.posts[i]
	return &p, nil
}

func (m *memStore) InsertPost(ctx context.Context, p models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("insert post"); err != nil {
		return nil, err
	}
	m.seq++
	p.ID = "r" + strconv.Itoa(m.seq)
	p.Source = models.SourceRemote
	m.posts = append([]models.Post{p}, m.posts...)
	return &p, nil
}

func (m *memStore) UpdatePost(ctx context.Context, p models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("update post"); err != nil {
		return nil, err
	}
	i := models.IndexOf(m.posts, p.ID)
	if i < 0 {
		return nil, fmt.Errorf("update post: %w", common.ErrNotFound)
	}
	m.posts[i] = p
	return &p, nil
}

func (m *memStore) DeletePost(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("delete post"); err != nil {
		return err
	}
	if models.IndexOf(m.posts, id) < 0 {
		return fmt.Errorf("delete post: %w", common.ErrNotFound)
	}
	m.posts = models.Without(m.posts, id)
	return nil
}

func (m *memStore) InsertNotification(ctx context.Context, n models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.noteErr != nil {
		return m.noteErr
	}
	if err := m.check("insert notification"); err != nil {
		return err
	}
	n.ID = "n" + strconv.Itoa(len(m.notes)+1)
	m.notes = append(m.notes, n)
	return nil
}

func (m *memStore) ListUnreadNotifications(ctx context.Context) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("list notifications"); err != nil {
		return nil, err
	}
	var out []models.Notification
	for _, n := range m.notes {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memStore) MarkNotificationRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("mark notification"); err != nil {
		return err
	}
	for i := range m.notes {
		if m.notes[i].ID == id {
			m.notes[i].Read = true
			return nil
		}
	}
	return fmt.Errorf("mark notification: %w", common.ErrNotFound)
}

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	svc   PostService
	store *memStore
	cache *posts.SQLiteRepository
	clock *clock
}

func newFixture(t *testing.T, ttl time.Duration) *fixture {
	t.Helper()
	db, err := localdb.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		store: &memStore{},
		cache: posts.NewSQLiteRepository(db),
		clock: newClock(),
	}
	f.svc = NewPostService(
		f.store,
		f.cache,
		categories.NewRegistry(),
		TypeToConfirm{},
		PostServiceConfig{TTL: ttl, RemoteTimeout: time.Second},
		logging.Discard(),
		WithClock(f.clock.Now),
	)
	return f
}

func draft() models.PostDraft {
	return models.PostDraft{
		AuthorName:   "Maria Lima",
		CompanyName:  "Volt Engenharia",
		Description:  "Protection studies for a 138 kV substation",
		ContactEmail: "maria@volt.example",
		ContactPhone: "+55 21 98888-1111",
		Category:     "electrical-studies",
	}
}
