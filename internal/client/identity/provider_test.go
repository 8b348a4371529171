package identity

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/bizboard/internal/client/localdb"
	"github.com/dmitrijs2005/bizboard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bizboard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenPattern = regexp.MustCompile(`^user_\d+_[0-9a-z]{9}$`)

func newRepo(t *testing.T) *metadata.SQLiteRepository {
	t.Helper()
	db, err := localdb.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "id.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteRepository(db)
}

func TestGetOrCreate_MintsAndPersists(t *testing.T) {
	repo := newRepo(t)
	p := NewProvider(repo)
	p.now = func() time.Time { return time.UnixMilli(1700000000123) }

	id, err := p.GetOrCreate(context.Background())
	require.NoError(t, err)
	assert.Regexp(t, tokenPattern, id)
	assert.Contains(t, id, "user_1700000000123_")

	stored, err := repo.Get(context.Background(), common.IdentityKey)
	require.NoError(t, err)
	assert.Equal(t, id, string(stored))
}

func TestGetOrCreate_IsStableAcrossProviders(t *testing.T) {
	repo := newRepo(t)

	first, err := NewProvider(repo).GetOrCreate(context.Background())
	require.NoError(t, err)
	second, err := NewProvider(repo).GetOrCreate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

type failingRepo struct{ getErr, setErr error }

func (f failingRepo) Get(context.Context, string) ([]byte, error) { return nil, f.getErr }
func (f failingRepo) Set(context.Context, string, []byte) error { return f.setErr }
func (f failingRepo) Delete(context.Context, string) error { return nil }

func TestGetOrCreate_StorageErrors(t *testing.T) {
	_, err := NewProvider(failingRepo{getErr: errors.New("io")}).GetOrCreate(context.Background())
	require.ErrorContains(t, err, "load identity")

	_, err = NewProvider(failingRepo{setErr: errors.New("io")}).GetOrCreate(context.Background())
	require.ErrorContains(t, err, "persist identity")
}

func TestNewToken_Unique(t *testing.T) {
	now := time.Now()
	a, err := newToken(now)
	require.NoError(t, err)
	b, err := newToken(now)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
