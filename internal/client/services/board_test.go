package services

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/bizboard/internal/client/models"
	"github.com/dmitrijs2005/bizboard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_RefreshAndFilter(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	b := NewBoard(f.svc)
	assert.Empty(t, b.Snapshot().Posts)
	assert.Len(t, b.Snapshot().Categories, 8)

	_, err := f.svc.Create(ctx, draft(), "user_a")
	require.NoError(t, err)
	d := draft()
	d.Category = common.OtherCategory
	d.CustomCategory = "Solar Panels"
	custom, err := f.svc.Create(ctx, d, "user_a")
	require.NoError(t, err)

	st, err := b.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SourceRemote, st.Source)
	assert.Len(t, st.Posts, 2)
	assert.Len(t, st.Categories, 9)

	only := b.Filter("custom-solar-panels")
	require.Len(t, only, 1)
	assert.Equal(t, custom.ID, only[0].ID)
	assert.Len(t, b.Filter(""), 2)
	assert.Empty(t, b.Filter("equipment"))

	got, ok := b.Find(custom.ID)
	require.True(t, ok)
	assert.Equal(t, "Solar Panels", got.Category.Label)
}

func TestBoard_RefreshFromCacheWhenOffline(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	f.store.setDown(true)

	_, err := f.svc.Create(ctx, draft(), "user_a")
	require.NoError(t, err)

	b := NewBoard(f.svc)
	st, err := b.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SourceLocal, st.Source)
	assert.Len(t, st.Posts, 1)
}

func TestBoard_DeleteRemovesFromSnapshot(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, draft(), "user_a")
	require.NoError(t, err)

	b := NewBoard(f.svc)
	_, err = b.Refresh(ctx)
	require.NoError(t, err)

	err = b.Delete(ctx, created.ID, []byte("nope"))
	require.ErrorIs(t, err, common.ErrUnauthorized)
	_, ok := b.Find(created.ID)
	assert.True(t, ok)

	require.NoError(t, b.Delete(ctx, created.ID, []byte(created.ID)))
	_, ok = b.Find(created.ID)
	assert.False(t, ok)
}

func TestBoard_ResultsAfterCloseAreDiscarded(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	b := NewBoard(f.svc)
	before := b.Snapshot()

	_, err := f.svc.Create(ctx, draft(), "user_a")
	require.NoError(t, err)

	b.Close()
	_, err = b.Refresh(ctx)
	require.ErrorIs(t, err, ErrViewClosed)
	assert.Equal(t, before, b.Snapshot())
}

func TestBoard_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := f.svc.Create(ctx, draft(), "user_a")
		require.NoError(t, err)
	}

	b := NewBoard(f.svc)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = b.Refresh(ctx)
		}()
		go func() {
			defer wg.Done()
			n := len(b.Snapshot().Posts)
			assert.True(t, n == 0 || n == 5, "partial snapshot of %d posts", n)
		}()
	}
	wg.Wait()
}
