package services

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/bizboard/internal/client/models"
)

// ErrViewClosed is returned for results that arrive after Board.Close.
var ErrViewClosed = errors.New("view closed")

// BoardState is an immutable snapshot of one board view.
type BoardState struct {
	Posts       []models.Post
	Categories  []models.Category
	Source      models.Source
	RefreshedAt time.Time
}

// Board is the materialized result set behind one view. State is never
// mutated in place: every change stores a new snapshot, so readers always see
// a complete one. After Close, late results are dropped.
type Board struct {
	svc    PostService
	state  atomic.Pointer[BoardState]
	closed atomic.Bool
	now    func() time.Time
}

func NewBoard(svc PostService) *Board {
	b := &Board{svc: svc, now: time.Now}
	b.state.Store(&BoardState{Categories: svc.Categories(nil)})
	return b
}

func (b *Board) Snapshot() BoardState {
	return *b.state.Load()
}

// Refresh replaces the snapshot with a fresh read.
func (b *Board) Refresh(ctx context.Context) (BoardState, error) {
	listing, err := b.svc.List(ctx)
	if err != nil {
		return b.Snapshot(), err
	}

	next := &BoardState{
		Posts:       listing.Posts,
		Categories:  b.svc.Categories(listing.Posts),
		Source:      listing.Source,
		RefreshedAt: b.now(),
	}
	if b.closed.Load() {
		return BoardState{}, ErrViewClosed
	}
	b.state.Store(next)
	return *next, nil
}

// Filter returns the snapshot posts in category, or all of them for "".
func (b *Board) Filter(category string) []models.Post {
	all := b.Snapshot().Posts
	if category == "" {
		return all
	}
	out := make([]models.Post, 0, len(all))
	for _, p := range all {
		if p.Category.Value == category {
			out = append(out, p)
		}
	}
	return out
}

// Find looks id up in the current snapshot.
func (b *Board) Find(id string) (models.Post, bool) {
	posts := b.Snapshot().Posts
	if i := models.IndexOf(posts, id); i >= 0 {
		return posts[i], true
	}
	return models.Post{}, false
}

// Delete removes the post through the coordinator and then drops it from the
// snapshot, so the removal shows without another read.
func (b *Board) Delete(ctx context.Context, id string, confirmation []byte) error {
	if err := b.svc.Delete(ctx, id, confirmation); err != nil {
		return err
	}
	b.update(func(st BoardState) BoardState {
		st.Posts = models.Without(st.Posts, id)
		return st
	})
	return nil
}

func (b *Board) update(fn func(BoardState) BoardState) {
	for {
		if b.closed.Load() {
			return
		}
		cur := b.state.Load()
		next := fn(*cur)
		if b.state.CompareAndSwap(cur, &next) {
			return
		}
	}
}

func (b *Board) Close() {
	b.closed.Store(true)
}
