package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/bizboard/internal/client/models"
	"github.com/dmitrijs2005/bizboard/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/bizboard/internal/common"
	"github.com/dmitrijs2005/bizboard/internal/dbx"
)

type SQLiteRepository struct {
	db  *sql.DB
	key string
	mu  sync.Mutex
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, key: common.PostsKey}
}

func (r *SQLiteRepository) Load(ctx context.Context) ([]models.Post, error) {
	return r.load(ctx, metadata.NewSQLiteRepository(r.db))
}

func (r *SQLiteRepository) Mutate(ctx context.Context, fn MutateFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		kv := metadata.NewSQLiteRepository(tx)

		current, err := r.load(ctx, kv)
		if err != nil {
			return err
		}

		next, changed, err := fn(current)
		if err != nil || !changed {
			return err
		}

		if next == nil {
			next = []models.Post{}
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode cached posts: %w", err)
		}
		return kv.Set(ctx, r.key, raw)
	})
}

func (r *SQLiteRepository) load(ctx context.Context, kv metadata.Repository) ([]models.Post, error) {
	raw, err := kv.Get(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []models.Post{}, nil
	}

	var out []models.Post
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode cached posts: %w", err)
	}
	if out == nil {
		out = []models.Post{}
	}
	return out, nil
}
