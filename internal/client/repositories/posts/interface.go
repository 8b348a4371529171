// Package posts is the local fallback cache. The whole post collection is one
// JSON document under a single metadata key and is replaced wholesale on
// every write.
package posts

import (
	"context"

	"github.com/dmitrijs2005/bizboard/internal/client/models"
)

// MutateFunc receives the current collection and returns the next one.
// Returning changed=false skips the write.
type MutateFunc func(current []models.Post) (next []models.Post, changed bool, err error)

type Repository interface {
	// Load returns the cached collection in stored order; an empty cache
	// yields an empty slice.
	Load(ctx context.Context) ([]models.Post, error)
	// Mutate runs a serialized read-modify-write cycle in one transaction.
	Mutate(ctx context.Context, fn MutateFunc) error
}
