// Package remote is the adapter for the authoritative board store: a
// PostgreSQL database with a posts table and a notifications table.
//
// Every failure is reported through the sentinel errors of package common:
// ErrNotFound when the target row does not exist, ErrValidation when the
// database rejects the data, and ErrUnavailable for everything else.
// Callers treat ErrUnavailable as the signal to fall back to the local cache.
package remote

import (
	"context"

	"github.com/dmitrijs2005/bizboard/internal/client/models"
)

//go:generate mockgen -source=store.go -destination=mocks/mock.go -package=mocks

type Store interface {
	Ping(ctx context.Context) error

	// ListPosts returns every post, newest first.
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	// InsertPost stores p and returns it with the id assigned by the database.
	InsertPost(ctx context.Context, p models.Post) (*models.Post, error)
	// UpdatePost overwrites the editable fields of the post with p.ID.
	UpdatePost(ctx context.Context, p models.Post) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error

	InsertNotification(ctx context.Context, n models.Notification) error
	ListUnreadNotifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}
