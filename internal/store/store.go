package store

import (
	"context"

	"github.com/devaloi/postboard/internal/domain"
)

// Store defines the post persistence interface of the reference backend.
type Store interface {
	// List returns every post, most recent first.
	List(ctx context.Context) ([]domain.Post, error)
	// Create persists a post and returns it with its server-assigned fields.
	Create(ctx context.Context, text string) (domain.Post, error)
	// Close releases any resources held by the store.
	Close() error
}
