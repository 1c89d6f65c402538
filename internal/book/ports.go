package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	EnsureSchema(ctx context.Context) error
	ListSummaries(ctx context.Context) ([]Summary, error)
	GetByID(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, f Fields) (CreateResult, error)
	Update(ctx context.Context, id int64, f Fields) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Finder searches an external catalog and returns normalized books.
type Finder interface {
	Find(ctx context.Context, q ExternalQuery) ([]ExternalBook, error)
}
