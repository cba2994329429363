package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates that the requested entity does not exist in the
// underlying storage.
var ErrNotFound = errors.New("storage: not found")

// Store exposes the persistence primitives required by the application. It is
// expected to be safe for concurrent use.
type Store interface {
	Photos() Photos
	Ping(ctx context.Context) error
	Close() error
}

// Photo is the catalog record for one uploaded image. Filename names the
// original variant on disk and, by convention, its thumbnail and preview.
type Photo struct {
	ID           string
	Filename     string
	OriginalName string
	Tags         []string
	TakenAt      *time.Time
	// DerivativesAt is nil until thumbnail and preview variants are known to exist.
	DerivativesAt *time.Time
	CreatedAt     time.Time
}

// HasDerivatives reports whether the thumbnail and preview were generated.
func (p Photo) HasDerivatives() bool {
	return p.DerivativesAt != nil
}

// PhotoCreate contains the data required to insert a new photo.
type PhotoCreate struct {
	Filename     string
	OriginalName string
	Tags         []string
	TakenAt      *time.Time
}

// Photos defines the operations supported by the photo catalog.
type Photos interface {
	Create(ctx context.Context, input PhotoCreate) (Photo, error)
	GetByID(ctx context.Context, id string) (Photo, error)
	List(ctx context.Context) ([]Photo, error)
	// ListByTags returns every photo carrying at least one of the given tags.
	ListByTags(ctx context.Context, tags []string) ([]Photo, error)
	// Delete removes the photo and returns the record as it was stored.
	Delete(ctx context.Context, id string) (Photo, error)
	MarkDerivatives(ctx context.Context, id string, at time.Time) error
}
