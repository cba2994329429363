// Package gallery implements the photo-asset lifecycle: ingesting uploads,
// deleting photos with all their variants, tag filtering and reconciliation
// between the catalog and the upload directory.
package gallery

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Oxyrus/phototags/internal/assets"
	"github.com/Oxyrus/phototags/internal/derivative"
	"github.com/Oxyrus/phototags/internal/storage"
)

// AssetStore is the file layout the pipelines write to. *assets.FS
// implements it.
type AssetStore interface {
	Root() string
	Put(filename string, r io.Reader) (int64, error)
	Remove(v assets.Variant, filename string) error
	Exists(v assets.Variant, filename string) (bool, error)
	Open(v assets.Variant, filename string) (io.ReadCloser, error)
	Originals() ([]string, error)
}

// Manager coordinates the catalog, the asset store and the derivative
// generator. Requests are not serialised against each other.
type Manager struct {
	photos    storage.Photos
	assets    AssetStore
	generator derivative.Generator
	logger    *slog.Logger
	clock     *stampClock
	now       func() time.Time
	timeout   time.Duration
}

// Option customises a Manager.
type Option func(*Manager)

// WithClock replaces the time source used for filename stamps and
// derivative timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithGenerateTimeout bounds every derivative generator run. Zero leaves runs
// unbounded.
func WithGenerateTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.timeout = d
		}
	}
}

func New(photos storage.Photos, store AssetStore, generator derivative.Generator, logger *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		photos:    photos,
		assets:    store,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.clock = &stampClock{now: m.now}
	return m
}

// detach keeps side effects running after the caller has gone away.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// generate runs the generator over the upload directory. The timeout applies
// even on a detached context.
func (m *Manager) generate(ctx context.Context) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	return m.generator.Generate(ctx, m.assets.Root())
}
