package gallery_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Oxyrus/phototags/internal/assets"
	"github.com/Oxyrus/phototags/internal/derivative"
	"github.com/Oxyrus/phototags/internal/gallery"
	"github.com/Oxyrus/phototags/internal/storage"
	"github.com/Oxyrus/phototags/internal/storage/sqlite"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	manager *gallery.Manager
	photos  storage.Photos
	assets  *assets.FS
	runs    int
}

func newFixture(t *testing.T, gen derivative.Generator) *fixture {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "phototags.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return newFixtureWithPhotos(t, store.Photos(), gen)
}

func newFixtureWithPhotos(t *testing.T, photos storage.Photos, gen derivative.Generator) *fixture {
	t.Helper()

	fs, err := assets.New(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("assets.New: %v", err)
	}

	f := &fixture{photos: photos, assets: fs}
	if gen == nil {
		gen = derivative.GeneratorFunc(func(_ context.Context, dir string) error {
			f.runs++
			return copyDerivatives(dir)
		})
	}

	f.manager = gallery.New(photos, fs, gen, newTestLogger(), gallery.WithClock(func() time.Time { return fixedNow }))
	return f
}

// copyDerivatives stands in for a real generator: every original lacking a
// thumbnail or preview gets a byte copy.
func copyDerivatives(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		for _, sub := range []string{assets.ThumbsDir, assets.PreviewsDir} {
			target := filepath.Join(dir, sub, entry.Name())
			if _, err := os.Stat(target); err == nil {
				continue
			}
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *fixture) ingest(t *testing.T, name, tags string) gallery.Receipt {
	t.Helper()
	receipt, err := f.manager.Ingest(context.Background(), gallery.Upload{
		File:         stringReader(name),
		OriginalName: name,
		Tags:         tags,
		User:         "admin",
	})
	if err != nil {
		t.Fatalf("Ingest %s returned error: %v", name, err)
	}
	return receipt
}

func (f *fixture) exists(t *testing.T, v assets.Variant, filename string) bool {
	t.Helper()
	ok, err := f.assets.Exists(v, filename)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	return ok
}

func (f *fixture) storedOriginals(t *testing.T) []string {
	t.Helper()
	names, err := f.assets.Originals()
	if err != nil {
		t.Fatalf("Originals: %v", err)
	}
	return names
}

func (f *fixture) count(t *testing.T) int {
	t.Helper()
	photos, err := f.photos.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return len(photos)
}

type readerFunc func([]byte) (int, error)

func (r readerFunc) Read(p []byte) (int, error) { return r(p) }

func stringReader(s string) io.Reader {
	data := []byte("image:" + s)
	return readerFunc(func(p []byte) (int, error) {
		if len(data) == 0 {
			return 0, io.EOF
		}
		n := copy(p, data)
		data = data[n:]
		return n, nil
	})
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}
