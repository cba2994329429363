package derivative

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/Oxyrus/phototags/internal/assets"
)

// Imaging generates derivatives in process. Thumbnails are square crops of
// ThumbSize pixels; previews fit inside a PreviewSize box. Existing
// derivatives are left untouched.
type Imaging struct {
	ThumbSize   int
	PreviewSize int
	Logger      *slog.Logger
}

// NewImaging returns an Imaging generator with the given sizes.
func NewImaging(thumbSize, previewSize int, logger *slog.Logger) *Imaging {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Imaging{ThumbSize: thumbSize, PreviewSize: previewSize, Logger: logger}
}

// Generate walks the originals in dir. A file that cannot be decoded does not
// stop the run; every failure is returned joined once the batch completes.
func (g *Imaging) Generate(ctx context.Context, dir string) error {
	if g.ThumbSize <= 0 || g.PreviewSize <= 0 {
		return errors.New("derivative: sizes must be positive")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("derivative: read %s: %w", dir, err)
	}

	thumbs := filepath.Join(dir, assets.ThumbsDir)
	previews := filepath.Join(dir, assets.PreviewsDir)
	for _, d := range []string{thumbs, previews} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("derivative: create %s: %w", d, err)
		}
	}

	var errs []error
	created := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !entry.Type().IsRegular() || !isImage(entry.Name()) {
			continue
		}

		n, err := g.generateOne(dir, entry.Name(), thumbs, previews)
		created += n
		if err != nil {
			g.Logger.Warn("derivative generation failed", "filename", entry.Name(), "error", err)
			errs = append(errs, err)
		}
	}

	g.Logger.Info("derivative run finished", "dir", dir, "created", created, "failed", len(errs))
	return errors.Join(errs...)
}

func (g *Imaging) generateOne(dir, name, thumbs, previews string) (int, error) {
	thumbPath := filepath.Join(thumbs, name)
	previewPath := filepath.Join(previews, name)

	needThumb := !exists(thumbPath)
	needPreview := !exists(previewPath)
	if !needThumb && !needPreview {
		return 0, nil
	}

	src, err := imaging.Open(filepath.Join(dir, name), imaging.AutoOrientation(true))
	if err != nil {
		return 0, fmt.Errorf("derivative: decode %s: %w", name, err)
	}

	created := 0
	if needThumb {
		thumb := imaging.Fill(src, g.ThumbSize, g.ThumbSize, imaging.Center, imaging.Lanczos)
		if err := save(thumb, thumbPath); err != nil {
			return created, fmt.Errorf("derivative: thumbnail %s: %w", name, err)
		}
		created++
	}
	if needPreview {
		preview := imaging.Fit(src, g.PreviewSize, g.PreviewSize, imaging.Lanczos)
		if err := save(preview, previewPath); err != nil {
			return created, fmt.Errorf("derivative: preview %s: %w", name, err)
		}
		created++
	}
	return created, nil
}

// save encodes to a dot-prefixed sibling and renames it into place so readers
// never observe a partial derivative.
func save(img image.Image, path string) error {
	tmp := filepath.Join(filepath.Dir(path), ".tmp-"+filepath.Base(path))
	if err := imaging.Save(img, tmp); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

var _ Generator = (*Imaging)(nil)
