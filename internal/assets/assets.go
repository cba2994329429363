// Package assets manages the on-disk layout of photo variants. An original
// lives at <root>/<filename>; its derivatives share the same filename under
// <root>/thumbs and <root>/previews.
package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// ErrExists is returned by Put when an original already uses the filename.
var ErrExists = errors.New("assets: file already exists")

// Variant identifies one of the three stored representations of a photo.
type Variant string

const (
	Original  Variant = "original"
	Thumbnail Variant = "thumbnail"
	Preview   Variant = "preview"
)

// Variants lists every variant in removal order.
var Variants = []Variant{Original, Thumbnail, Preview}

// Directory names used by the derivative generator.
const (
	ThumbsDir   = "thumbs"
	PreviewsDir = "previews"
)

// FS stores variants below a root directory. Individual create and remove
// calls are atomic at the file-system level; nothing coordinates across calls.
type FS struct {
	root string
}

// New returns an FS rooted at dir, creating the variant directories.
func New(dir string) (*FS, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("assets: root directory must not be empty")
	}

	for _, d := range []string{dir, filepath.Join(dir, ThumbsDir), filepath.Join(dir, PreviewsDir)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("assets: create %s: %w", d, err)
		}
	}

	return &FS{root: dir}, nil
}

// Root returns the upload directory holding the originals.
func (s *FS) Root() string {
	return s.root
}

// Path returns the location of the given variant of filename.
func (s *FS) Path(v Variant, filename string) string {
	switch v {
	case Thumbnail:
		return filepath.Join(s.root, ThumbsDir, filename)
	case Preview:
		return filepath.Join(s.root, PreviewsDir, filename)
	default:
		return filepath.Join(s.root, filename)
	}
}

// Put writes r as the original variant of filename and returns the number of
// bytes written. The content becomes visible under its final name only once it
// is complete. Put refuses to replace an existing original.
func (s *FS) Put(filename string, r io.Reader) (int64, error) {
	if err := checkName(filename); err != nil {
		return 0, err
	}

	path := s.Path(Original, filename)
	if _, err := os.Lstat(path); err == nil {
		return 0, fmt.Errorf("%w: %s", ErrExists, filename)
	} else if !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("assets: stat %s: %w", filename, err)
	}

	cr := &countingReader{r: r}
	if err := atomic.WriteFile(path, cr); err != nil {
		return cr.n, fmt.Errorf("assets: write %s: %w", filename, err)
	}

	// atomic writes through a 0600 temp file.
	if err := os.Chmod(path, 0o644); err != nil {
		return cr.n, fmt.Errorf("assets: chmod %s: %w", filename, err)
	}

	return cr.n, nil
}

// Remove deletes one variant. A missing file is reported as an error wrapping
// os.ErrNotExist.
func (s *FS) Remove(v Variant, filename string) error {
	if err := checkName(filename); err != nil {
		return err
	}

	if err := os.Remove(s.Path(v, filename)); err != nil {
		return fmt.Errorf("assets: remove %s %s: %w", v, filename, err)
	}
	return nil
}

// Exists reports whether the variant is present on disk.
func (s *FS) Exists(v Variant, filename string) (bool, error) {
	if err := checkName(filename); err != nil {
		return false, err
	}

	info, err := os.Stat(s.Path(v, filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("assets: stat %s %s: %w", v, filename, err)
	}
	return info.Mode().IsRegular(), nil
}

// Open returns a reader over the stored variant.
func (s *FS) Open(v Variant, filename string) (io.ReadCloser, error) {
	if err := checkName(filename); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path(v, filename))
	if err != nil {
		return nil, fmt.Errorf("assets: open %s %s: %w", v, filename, err)
	}
	return f, nil
}

// Originals lists the filenames of every stored original, skipping dot files
// and directories.
func (s *FS) Originals() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("assets: list %s: %w", s.root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func checkName(filename string) error {
	switch {
	case filename == "", filename == ".", filename == "..":
		return fmt.Errorf("assets: invalid filename %q", filename)
	case strings.ContainsAny(filename, `/\`):
		return fmt.Errorf("assets: filename %q must not contain path separators", filename)
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
