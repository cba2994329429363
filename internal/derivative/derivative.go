// Package derivative materialises thumbnail and preview variants for every
// original in an upload directory.
//
// Generators run over the whole directory and must be idempotent: a second
// run over a directory whose originals already have derivatives succeeds and
// changes nothing.
package derivative

import (
	"context"
	"path/filepath"
	"strings"
)

// Generator produces missing derivatives for the originals stored in dir.
type Generator interface {
	Generate(ctx context.Context, dir string) error
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, dir string) error

func (f GeneratorFunc) Generate(ctx context.Context, dir string) error {
	return f(ctx, dir)
}

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

func isImage(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
