package gallery

import (
	"context"

	"github.com/Oxyrus/phototags/internal/assets"
	"github.com/Oxyrus/phototags/internal/storage"
)

// Reconciliation compares the catalog against the upload directory.
type Reconciliation struct {
	// MissingOriginals are records whose original file is gone.
	MissingOriginals []storage.Photo
	// MissingDerivatives are records lacking a thumbnail or preview.
	MissingDerivatives []storage.Photo
	// OrphanFiles are stored originals with no record.
	OrphanFiles []string
}

// Clean reports whether catalog and directory agree.
func (r Reconciliation) Clean() bool {
	return len(r.MissingOriginals) == 0 && len(r.MissingDerivatives) == 0 && len(r.OrphanFiles) == 0
}

// Reconcile reports every inconsistency between records and files. It only
// reads; repairing is left to the operator.
func (m *Manager) Reconcile(ctx context.Context) (Reconciliation, error) {
	photos, err := m.photos.List(ctx)
	if err != nil {
		return Reconciliation{}, newError(KindPersistence, "Server Error locating images.", err)
	}

	originals, err := m.assets.Originals()
	if err != nil {
		return Reconciliation{}, newError(KindStorage, "Failed to list the upload directory.", err)
	}

	var result Reconciliation
	known := make(map[string]struct{}, len(photos))
	for _, p := range photos {
		known[p.Filename] = struct{}{}

		present := make(map[assets.Variant]bool, len(assets.Variants))
		for _, v := range assets.Variants {
			ok, err := m.assets.Exists(v, p.Filename)
			if err != nil {
				return Reconciliation{}, newError(KindStorage, "Failed to inspect stored images.", err)
			}
			present[v] = ok
		}

		if !present[assets.Original] {
			result.MissingOriginals = append(result.MissingOriginals, p)
		}
		if !present[assets.Thumbnail] || !present[assets.Preview] {
			result.MissingDerivatives = append(result.MissingDerivatives, p)
		}
	}

	for _, name := range originals {
		if _, ok := known[name]; !ok {
			result.OrphanFiles = append(result.OrphanFiles, name)
		}
	}

	return result, nil
}

// Regenerate runs the derivative generator over the upload directory and
// records derivatives for every photo that now has both. It returns the
// number of photos newly marked. A failed run still marks the photos it did
// complete; the failure is returned alongside the count.
func (m *Manager) Regenerate(ctx context.Context) (int, error) {
	genErr := m.generate(ctx)
	if genErr != nil {
		m.logger.Error("derivative generation failed", "error", genErr)
	}

	photos, err := m.photos.List(ctx)
	if err != nil {
		return 0, newError(KindPersistence, "Server Error locating images.", err)
	}

	marked := 0
	for _, p := range photos {
		if p.HasDerivatives() {
			continue
		}
		updated, err := m.markIfComplete(ctx, p)
		if err != nil {
			return marked, newError(KindPersistence, "Failed to record generated derivatives.", err)
		}
		if updated.HasDerivatives() {
			marked++
		}
	}

	m.logger.Info("derivatives regenerated", "marked", marked)
	if genErr != nil {
		return marked, newError(KindGeneration, "Failure to create thumbnails!", genErr)
	}
	return marked, nil
}
