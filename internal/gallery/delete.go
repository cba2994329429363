package gallery

import (
	"context"
	"errors"
	"fmt"

	"github.com/Oxyrus/phototags/internal/assets"
	"github.com/Oxyrus/phototags/internal/storage"
)

// Outcome describes how far a deletion got.
type Outcome int

const (
	// CatalogOnly means the record is gone but no file was removed.
	CatalogOnly Outcome = iota + 1
	// PartiallyRemoved means some variants were removed before a failure.
	PartiallyRemoved
	// FullyRemoved means the record and all three variants are gone.
	FullyRemoved
)

func (o Outcome) String() string {
	switch o {
	case CatalogOnly:
		return "catalog-only-removed"
	case PartiallyRemoved:
		return "partially-removed"
	case FullyRemoved:
		return "fully-removed"
	}
	return "not-removed"
}

// DeletionReport lists what a deletion removed so that orphaned variants can
// be reconciled. Failed is empty when every variant was removed.
type DeletionReport struct {
	Photo   storage.Photo
	Removed []assets.Variant
	Failed  assets.Variant
	Outcome Outcome
}

// Delete removes the catalog record first and then the original, thumbnail
// and preview files, stopping at the first file that cannot be removed.
// A missing record is a KindNotFound error with no file touched.
//
// The files removed are those named by the deleted record. filename is the
// caller's copy of it; a mismatch is logged.
func (m *Manager) Delete(ctx context.Context, id, filename string) (DeletionReport, error) {
	ctx = detach(ctx)

	if id == "" || filename == "" {
		return DeletionReport{}, newError(KindValidation, "You must select a photo to delete it.", nil)
	}

	photo, err := m.photos.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return DeletionReport{}, newError(KindNotFound, "Image not found!", err)
		}
		m.logger.Error("failed to delete photo record", "photoID", id, "error", err)
		return DeletionReport{}, newError(KindPersistence, "Server Error locating image.", err)
	}

	logger := m.logger.With("photoID", id, "filename", photo.Filename)
	if photo.Filename != filename {
		logger.Warn("delete request filename differs from record", "requested", filename)
	}

	report := DeletionReport{Photo: photo, Outcome: CatalogOnly}
	for _, v := range assets.Variants {
		if err := m.assets.Remove(v, photo.Filename); err != nil {
			report.Failed = v
			if len(report.Removed) > 0 {
				report.Outcome = PartiallyRemoved
			}
			logger.Error("failed to remove variant", "variant", v, "removed", report.Removed, "error", err)
			return report, newError(KindStorage, fmt.Sprintf("Failed to remove the %s image.", v), err)
		}
		report.Removed = append(report.Removed, v)
	}

	report.Outcome = FullyRemoved
	logger.Info("photo deleted")
	return report, nil
}
