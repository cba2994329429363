package gallery

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Oxyrus/phototags/internal/assets"
	"github.com/Oxyrus/phototags/internal/storage"
)

// Upload is one file submitted by an already authenticated user. A nil File
// means the form carried no file.
type Upload struct {
	File         io.Reader
	OriginalName string
	Tags         string
	User         string
}

// Receipt summarises a successful, or partially successful, ingestion.
type Receipt struct {
	Photo storage.Photo
	Size  int64
	// HumanSize is Size formatted for display, e.g. "1.2 MB".
	HumanSize string
	Message   string
}

// Ingest stores the upload, records it in the catalog and runs the derivative
// generator over the upload directory.
//
// A generation run that leaves this photo without derivatives returns both
// the receipt and a KindGeneration error: the original and its record are
// kept and the photo has no derivatives until the generator is run again.
// A run that fails only on other originals is logged and not reported.
// A catalog failure removes the stored original again.
func (m *Manager) Ingest(ctx context.Context, up Upload) (Receipt, error) {
	ctx = detach(ctx)

	if up.File == nil {
		return Receipt{}, newError(KindValidation, "You forgot to select a file.", nil)
	}
	if err := ValidateName(up.OriginalName); err != nil {
		return Receipt{}, err
	}

	filename := DeriveFilename(up.OriginalName, m.clock.Next())
	logger := m.logger.With("filename", filename, "originalName", up.OriginalName, "user", up.User)

	size, err := m.assets.Put(filename, up.File)
	if err != nil {
		logger.Error("failed to store original", "error", err)
		return Receipt{}, newError(KindStorage, "Failed to store the uploaded file.", err)
	}

	tags := ParseTags(up.Tags)

	photo, err := m.photos.Create(ctx, storage.PhotoCreate{
		Filename:     filename,
		OriginalName: up.OriginalName,
		Tags:         tags,
		TakenAt:      m.readTakenAt(filename),
	})
	if err != nil {
		logger.Error("failed to create photo record", "error", err)
		if rmErr := m.assets.Remove(assets.Original, filename); rmErr != nil {
			logger.Error("orphaned original after failed insert", "error", rmErr)
		}
		return Receipt{}, newError(KindPersistence, "Failed to save the photo record.", err)
	}

	receipt := Receipt{Photo: photo, Size: size, HumanSize: humanize.Bytes(uint64(size))}
	logger = logger.With("photoID", photo.ID)
	logger.Info("photo stored", "size", receipt.HumanSize, "tags", tags)

	// The run covers the whole directory, so it can fail on another photo
	// while this one's derivatives are written.
	genErr := m.generate(ctx)
	if genErr != nil {
		logger.Error("derivative generation failed", "error", genErr)
	}

	if marked, err := m.markIfComplete(ctx, photo); err != nil {
		logger.Warn("failed to record derivatives", "error", err)
	} else {
		receipt.Photo = marked
	}

	if genErr != nil && !receipt.Photo.HasDerivatives() {
		return receipt, newError(KindGeneration, "Failure to create thumbnails!", genErr)
	}

	receipt.Message = uploadMessage(up.OriginalName, tags)
	return receipt, nil
}

func (m *Manager) readTakenAt(filename string) *time.Time {
	rc, err := m.assets.Open(assets.Original, filename)
	if err != nil {
		return nil
	}
	defer rc.Close()
	return takenAt(rc)
}

// markIfComplete stamps the record once both derivatives exist on disk and
// returns the updated photo. An incomplete photo is returned unchanged.
func (m *Manager) markIfComplete(ctx context.Context, photo storage.Photo) (storage.Photo, error) {
	for _, v := range []assets.Variant{assets.Thumbnail, assets.Preview} {
		ok, err := m.assets.Exists(v, photo.Filename)
		if err != nil {
			return photo, err
		}
		if !ok {
			return photo, nil
		}
	}

	at := m.now().UTC()
	if err := m.photos.MarkDerivatives(ctx, photo.ID, at); err != nil {
		return photo, fmt.Errorf("mark derivatives: %w", err)
	}
	photo.DerivativesAt = &at
	return photo, nil
}

func uploadMessage(name string, tags []string) string {
	applied := "(none)"
	if len(tags) > 0 {
		applied = strings.Join(tags, ", ")
	}
	return fmt.Sprintf("Successfully uploaded: %s! With tags: %s", name, applied)
}
