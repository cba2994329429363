package gallery

import (
	"context"
	"errors"

	"github.com/Oxyrus/phototags/internal/storage"
)

// Gallery is a list of photos with the tag vocabulary drawn from them.
// Selected holds the requested tags of a filtered view.
type Gallery struct {
	Photos   []storage.Photo
	Tags     []string
	Selected []string
}

// List returns every photo.
func (m *Manager) List(ctx context.Context) (Gallery, error) {
	photos, err := m.photos.List(ctx)
	if err != nil {
		m.logger.Error("failed to list photos", "error", err)
		return Gallery{}, newError(KindPersistence, "Server Error locating images.", err)
	}
	return Gallery{Photos: photos, Tags: Vocabulary(photos), Selected: []string{}}, nil
}

// FindByTags returns the photos carrying any of tags. With no tags it is the
// same as List.
func (m *Manager) FindByTags(ctx context.Context, tags []string) (Gallery, error) {
	selected := Unique(tags)
	if len(selected) == 0 {
		return m.List(ctx)
	}

	photos, err := m.photos.ListByTags(ctx, selected)
	if err != nil {
		m.logger.Error("failed to filter photos", "tags", selected, "error", err)
		return Gallery{}, newError(KindPersistence, "Server error finding image tags.", err)
	}
	return Gallery{Photos: photos, Tags: Vocabulary(photos), Selected: selected}, nil
}

// Get returns a single photo.
func (m *Manager) Get(ctx context.Context, id string) (storage.Photo, error) {
	if id == "" {
		return storage.Photo{}, newError(KindValidation, "A photo id is required.", nil)
	}

	photo, err := m.photos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Photo{}, newError(KindNotFound, "Image not found!", err)
		}
		m.logger.Error("failed to load photo", "photoID", id, "error", err)
		return storage.Photo{}, newError(KindPersistence, "Server Error locating image.", err)
	}
	return photo, nil
}
