package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Oxyrus/phototags/internal/storage"
)

const photoColumns = `id, filename, original_name, taken_at, derivatives_at, created_at`

type photoRepository struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *photoRepository) Create(ctx context.Context, input storage.PhotoCreate) (storage.Photo, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	var takenAt sql.NullTime
	if input.TakenAt != nil {
		takenAt = sql.NullTime{Time: input.TakenAt.UTC(), Valid: true}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: create photo: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO photos (id, filename, original_name, taken_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id,
		input.Filename,
		input.OriginalName,
		takenAt,
		now,
	)
	if err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: create photo: %w", err)
	}

	for i, tag := range input.Tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO photo_tags (photo_id, position, tag)
			VALUES (?, ?, ?)`,
			id, i, tag,
		); err != nil {
			return storage.Photo{}, fmt.Errorf("sqlite: create photo tags: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: create photo: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *photoRepository) GetByID(ctx context.Context, id string) (storage.Photo, error) {
	return getPhoto(ctx, r.db, id)
}

func (r *photoRepository) List(ctx context.Context) ([]storage.Photo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+photoColumns+`
		FROM photos
		ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list photos: %w", err)
	}

	photos, err := collectPhotos(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list photos: %w", err)
	}

	if err := attachTags(ctx, r.db, photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *photoRepository) ListByTags(ctx context.Context, tags []string) ([]storage.Photo, error) {
	if len(tags) == 0 {
		return []storage.Photo{}, nil
	}

	args := make([]any, len(tags))
	for i, tag := range tags {
		args[i] = tag
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+photoColumns+`
		FROM photos
		WHERE id IN (
			SELECT photo_id FROM photo_tags WHERE tag IN (`+placeholders(len(tags))+`)
		)
		ORDER BY created_at, rowid`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list photos by tags: %w", err)
	}

	photos, err := collectPhotos(rows)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list photos by tags: %w", err)
	}

	if err := attachTags(ctx, r.db, photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *photoRepository) Delete(ctx context.Context, id string) (storage.Photo, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: delete photo: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	photo, err := getPhoto(ctx, tx, id)
	if err != nil {
		return storage.Photo{}, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM photo_tags WHERE photo_id = ?`, id); err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: delete photo tags: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: delete photo: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: delete photo: %w", err)
	}

	if rowsAffected == 0 {
		return storage.Photo{}, storage.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return storage.Photo{}, fmt.Errorf("sqlite: delete photo: %w", err)
	}

	return photo, nil
}

func (r *photoRepository) MarkDerivatives(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE photos
		SET derivatives_at = ?
		WHERE id = ?`,
		at.UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: mark derivatives: %w", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: mark derivatives: %w", err)
	}

	if rowsAffected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func getPhoto(ctx context.Context, q querier, id string) (storage.Photo, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+photoColumns+`
		FROM photos
		WHERE id = ?`,
		id,
	)

	photo, err := scanPhoto(row)
	if err != nil {
		return storage.Photo{}, err
	}

	photos := []storage.Photo{photo}
	if err := attachTags(ctx, q, photos); err != nil {
		return storage.Photo{}, err
	}
	return photos[0], nil
}

func collectPhotos(rows *sql.Rows) ([]storage.Photo, error) {
	defer rows.Close()

	result := []storage.Photo{}
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// tagBatchSize caps the bound parameters of one tag query well below
// SQLite's variable limit.
var tagBatchSize = 500

// attachTags fills in the tag list of every photo, keeping insertion order.
func attachTags(ctx context.Context, q querier, photos []storage.Photo) error {
	index := make(map[string]int, len(photos))
	for i := range photos {
		photos[i].Tags = []string{}
		index[photos[i].ID] = i
	}

	for lo := 0; lo < len(photos); lo += tagBatchSize {
		hi := min(lo+tagBatchSize, len(photos))
		if err := loadTags(ctx, q, photos, index, lo, hi); err != nil {
			return err
		}
	}
	return nil
}

func loadTags(ctx context.Context, q querier, photos []storage.Photo, index map[string]int, lo, hi int) error {
	args := make([]any, 0, hi-lo)
	for _, p := range photos[lo:hi] {
		args = append(args, p.ID)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT photo_id, tag
		FROM photo_tags
		WHERE photo_id IN (`+placeholders(len(args))+`)
		ORDER BY photo_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("sqlite: load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var photoID, tag string
		if err := rows.Scan(&photoID, &tag); err != nil {
			return fmt.Errorf("sqlite: scan tag: %w", err)
		}
		if i, ok := index[photoID]; ok {
			photos[i].Tags = append(photos[i].Tags, tag)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: load tags: %w", err)
	}

	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

type photoScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(s photoScanner) (storage.Photo, error) {
	var (
		photo            storage.Photo
		takenAtRaw       sql.NullTime
		derivativesAtRaw sql.NullTime
		createdAtRaw     time.Time
	)

	err := s.Scan(
		&photo.ID,
		&photo.Filename,
		&photo.OriginalName,
		&takenAtRaw,
		&derivativesAtRaw,
		&createdAtRaw,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Photo{}, storage.ErrNotFound
		}
		return storage.Photo{}, fmt.Errorf("sqlite: scan photo: %w", err)
	}

	if takenAtRaw.Valid {
		t := takenAtRaw.Time.UTC()
		photo.TakenAt = &t
	}

	if derivativesAtRaw.Valid {
		t := derivativesAtRaw.Time.UTC()
		photo.DerivativesAt = &t
	}

	photo.CreatedAt = createdAtRaw.UTC()

	return photo, nil
}
