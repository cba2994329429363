package gallery_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/Oxyrus/phototags/internal/assets"
	"github.com/Oxyrus/phototags/internal/derivative"
	"github.com/Oxyrus/phototags/internal/gallery"
)

func TestReconcileFindsOrphansAndGaps(t *testing.T) {
	f := newFixture(t, nil)
	f.ingest(t, "kept.jpg", "")
	gapped := f.ingest(t, "gapped.jpg", "").Photo
	lost := f.ingest(t, "lost.jpg", "").Photo

	if err := os.Remove(f.assets.Path(assets.Preview, gapped.Filename)); err != nil {
		t.Fatalf("remove preview: %v", err)
	}
	if err := os.Remove(f.assets.Path(assets.Original, lost.Filename)); err != nil {
		t.Fatalf("remove original: %v", err)
	}
	if _, err := f.assets.Put("stray-1.png", strings.NewReader("stray")); err != nil {
		t.Fatalf("Put stray: %v", err)
	}

	r, err := f.manager.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if r.Clean() {
		t.Fatalf("expected inconsistencies to be reported")
	}
	if len(r.MissingOriginals) != 1 || r.MissingOriginals[0].ID != lost.ID {
		t.Fatalf("unexpected missing originals %v", r.MissingOriginals)
	}
	if len(r.MissingDerivatives) != 1 || r.MissingDerivatives[0].ID != gapped.ID {
		t.Fatalf("unexpected missing derivatives %v", r.MissingDerivatives)
	}
	if len(r.OrphanFiles) != 1 || r.OrphanFiles[0] != "stray-1.png" {
		t.Fatalf("unexpected orphans %v", r.OrphanFiles)
	}
}

func TestRegenerateMarksPendingPhotos(t *testing.T) {
	fail := true
	f := newFixture(t, derivative.GeneratorFunc(func(_ context.Context, dir string) error {
		if fail {
			return errors.New("generator offline")
		}
		return copyDerivatives(dir)
	}))

	for _, name := range []string{"a.jpg", "b.png"} {
		_, err := f.manager.Ingest(context.Background(), gallery.Upload{File: stringReader(name), OriginalName: name})
		if !errors.Is(err, gallery.ErrGeneration) {
			t.Fatalf("expected generation error, got %v", err)
		}
	}

	fail = false
	marked, err := f.manager.Regenerate(context.Background())
	if err != nil {
		t.Fatalf("Regenerate returned error: %v", err)
	}
	if marked != 2 {
		t.Fatalf("expected 2 photos marked, got %d", marked)
	}

	again, err := f.manager.Regenerate(context.Background())
	if err != nil {
		t.Fatalf("second Regenerate returned error: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected second run to mark nothing, got %d", again)
	}

	r, err := f.manager.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if !r.Clean() {
		t.Fatalf("expected clean reconciliation, got %+v", r)
	}
}
