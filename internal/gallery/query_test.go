package gallery_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/Oxyrus/phototags/internal/gallery"
	"github.com/Oxyrus/phototags/internal/storage"
)

func TestListReturnsVocabulary(t *testing.T) {
	f := newFixture(t, nil)
	f.ingest(t, "one.jpg", "a b")
	f.ingest(t, "two.jpg", "b,c")
	f.ingest(t, "three.jpg", "")

	g, err := f.manager.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(g.Photos) != 3 {
		t.Fatalf("expected 3 photos, got %d", len(g.Photos))
	}
	if !reflect.DeepEqual(g.Tags, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected vocabulary %v", g.Tags)
	}
}

func TestFindByTagsMatchesAny(t *testing.T) {
	f := newFixture(t, nil)
	catDog := f.ingest(t, "one.jpg", "cat dog").Photo
	dogFox := f.ingest(t, "two.jpg", "dog fox").Photo
	f.ingest(t, "three.jpg", "bird")

	g, err := f.manager.FindByTags(context.Background(), []string{"dog", "dog"})
	if err != nil {
		t.Fatalf("FindByTags returned error: %v", err)
	}
	if len(g.Photos) != 2 || g.Photos[0].ID != catDog.ID || g.Photos[1].ID != dogFox.ID {
		t.Fatalf("unexpected matches %v", g.Photos)
	}
	if !reflect.DeepEqual(g.Selected, []string{"dog"}) {
		t.Fatalf("unexpected selected tags %v", g.Selected)
	}
	if !reflect.DeepEqual(g.Tags, []string{"cat", "dog", "fox"}) {
		t.Fatalf("unexpected vocabulary %v", g.Tags)
	}

	all, err := f.manager.FindByTags(context.Background(), nil)
	if err != nil {
		t.Fatalf("FindByTags returned error: %v", err)
	}
	if len(all.Photos) != 3 {
		t.Fatalf("expected empty filter to list everything, got %d", len(all.Photos))
	}
}

func TestGet(t *testing.T) {
	f := newFixture(t, nil)
	photo := f.ingest(t, "one.jpg", "").Photo

	got, err := f.manager.Get(context.Background(), photo.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Filename != photo.Filename {
		t.Fatalf("unexpected photo %+v", got)
	}

	if _, err := f.manager.Get(context.Background(), "missing"); !errors.Is(err, gallery.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListPersistenceFailure(t *testing.T) {
	f := newFixtureWithPhotos(t, &failingPhotos{listErr: errors.New("boom")}, nil)

	_, err := f.manager.List(context.Background())
	if !errors.Is(err, gallery.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("persistence failure must not look like not found")
	}
}
