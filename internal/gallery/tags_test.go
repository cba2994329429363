package gallery_test

import (
	"reflect"
	"testing"

	"github.com/Oxyrus/phototags/internal/gallery"
	"github.com/Oxyrus/phototags/internal/storage"
)

func TestParseTags(t *testing.T) {
	cases := map[string][]string{
		"cat, dog  fox":   {"cat", "dog", "fox"},
		"":                {},
		" , ,, ":          {},
		"a,a b":           {"a", "a", "b"},
		"\tsea\nsun,sand": {"sea", "sun", "sand"},
	}

	for raw, want := range cases {
		if got := gallery.ParseTags(raw); !reflect.DeepEqual(got, want) {
			t.Fatalf("ParseTags(%q) = %#v, want %#v", raw, got, want)
		}
	}
}

func TestVocabularyDeduplicates(t *testing.T) {
	photos := []storage.Photo{
		{Tags: []string{"a", "b"}},
		{Tags: []string{"b", "c"}},
		{Tags: []string{}},
		{Tags: []string{"c, d", ""}},
	}

	got := gallery.Vocabulary(photos)
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Vocabulary = %v, want %v", got, want)
	}

	if got := gallery.Vocabulary(nil); len(got) != 0 {
		t.Fatalf("expected empty vocabulary, got %v", got)
	}
}
