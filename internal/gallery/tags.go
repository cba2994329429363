package gallery

import (
	"regexp"

	"github.com/Oxyrus/phototags/internal/storage"
)

var tagSeparators = regexp.MustCompile(`[\s,]+`)

// ParseTags splits raw on runs of commas and whitespace, dropping blank
// tokens. Duplicates are kept in input order.
func ParseTags(raw string) []string {
	tags := []string{}
	for _, tok := range tagSeparators.Split(raw, -1) {
		if tok != "" {
			tags = append(tags, tok)
		}
	}
	return tags
}

// Unique returns tags without duplicates, keeping first appearances.
func Unique(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Vocabulary flattens the tag sets of photos into a deduplicated list in
// order of first appearance. Stored tags are re-split so that legacy records
// holding "a, b" in one entry still contribute two tags.
func Vocabulary(photos []storage.Photo) []string {
	var all []string
	for _, p := range photos {
		for _, tag := range p.Tags {
			all = append(all, ParseTags(tag)...)
		}
	}
	return Unique(all)
}
