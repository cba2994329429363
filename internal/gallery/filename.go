package gallery

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// allowedName matches the accepted image suffixes, case-sensitively.
var allowedName = regexp.MustCompile(`\.(jpg|jpeg|png|gif)$`)

const prefixLen = 4

// ValidateName checks a client-supplied original name before anything is
// written.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return newError(KindValidation, "You forgot to select a file.", nil)
	}
	if strings.ContainsAny(name, `/\`) {
		return newError(KindValidation, "File names must not contain path separators.", nil)
	}
	if !allowedName.MatchString(name) {
		return newError(KindValidation, "Only image files are allowed!", nil)
	}
	return nil
}

// DeriveFilename builds the stored name for an original: up to four
// characters of the name before its first dot, a dash, stamp, then everything
// from the first dot onwards. name must already be valid.
func DeriveFilename(name string, stamp int64) string {
	dot := strings.Index(name, ".")
	if dot < 0 {
		dot = len(name)
	}
	base, ext := name[:dot], name[dot:]

	if runes := []rune(base); len(runes) > prefixLen {
		base = string(runes[:prefixLen])
	}

	return base + "-" + strconv.FormatInt(stamp, 10) + ext
}

// stampClock hands out strictly increasing millisecond stamps so that two
// uploads in the same millisecond still get distinct filenames.
type stampClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func (c *stampClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return ms
}
