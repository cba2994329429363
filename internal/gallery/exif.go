package gallery

import (
	"io"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

func init() {
	exif.RegisterParsers(mknote.All...)
}

// takenAt returns the capture time recorded in the image's EXIF data, or nil
// when there is none.
func takenAt(r io.Reader) *time.Time {
	x, err := exif.Decode(r)
	if err != nil {
		return nil
	}
	tm, err := x.DateTime()
	if err != nil || tm.IsZero() {
		return nil
	}
	utc := tm.UTC()
	return &utc
}
