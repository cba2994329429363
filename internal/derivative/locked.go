package derivative

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockFileName is created inside the upload directory by Locked.
const LockFileName = ".generate.lock"

const lockRetryDelay = 100 * time.Millisecond

// Locked serialises generation runs across goroutines and processes by
// holding an exclusive lock file in the target directory for the length of
// each run. It does not coordinate with deletions.
type Locked struct {
	next Generator
}

// NewLocked wraps next.
func NewLocked(next Generator) *Locked {
	return &Locked{next: next}
}

func (l *Locked) Generate(ctx context.Context, dir string) error {
	lock := flock.New(filepath.Join(dir, LockFileName))

	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("derivative: acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("derivative: lock %s not acquired", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	return l.next.Generate(ctx, dir)
}

var _ Generator = (*Locked)(nil)
