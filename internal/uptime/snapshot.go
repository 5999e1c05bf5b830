package uptime

import (
	"context"
	"time"
)

// Snapshot is the outcome of one read: the reading, its error and the
// strings rendered from exactly that result.
type Snapshot struct {
	Source  string
	Reading Reading
	Err     error
	Strings DisplayStrings
	ReadAt  time.Time
}

// Take reads src once and renders the result.
func Take(ctx context.Context, src Source) Snapshot {
	r, err := src.Read(ctx)
	if err != nil {
		r = 0
	}
	return Snapshot{
		Source:  src.Name(),
		Reading: r,
		Err:     err,
		Strings: Render(r, err),
		ReadAt:  time.Now(),
	}
}

// OK reports whether the read succeeded.
func (s Snapshot) OK() bool {
	return s.Err == nil
}
