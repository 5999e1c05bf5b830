package uptime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

// Source kinds accepted by NewSource.
const (
	SourceSystem  = "system"
	SourceSysinfo = "sysinfo"
	SourceProcess = "process"
)

// ErrUnknownSource is returned by NewSource for an unrecognised kind.
var ErrUnknownSource = errors.New("unknown uptime source")

// ErrUnsupported is wrapped in a ReadError when a source does not exist on
// the running platform.
var ErrUnsupported = errors.New("not supported on this platform")

// ReadError reports that the uptime counter could not be read.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s uptime: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Source reads an uptime counter.
type Source interface {
	// Name identifies the source in logs and output.
	Name() string
	// Read returns the current uptime or a *ReadError.
	Read(ctx context.Context) (Reading, error)
}

// SourceNames returns all valid source kinds.
func SourceNames() []string {
	return []string{SourceSystem, SourceSysinfo, SourceProcess}
}

// NewSource creates a source of the given kind. An empty kind selects the
// system source.
func NewSource(kind string) (Source, error) {
	switch kind {
	case "", SourceSystem:
		return NewSystemSource(), nil
	case SourceSysinfo:
		return NewSysinfoSource(), nil
	case SourceProcess:
		return NewProcessSource(time.Now()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
}

// SystemSource reads time since boot through gopsutil.
type SystemSource struct {
	uptime func(ctx context.Context) (uint64, error)
}

// NewSystemSource creates a source backed by the host uptime counter.
func NewSystemSource() *SystemSource {
	return &SystemSource{uptime: host.UptimeWithContext}
}

func (s *SystemSource) Name() string { return SourceSystem }

func (s *SystemSource) Read(ctx context.Context) (Reading, error) {
	secs, err := s.uptime(ctx)
	if err != nil {
		return 0, &ReadError{Source: SourceSystem, Err: err}
	}
	return Reading(secs), nil
}

// ProcessSource measures time elapsed since a fixed start instant, normally
// the process start. It never fails.
type ProcessSource struct {
	start time.Time
	now   func() time.Time
}

// NewProcessSource creates a source counting from start.
func NewProcessSource(start time.Time) *ProcessSource {
	return &ProcessSource{start: start, now: time.Now}
}

func (s *ProcessSource) Name() string { return SourceProcess }

func (s *ProcessSource) Read(_ context.Context) (Reading, error) {
	return FromDuration(s.now().Sub(s.start)), nil
}

// BootTime returns the host boot time, used for humanised output.
func BootTime(ctx context.Context) (time.Time, error) {
	secs, err := host.BootTimeWithContext(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get boot time: %w", err)
	}
	return time.Unix(int64(secs), 0), nil
}
