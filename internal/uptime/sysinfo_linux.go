package uptime

import (
	"context"

	"golang.org/x/sys/unix"
)

// SysinfoSource reads the uptime field of sysinfo(2) directly.
type SysinfoSource struct {
	sysinfo func(info *unix.Sysinfo_t) error
}

// NewSysinfoSource creates a source backed by sysinfo(2).
func NewSysinfoSource() *SysinfoSource {
	return &SysinfoSource{sysinfo: unix.Sysinfo}
}

func (s *SysinfoSource) Name() string { return SourceSysinfo }

func (s *SysinfoSource) Read(_ context.Context) (Reading, error) {
	var info unix.Sysinfo_t
	if err := s.sysinfo(&info); err != nil {
		return 0, &ReadError{Source: SourceSysinfo, Err: err}
	}
	if info.Uptime < 0 {
		return 0, nil
	}
	return Reading(info.Uptime), nil
}
