//go:build !linux

package uptime

import "context"

// SysinfoSource is only backed by sysinfo(2) on Linux; elsewhere every read
// fails and the display falls back.
type SysinfoSource struct{}

// NewSysinfoSource creates a source that always reports ErrUnsupported.
func NewSysinfoSource() *SysinfoSource {
	return &SysinfoSource{}
}

func (s *SysinfoSource) Name() string { return SourceSysinfo }

func (s *SysinfoSource) Read(_ context.Context) (Reading, error) {
	return 0, &ReadError{Source: SourceSysinfo, Err: ErrUnsupported}
}
