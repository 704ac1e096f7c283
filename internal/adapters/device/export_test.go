package device

import "io"

// ParseMemTotal exports parseMemTotal for testing.
func ParseMemTotal(r io.Reader) int {
	return parseMemTotal(r)
}

// NewHostProbeWith creates a probe reading meminfo and environment from the given sources.
func NewHostProbeWith(dataDir, meminfo string, getenv func(string) string) *HostProbe {
	return &HostProbe{dataDir: dataDir, meminfo: meminfo, getenv: getenv}
}
