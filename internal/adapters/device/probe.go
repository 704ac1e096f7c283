// Package device answers the device capability query and maintains the device profile.
package device

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/lantern/internal/core/domain"
	"go.trai.ch/lantern/internal/core/ports"
	"golang.org/x/sys/unix"
	"golang.org/x/text/language"
)

var _ ports.CapabilityProbe = (*HostProbe)(nil)

const meminfoPath = "/proc/meminfo"

// HostProbe reads capabilities from the local host.
type HostProbe struct {
	dataDir string
	meminfo string
	getenv  func(string) string
}

// NewHostProbe creates a probe that measures free storage on the filesystem holding dataDir.
func NewHostProbe(dataDir string) *HostProbe {
	return &HostProbe{
		dataDir: dataDir,
		meminfo: meminfoPath,
		getenv:  os.Getenv,
	}
}

// Probe returns what the host can report. Fields it cannot determine are left zero.
func (p *HostProbe) Probe(_ context.Context) domain.Capabilities {
	return domain.Capabilities{
		RAMMb:              p.ramMb(),
		StorageMb:          p.storageMb(),
		PreferredLanguages: Languages(p.getenv("LANGUAGE"), p.getenv("LC_ALL"), p.getenv("LANG")),
	}
}

func (p *HostProbe) ramMb() int {
	//nolint:gosec // Fixed procfs path
	f, err := os.Open(p.meminfo)
	if err != nil {
		return 0
	}
	defer func() { _ = f.Close() }()
	return parseMemTotal(f)
}

func parseMemTotal(r io.Reader) int {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "MemTotal:" {
			continue
		}
		kb, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0
		}
		return kb / 1024
	}
	return 0
}

func (p *HostProbe) storageMb() int {
	dir := p.dataDir
	for dir != "" {
		var st unix.Statfs_t
		if err := unix.Statfs(dir, &st); err == nil {
			//nolint:gosec // Block counts fit comfortably in int once scaled to MB
			return int(st.Bavail * uint64(st.Bsize) / (1 << 20))
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return 0
}

// Languages extracts base language codes from POSIX locale values, in order of preference.
// "C" and "POSIX" locales and unparsable values are ignored; duplicates are dropped.
func Languages(values ...string) []string {
	var langs []string
	seen := make(map[string]bool)

	for _, value := range values {
		for locale := range strings.SplitSeq(value, ":") {
			base, ok := baseLanguage(locale)
			if !ok || seen[base] {
				continue
			}
			seen[base] = true
			langs = append(langs, base)
		}
	}
	return langs
}

func baseLanguage(locale string) (string, bool) {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "C" || locale == "POSIX" {
		return "", false
	}

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return "", false
	}
	base, conf := tag.Base()
	if conf == language.No {
		return "", false
	}
	return base.String(), true
}
