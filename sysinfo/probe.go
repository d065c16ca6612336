package sysinfo

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"hyperfetch/logging"
)

// probe holds everything the collectors touch on the host. Tests replace
// root, run and getenv to feed fixtures.
type probe struct {
	// root prefixes every absolute pseudo-file path (/proc, /sys, /etc).
	root       string
	// live enables library probes (gopsutil, ghw) that read the real host
	// regardless of root.
	live       bool
	run        runner
	getenv     func(string) string
	home       string
	configHome string
	log        zerolog.Logger
}

func newProbe(opts Options) *probe {
	timeout := opts.CommandTimeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	home, _ := os.UserHomeDir()
	return &probe{
		root:       "/",
		live:       true,
		run:        commandRunner(timeout),
		getenv:     os.Getenv,
		home:       home,
		configHome: xdg.ConfigHome,
		log:        logging.GetLogger("sysinfo"),
	}
}

func (p *probe) path(abs string) string {
	return filepath.Join(p.root, abs)
}

// read returns the trimmed content of a pseudo file, or "" when it cannot
// be read.
func (p *probe) read(abs string) string {
	b, err := os.ReadFile(p.path(abs))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func (p *probe) readInt(abs string) (int64, bool) {
	s := p.read(abs)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p *probe) exists(abs string) bool {
	_, err := os.Stat(p.path(abs))
	return err == nil
}

// entries lists directory names under abs, nil when it is missing.
func (p *probe) entries(abs string) []string {
	des, err := os.ReadDir(p.path(abs))
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(des))
	for _, de := range des {
		names = append(names, de.Name())
	}
	return names
}

// link resolves a symlink target relative to the probe root.
func (p *probe) link(abs string) string {
	target, err := os.Readlink(p.path(abs))
	if err != nil {
		return ""
	}
	return target
}

// linkBase is the last element of a symlink target, "" if abs is no link.
func (p *probe) linkBase(abs string) string {
	target := p.link(abs)
	if target == "" {
		return ""
	}
	return filepath.Base(target)
}

// userConfig resolves a path under the user's config directory.
func (p *probe) userConfig(rel string) string {
	return filepath.Join(p.configHome, rel)
}

func (p *probe) userHome(rel string) string {
	if p.home == "" {
		return ""
	}
	return filepath.Join(p.home, rel)
}

// readAbs reads a file outside the probe root (user config files).
func readAbs(path string) string {
	if path == "" {
		return ""
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(b)
}
