package sysinfo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// packageManager counts installed packages for one manager. ok is false
// when the manager is absent or reports nothing.
type packageManager struct {
	name  string
	count func(p *probe, ctx context.Context) (n int, ok bool)
}

// packageManagers are listed in report order.
var packageManagers = []packageManager{
	{"pacman", (*probe).pacmanCount},
	{"apt", (*probe).dpkgCount},
	{"dnf", rpmFrontend("/usr/bin/dnf")},
	{"zypper", rpmFrontend("/usr/bin/zypper")},
	{"rpm", (*probe).plainRPMCount},
	{"emerge", (*probe).portageCount},
	{"xbps", commandLines(0, "xbps-query", "-l")},
	{"apk", commandLines(0, "apk", "info")},
	{"nix", (*probe).nixCount},
	{"guix", commandLines(0, "guix", "package", "-I")},
	{"flatpak", commandLines(0, "flatpak", "list", "--app")},
	{"snap", commandLines(1, "snap", "list")},
	{"brew", (*probe).brewCount},
	{"cargo", (*probe).cargoCount},
	{"pip", commandLines(0, "pip", "list", "--format=freeze")},
	{"npm", commandLines(1, "npm", "list", "-g", "--depth=0")},
	{"gem", commandLines(0, "gem", "list", "--no-details")},
	{"go", (*probe).goBinCount},
}

func (p *probe) packages(ctx context.Context, info *SystemInfo) {
	results := make([]PackageCount, len(packageManagers))

	// Several managers shell out to slow tools (pip, npm, gem), so they
	// are counted concurrently and reassembled in list order.
	var wg sync.WaitGroup
	for i, pm := range packageManagers {
		wg.Add(1)
		go func(i int, pm packageManager) {
			defer wg.Done()
			if n, ok := pm.count(p, ctx); ok && n > 0 {
				results[i] = PackageCount{Manager: pm.name, Count: n}
			}
		}(i, pm)
	}
	wg.Wait()

	var counts []PackageCount
	for _, r := range results {
		if r.Count > 0 {
			counts = append(counts, r)
		}
	}
	counts = append(counts, platformPackages()...)

	info.PackageCounts = counts
	info.Packages = formatPackages(counts)
}

// formatPackages renders "1234 (1200 (pacman), 34 (flatpak))".
func formatPackages(counts []PackageCount) string {
	if len(counts) == 0 {
		return ""
	}
	total := 0
	details := make([]string, 0, len(counts))
	for _, c := range counts {
		total += c.Count
		details = append(details, fmt.Sprintf("%d (%s)", c.Count, c.Manager))
	}
	return fmt.Sprintf("%d (%s)", total, strings.Join(details, ", "))
}

// commandLines counts output lines of a listing command, minus header
// lines.
func commandLines(header int, name string, args ...string) func(*probe, context.Context) (int, bool) {
	return func(p *probe, ctx context.Context) (int, bool) {
		lines := p.lines(ctx, name, args...)
		n := len(lines) - header
		return n, n > 0
	}
}

// pacmanDirCount counts entries of the local database directory, minus the
// ALPM_DB_VERSION marker file.
func (p *probe) pacmanDirCount() (int, bool) {
	entries := p.entries("/var/lib/pacman/local")
	n := 0
	for _, e := range entries {
		if e != "ALPM_DB_VERSION" {
			n++
		}
	}
	return n, n > 0
}

func (p *probe) dpkgCount(context.Context) (int, bool) {
	n := countDpkgStatus(p.read("/var/lib/dpkg/status"))
	return n, n > 0
}

// countDpkgStatus counts installed or held stanzas of a dpkg status file.
func countDpkgStatus(content string) int {
	n := 0
	for _, stanza := range strings.Split(content, "\n\n") {
		if strings.Contains(stanza, "Status: install ok installed") ||
			strings.Contains(stanza, "Status: hold ok installed") {
			n++
		}
	}
	return n
}

// rpmFrontend attributes the rpm database to dnf or zypper when that
// frontend is installed.
func rpmFrontend(bin string) func(*probe, context.Context) (int, bool) {
	return func(p *probe, ctx context.Context) (int, bool) {
		if !p.exists(bin) {
			return 0, false
		}
		return commandLines(0, "rpm", "-qa")(p, ctx)
	}
}

// plainRPMCount covers rpm systems without a known frontend so the same
// database is never counted twice.
func (p *probe) plainRPMCount(ctx context.Context) (int, bool) {
	if p.exists("/usr/bin/dnf") || p.exists("/usr/bin/zypper") {
		return 0, false
	}
	return commandLines(0, "rpm", "-qa")(p, ctx)
}

func (p *probe) portageCount(context.Context) (int, bool) {
	const db = "/var/db/pkg"
	n := 0
	for _, cat := range p.entries(db) {
		n += len(p.entries(db + "/" + cat))
	}
	return n, n > 0
}

func (p *probe) nixCount(ctx context.Context) (int, bool) {
	if p.home == "" || !fileExists(p.userHome(".nix-profile/manifest.nix")) {
		return 0, false
	}
	return commandLines(0, "nix-env", "-q")(p, ctx)
}

func (p *probe) brewCount(ctx context.Context) (int, bool) {
	for _, bin := range []string{"/home/linuxbrew/.linuxbrew/bin/brew", "/opt/homebrew/bin/brew", "/usr/local/bin/brew"} {
		if p.exists(bin) {
			return commandLines(0, p.path(bin), "list", "--formula", "-1")(p, ctx)
		}
	}
	return 0, false
}

func (p *probe) cargoCount(context.Context) (int, bool) {
	des, err := os.ReadDir(p.userHome(".cargo/bin"))
	if err != nil {
		return 0, false
	}
	n := 0
	for _, de := range des {
		name := de.Name()
		if de.IsDir() || strings.HasPrefix(name, "cargo") || strings.HasPrefix(name, "rust") {
			continue
		}
		n++
	}
	return n, n > 0
}

func (p *probe) goBinCount(context.Context) (int, bool) {
	des, err := os.ReadDir(p.userHome("go/bin"))
	if err != nil {
		return 0, false
	}
	return len(des), len(des) > 0
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
