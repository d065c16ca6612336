package sysinfo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

const dpkgStatus = `Package: bash
Status: install ok installed
Version: 5.2.15-2

Package: oldlib
Status: deinstall ok config-files
Version: 1.0

Package: pinned
Status: hold ok installed
Version: 2.0
`

func TestCountDpkgStatus(t *testing.T) {
	assert.Equal(t, 2, countDpkgStatus(dpkgStatus))
	assert.Equal(t, 0, countDpkgStatus(""))
}

func TestFormatPackages(t *testing.T) {
	counts := []PackageCount{{Manager: "pacman", Count: 1200}, {Manager: "flatpak", Count: 34}}
	assert.Equal(t, "1234 (1200 (pacman), 34 (flatpak))", formatPackages(counts))
	assert.Equal(t, "", formatPackages(nil))
}

func TestPacmanDirCount(t *testing.T) {
	p := newFixture(t).
		file("/var/lib/pacman/local/ALPM_DB_VERSION", "9").
		dir("/var/lib/pacman/local/bash-5.2.026-2").
		dir("/var/lib/pacman/local/glibc-2.39-1").
		probe()

	n, ok := p.pacmanDirCount()
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestRPMCountedOnce(t *testing.T) {
	f := newFixture(t).
		file("/usr/bin/dnf", "").
		command("rpm -qa", "bash-5.2.26-3.fc40.x86_64\nglibc-2.39-6.fc40.x86_64\nkernel-6.8.9-300.fc40.x86_64\n")
	p := f.probe()
	ctx := context.Background()

	n, ok := rpmFrontend("/usr/bin/dnf")(p, ctx)
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = rpmFrontend("/usr/bin/zypper")(p, ctx)
	assert.False(t, ok)

	_, ok = p.plainRPMCount(ctx)
	assert.False(t, ok, "rpm is attributed to dnf")
}

func TestCommandLinesSkipsHeader(t *testing.T) {
	p := newFixture(t).
		command("snap list", "Name    Version  Rev\ncore22  20240111 1122\nfirefox 124.0    4090\n").
		probe()

	n, ok := commandLines(1, "snap", "list")(p, context.Background())
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	_, ok = commandLines(0, "flatpak", "list", "--app")(p, context.Background())
	assert.False(t, ok)
}

func TestPortageCount(t *testing.T) {
	p := newFixture(t).
		dir("/var/db/pkg/app-shells/bash-5.2_p26").
		dir("/var/db/pkg/sys-libs/glibc-2.39").
		dir("/var/db/pkg/sys-libs/zlib-1.3").
		probe()

	n, ok := p.portageCount(context.Background())
	assert.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestPackages(t *testing.T) {
	p := newFixture(t).
		file("/var/lib/dpkg/status", dpkgStatus).
		command("flatpak list --app", "org.mozilla.firefox\ncom.spotify.Client\n").
		dir("/home/.cargo/bin/ripgrep").
		file("/home/.cargo/bin/cargo", "").
		file("/home/.cargo/bin/bat", "").
		file("/home/.cargo/bin/fd", "").
		probe()

	var info SystemInfo
	p.packages(context.Background(), &info)

	assert.Equal(t, []PackageCount{
		{Manager: "apt", Count: 2},
		{Manager: "flatpak", Count: 2},
		{Manager: "cargo", Count: 2},
	}, info.PackageCounts)
	assert.Equal(t, "6 (2 (apt), 2 (flatpak), 2 (cargo))", info.Packages)
}

func TestPackagesNone(t *testing.T) {
	var info SystemInfo
	newFixture(t).probe().packages(context.Background(), &info)
	assert.Nil(t, info.PackageCounts)
	assert.Empty(t, info.Packages)
}
