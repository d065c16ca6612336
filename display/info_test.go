package display

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyperfetch/ascii"
	"hyperfetch/config"
	"hyperfetch/sysinfo"
)

func sampleInfo() *sysinfo.SystemInfo {
	return &sysinfo.SystemInfo{
		Username:     "alice",
		Hostname:     "box",
		OS:           "Arch Linux",
		Kernel:       "6.9.1-arch1-1",
		Uptime:       "2 hours, 5 mins",
		Packages:     "1234 (1234 (pacman))",
		Shell:        "zsh",
		ShellVersion: "5.9",
		Terminal:     "Alacritty",
		TerminalFont: "JetBrains Mono",
		CPU:          "AMD Ryzen 7 5800X 8-Core Processor",
		CPUThreads:   16,
		CPUFreq:      "4.85 GHz",
		GPUs: []sysinfo.GPU{
			{Name: "AMD Radeon RX 6700 XT", Driver: "amdgpu", VRAM: "12288 MiB", Temp: "45°C"},
		},
		Memory: "3.20 GiB / 31.27 GiB (10%)",
		Disks: []sysinfo.Disk{
			{Mount: "/", Filesystem: "ext4", Size: "100.00 GiB", Used: "75.00 GiB", Percent: 75, Type: "NVMe SSD"},
		},
		Interfaces: []sysinfo.Interface{
			{Name: "eth0", IPv4: "192.168.1.2", Speed: "1000 Mbps", State: "up"},
			{Name: "wlan0", State: "down"},
		},
		PublicIP: &sysinfo.PublicIP{IP: "203.0.113.7", City: "Berlin", Country: "Germany", ISP: "Example ISP"},
		Battery:  &sysinfo.Battery{Percent: 80, Status: "Discharging", TimeRemaining: "3:10"},
		Timezone: "Europe/Berlin",
	}
}

func plainFormatter(show config.Info) *Formatter {
	return NewFormatter(Style{Accent: ascii.Cyan, Secondary: ascii.White}, show)
}

func TestLinesPlain(t *testing.T) {
	got := plainFormatter(config.Default().Info).Lines(sampleInfo())

	assert.Equal(t, []string{
		"alice@box",
		"---------",
		"OS: Arch Linux",
		"Kernel: 6.9.1-arch1-1",
		"Host: box",
		"Uptime: 2 hours, 5 mins",
		"Packages: 1234 (1234 (pacman))",
		"Shell: zsh 5.9",
		"Terminal: Alacritty (JetBrains Mono)",
		"",
		"CPU: AMD Ryzen 7 5800X 8-Core Processor (16) @ 4.85 GHz",
		"GPU: AMD Radeon RX 6700 XT [amdgpu] (12288 MiB) @ 45°C",
		"Memory: 3.20 GiB / 31.27 GiB (10%)",
		"Disk (/): 75.00 GiB / 100.00 GiB (75%) [ext4, NVMe SSD]",
		"",
		"Net (eth0): 192.168.1.2, 1000 Mbps",
		"Net (wlan0): [down]",
		"Battery: 80% (Discharging) ~3:10",
		"",
		"Timezone: Europe/Berlin",
	}, got)
}

func TestLinesToggles(t *testing.T) {
	show := config.Default().Info
	show.Hostname = false
	show.GPU = false
	show.Misc = false
	show.PublicIP = true

	got := plainFormatter(show).Lines(sampleInfo())

	assert.Equal(t, "alice", got[0])
	assert.Equal(t, "-----", got[1])
	assert.NotContains(t, got, "Host: box")
	assert.Contains(t, got, "Public IP: 203.0.113.7 (Berlin, Germany) [Example ISP]")
	for _, l := range got {
		assert.False(t, strings.HasPrefix(l, "GPU"), l)
		assert.False(t, strings.HasPrefix(l, "Timezone"), l)
	}
}

func TestLinesEmptyReport(t *testing.T) {
	got := plainFormatter(config.Default().Info).Lines(&sysinfo.SystemInfo{})
	assert.Equal(t, []string{"", "", ""}, got)
}

func TestCPUValueUnknownParts(t *testing.T) {
	assert.Equal(t, "Apple M2 (?) @ ?", cpuValue(&sysinfo.SystemInfo{CPU: "Apple M2"}))
	assert.Equal(t, "", cpuValue(&sysinfo.SystemInfo{CPUThreads: 8}))
}

func TestLineColored(t *testing.T) {
	f := NewFormatter(Style{Colorize: true, Accent: ascii.Red, Secondary: ascii.White}, config.Default().Info)

	line := f.Line("OS", "Arch Linux")
	assert.Equal(t, "OS: Arch Linux", ansi.Strip(line))
	assert.True(t, strings.HasPrefix(line, "\x1b["))
	assert.Contains(t, line, "31")
	assert.True(t, strings.HasSuffix(line, " Arch Linux"), "values are never styled")
}

func TestLinesColored(t *testing.T) {
	f := NewFormatter(Style{Colorize: true, Accent: ascii.Cyan, Secondary: ascii.Yellow}, config.Default().Info)
	got := f.Lines(sampleInfo())

	assert.Equal(t, "alice@box", ansi.Strip(got[0]))
	assert.NotEqual(t, "alice@box", got[0])

	require.GreaterOrEqual(t, len(got), 3)
	bar := got[len(got)-2:]
	for _, row := range bar {
		assert.Equal(t, strings.Repeat(" ", 24), ansi.Strip(row))
		assert.Contains(t, row, "\x1b[")
	}
	assert.Equal(t, "", got[len(got)-3])

	plain := plainFormatter(config.Default().Info).Lines(sampleInfo())
	assert.Len(t, got, len(plain)+3)
}

func TestTitle(t *testing.T) {
	f := plainFormatter(config.Default().Info)
	assert.Equal(t, []string{"root@server", "-----------"}, f.Title("root", "server"))
	assert.Equal(t, []string{"server", "------"}, f.Title("", "server"))
	assert.Nil(t, f.Title("", ""))
}
