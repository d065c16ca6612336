// Package sysinfo gathers the facts hyperfetch prints next to the logo. Every
// field is optional: probes that fail leave their field empty and the
// renderer skips it.
package sysinfo

import (
	"context"
	"os"
	"os/user"
	"sync"
	"time"

	"hyperfetch/logging"
)

// SystemInfo is the full report. Empty strings, zero numbers and nil slices
// mean "unknown" and are omitted from JSON and YAML output.
type SystemInfo struct {
	Username      string `json:"username,omitempty" yaml:"username,omitempty"`
	Hostname      string `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	OS            string `json:"os,omitempty" yaml:"os,omitempty"`
	OSID          string `json:"os_id,omitempty" yaml:"os_id,omitempty"`
	Kernel        string `json:"kernel,omitempty" yaml:"kernel,omitempty"`
	Uptime        string `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	UptimeSeconds uint64 `json:"uptime_seconds,omitempty" yaml:"uptime_seconds,omitempty"`
	LoadAverage   string `json:"load_average,omitempty" yaml:"load_average,omitempty"`
	Processes     int    `json:"processes,omitempty" yaml:"processes,omitempty"`
	LoggedUsers   string `json:"logged_users,omitempty" yaml:"logged_users,omitempty"`
	MachineType   string `json:"machine_type,omitempty" yaml:"machine_type,omitempty"`
	InitSystem    string `json:"init_system,omitempty" yaml:"init_system,omitempty"`
	BootTime      string `json:"boot_time,omitempty" yaml:"boot_time,omitempty"`

	CPU         string `json:"cpu,omitempty" yaml:"cpu,omitempty"`
	CPUArch     string `json:"cpu_arch,omitempty" yaml:"cpu_arch,omitempty"`
	CPUCores    int    `json:"cpu_cores,omitempty" yaml:"cpu_cores,omitempty"`
	CPUThreads  int    `json:"cpu_threads,omitempty" yaml:"cpu_threads,omitempty"`
	CPUFreq     string `json:"cpu_freq,omitempty" yaml:"cpu_freq,omitempty"`
	CPUCache    string `json:"cpu_cache,omitempty" yaml:"cpu_cache,omitempty"`
	CPUTemp     string `json:"cpu_temp,omitempty" yaml:"cpu_temp,omitempty"`
	CPUGovernor string `json:"cpu_governor,omitempty" yaml:"cpu_governor,omitempty"`
	GPUs        []GPU  `json:"gpu,omitempty" yaml:"gpu,omitempty"`
	Memory      string `json:"memory,omitempty" yaml:"memory,omitempty"`
	MemoryUsed  uint64 `json:"memory_used,omitempty" yaml:"memory_used,omitempty"`
	MemoryTotal uint64 `json:"memory_total,omitempty" yaml:"memory_total,omitempty"`
	Swap        string `json:"swap,omitempty" yaml:"swap,omitempty"`
	SwapUsed    uint64 `json:"swap_used,omitempty" yaml:"swap_used,omitempty"`
	SwapTotal   uint64 `json:"swap_total,omitempty" yaml:"swap_total,omitempty"`
	Disks       []Disk `json:"disks,omitempty" yaml:"disks,omitempty"`
	Motherboard string `json:"motherboard,omitempty" yaml:"motherboard,omitempty"`
	BIOS        string `json:"bios,omitempty" yaml:"bios,omitempty"`

	DE            string `json:"de,omitempty" yaml:"de,omitempty"`
	WM            string `json:"wm,omitempty" yaml:"wm,omitempty"`
	WMTheme       string `json:"wm_theme,omitempty" yaml:"wm_theme,omitempty"`
	Theme         string `json:"theme,omitempty" yaml:"theme,omitempty"`
	Icons         string `json:"icons,omitempty" yaml:"icons,omitempty"`
	Cursor        string `json:"cursor,omitempty" yaml:"cursor,omitempty"`
	Terminal      string `json:"terminal,omitempty" yaml:"terminal,omitempty"`
	TerminalFont  string `json:"terminal_font,omitempty" yaml:"terminal_font,omitempty"`
	Shell         string `json:"shell,omitempty" yaml:"shell,omitempty"`
	ShellVersion  string `json:"shell_version,omitempty" yaml:"shell_version,omitempty"`
	DisplayServer string `json:"display_server,omitempty" yaml:"display_server,omitempty"`
	Resolution    string `json:"resolution,omitempty" yaml:"resolution,omitempty"`

	Interfaces  []Interface `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	PublicIP    *PublicIP   `json:"public_ip,omitempty" yaml:"public_ip,omitempty"`
	Battery     *Battery    `json:"battery,omitempty" yaml:"battery,omitempty"`
	Brightness  string      `json:"brightness,omitempty" yaml:"brightness,omitempty"`
	AudioDevice string      `json:"audio_device,omitempty" yaml:"audio_device,omitempty"`
	Volume      string      `json:"volume,omitempty" yaml:"volume,omitempty"`

	Packages      string         `json:"packages,omitempty" yaml:"packages,omitempty"`
	PackageCounts []PackageCount `json:"package_counts,omitempty" yaml:"package_counts,omitempty"`

	Locale         string `json:"locale,omitempty" yaml:"locale,omitempty"`
	Timezone       string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Virtualization string `json:"virtualization,omitempty" yaml:"virtualization,omitempty"`
	Container      string `json:"container,omitempty" yaml:"container,omitempty"`
	Security       string `json:"security,omitempty" yaml:"security,omitempty"`
	SSHConnection  string `json:"ssh_connection,omitempty" yaml:"ssh_connection,omitempty"`
	Bluetooth      string `json:"bluetooth,omitempty" yaml:"bluetooth,omitempty"`
}

// GPU describes one graphics adapter.
type GPU struct {
	Name   string `json:"name" yaml:"name"`
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
	VRAM   string `json:"vram,omitempty" yaml:"vram,omitempty"`
	Temp   string `json:"temp,omitempty" yaml:"temp,omitempty"`
}

// Disk is one mounted filesystem.
type Disk struct {
	Mount      string `json:"mount" yaml:"mount"`
	Filesystem string `json:"filesystem" yaml:"filesystem"`
	Size       string `json:"size" yaml:"size"`
	Used       string `json:"used" yaml:"used"`
	Available  string `json:"available" yaml:"available"`
	Percent    int    `json:"percent" yaml:"percent"`
	Type       string `json:"disk_type,omitempty" yaml:"disk_type,omitempty"`
}

// Interface is a network interface that is up or has an address.
type Interface struct {
	Name  string `json:"name" yaml:"name"`
	IPv4  string `json:"ipv4,omitempty" yaml:"ipv4,omitempty"`
	IPv6  string `json:"ipv6,omitempty" yaml:"ipv6,omitempty"`
	MAC   string `json:"mac,omitempty" yaml:"mac,omitempty"`
	Speed string `json:"speed,omitempty" yaml:"speed,omitempty"`
	State string `json:"state,omitempty" yaml:"state,omitempty"`
}

// PublicIP is the externally visible address with optional geo data.
type PublicIP struct {
	IP      string `json:"ip" yaml:"ip"`
	Country string `json:"country,omitempty" yaml:"country,omitempty"`
	Region  string `json:"region,omitempty" yaml:"region,omitempty"`
	City    string `json:"city,omitempty" yaml:"city,omitempty"`
	Zip     string `json:"zip,omitempty" yaml:"zip,omitempty"`
	ISP     string `json:"isp,omitempty" yaml:"isp,omitempty"`
}

// Battery aggregates all batteries in the machine.
type Battery struct {
	Percent       int    `json:"percent" yaml:"percent"`
	Status        string `json:"status" yaml:"status"`
	TimeRemaining string `json:"time_remaining,omitempty" yaml:"time_remaining,omitempty"`
}

// PackageCount is the number of packages one manager reports.
type PackageCount struct {
	Manager string `json:"manager" yaml:"manager"`
	Count   int    `json:"count" yaml:"count"`
}

// Sections selects which probe groups run. The system group always runs.
type Sections struct {
	Hardware bool
	Desktop  bool
	Network  bool
	Power    bool
	Audio    bool
	Packages bool
	Misc     bool
}

// AllSections enables every probe group.
func AllSections() Sections {
	return Sections{
		Hardware: true,
		Desktop:  true,
		Network:  true,
		Power:    true,
		Audio:    true,
		Packages: true,
		Misc:     true,
	}
}

// Options tunes a Gather run.
type Options struct {
	Sections Sections
	// PublicIP enables the HTTP lookup of the external address.
	PublicIP bool
	// CommandTimeout bounds every external command. Zero means
	// DefaultCommandTimeout.
	CommandTimeout time.Duration
}

// DefaultCommandTimeout keeps a hung helper binary from stalling the report.
const DefaultCommandTimeout = 2 * time.Second

// Gather collects system information. Probe groups run concurrently and
// errors never surface: a probe that fails leaves its fields empty.
func Gather(ctx context.Context, opts Options) *SystemInfo {
	return newProbe(opts).gather(ctx, opts)
}

func (p *probe) gather(ctx context.Context, opts Options) *SystemInfo {
	done := logging.LogOperationStart(p.log, "gather")
	defer done()

	info := &SystemInfo{
		Username: currentUser(p.getenv),
	}
	if h, err := os.Hostname(); err == nil {
		info.Hostname = h
	}

	type group struct {
		name string
		on   bool
		fn   func(context.Context, *SystemInfo)
	}
	// Each group writes a disjoint set of fields, so they need no locking.
	groups := []group{
		{"system", true, p.system},
		{"hardware", opts.Sections.Hardware, p.hardware},
		{"desktop", opts.Sections.Desktop, p.desktop},
		{"network", opts.Sections.Network, func(ctx context.Context, info *SystemInfo) {
			p.network(ctx, info, opts.PublicIP)
		}},
		{"power", opts.Sections.Power, p.power},
		{"audio", opts.Sections.Audio, p.audio},
		{"packages", opts.Sections.Packages, p.packages},
		{"misc", opts.Sections.Misc, p.misc},
	}

	var wg sync.WaitGroup
	for _, g := range groups {
		if !g.on {
			continue
		}
		wg.Add(1)
		go func(g group) {
			defer wg.Done()
			finish := logging.LogOperationStart(p.log, "probe."+g.name)
			defer finish()
			g.fn(ctx, info)
		}(g)
	}
	wg.Wait()

	return info
}

// currentUser prefers the environment over the user database so sudo and
// containers without passwd entries still report something useful.
func currentUser(getenv func(string) string) string {
	for _, key := range []string{"USER", "USERNAME", "LOGNAME"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
