package sysinfo

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/acobaugh/osrelease"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/process"
)

// bootTimeLayout is how the boot time is printed.
const bootTimeLayout = "2006-01-02 15:04"

func (p *probe) system(ctx context.Context, info *SystemInfo) {
	info.OS, info.OSID = p.osName(ctx)

	info.Kernel = kernelRelease()
	if info.Kernel == "" {
		if v, err := host.KernelVersionWithContext(ctx); err == nil {
			info.Kernel = v
		}
	}

	if secs, err := host.UptimeWithContext(ctx); err == nil {
		info.UptimeSeconds = secs
		info.Uptime = FormatUptime(time.Duration(secs) * time.Second)
	} else {
		p.log.Debug().Err(err).Msg("uptime unavailable")
	}
	if bt, err := host.BootTimeWithContext(ctx); err == nil && bt > 0 {
		info.BootTime = time.Unix(int64(bt), 0).Format(bootTimeLayout)
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		info.LoadAverage = fmt.Sprintf("%.2f, %.2f, %.2f", avg.Load1, avg.Load5, avg.Load15)
	}
	if pids, err := process.PidsWithContext(ctx); err == nil {
		info.Processes = len(pids)
	}
	if users, err := host.UsersWithContext(ctx); err == nil {
		names := make([]string, 0, len(users))
		for _, u := range users {
			names = append(names, u.User)
		}
		info.LoggedUsers = formatUsers(names)
	}

	info.MachineType = p.machineType()
	if info.MachineType == "" {
		if n := p.platformChassis(ctx); n > 0 {
			info.MachineType = chassisName(n)
		}
	}
	info.InitSystem = p.initSystem()
}

// OSID returns the identifier used to pick a logo without running any
// other probe: "macos" on darwin, "windows" on Windows, otherwise the
// os-release ID.
func OSID() string {
	switch runtime.GOOS {
	case "darwin":
		return "macos"
	case "windows":
		return "windows"
	}
	_, id := newProbe(Options{}).osRelease()
	return id
}

// osRelease reads PRETTY_NAME (or "Linux VERSION_ID") and ID from the first
// os-release file that parses.
func (p *probe) osRelease() (name, id string) {
	for _, file := range []string{"/etc/os-release", "/usr/lib/os-release"} {
		rel, err := osrelease.ReadFile(p.path(file))
		if err != nil {
			continue
		}
		switch {
		case rel["PRETTY_NAME"] != "":
			name = rel["PRETTY_NAME"]
		case rel["VERSION_ID"] != "":
			name = "Linux " + rel["VERSION_ID"]
		}
		return name, rel["ID"]
	}
	return "", ""
}

// osName returns the pretty OS name and the identifier used to pick a logo.
func (p *probe) osName(ctx context.Context) (name, id string) {
	name, id = p.osRelease()
	if name != "" {
		return name, id
	}

	if s := strings.Trim(p.output(ctx, "lsb_release", "-ds"), `"`); s != "" {
		return s, id
	}

	if n, i := p.platformOS(); n != "" {
		return n, i
	}

	if runtime.GOOS == "darwin" {
		return p.macOSName(ctx), "macos"
	}

	if p.live {
		if hi, err := host.InfoWithContext(ctx); err == nil && hi.Platform != "" {
			if id == "" {
				id = hi.Platform
			}
			return strings.TrimSpace(hi.Platform + " " + hi.PlatformVersion), id
		}
	}

	return "Linux", id
}

func (p *probe) macOSName(ctx context.Context) string {
	n := p.output(ctx, "sw_vers", "-productName")
	v := p.output(ctx, "sw_vers", "-productVersion")
	switch {
	case n != "" && v != "":
		return n + " " + v
	case n != "":
		return n
	case v != "":
		return "macOS " + v
	}
	return "macOS"
}

// formatUsers renders unique user names as "2 (alice, bob)".
func formatUsers(names []string) string {
	seen := make(map[string]bool, len(names))
	var unique []string
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		unique = append(unique, n)
	}
	if len(unique) == 0 {
		return ""
	}
	return fmt.Sprintf("%d (%s)", len(unique), strings.Join(unique, ", "))
}

// machineType classifies the host: container, virtual machine, or the DMI
// chassis kind.
func (p *probe) machineType() string {
	if p.exists("/.dockerenv") {
		return "Container (Docker)"
	}
	cgroup := p.read("/proc/1/cgroup")
	for _, marker := range []string{"docker", "lxc", "kubepods"} {
		if strings.Contains(cgroup, marker) {
			return "Container"
		}
	}

	product := strings.ToLower(p.read("/sys/class/dmi/id/product_name"))
	switch {
	case strings.Contains(product, "virtualbox"):
		return "Virtual Machine (VirtualBox)"
	case strings.Contains(product, "vmware"):
		return "Virtual Machine (VMware)"
	case strings.Contains(product, "kvm"), strings.Contains(product, "qemu"):
		return "Virtual Machine (KVM/QEMU)"
	case strings.Contains(product, "hyper-v"):
		return "Virtual Machine (Hyper-V)"
	}

	if !p.exists("/sys/class/dmi/id/chassis_type") {
		return ""
	}
	chassis, _ := p.readInt("/sys/class/dmi/id/chassis_type")
	return chassisName(chassis)
}

// chassisName maps an SMBIOS chassis type to a machine kind.
func chassisName(chassis int64) string {
	switch chassis {
	case 3, 4, 5, 6, 7, 15, 16:
		return "Desktop"
	case 8, 9, 10, 11, 14, 31:
		return "Laptop"
	case 17, 23, 28, 29:
		return "Server"
	case 30:
		return "Tablet"
	}
	return "Unknown"
}

var initNames = []struct{ marker, name string }{
	{"systemd", "systemd"},
	{"openrc", "OpenRC"},
	{"runit", "runit"},
	{"s6", "s6"},
}

func (p *probe) initSystem() string {
	target := strings.ToLower(p.link("/sbin/init"))
	for _, n := range initNames {
		if strings.Contains(target, n.marker) {
			return n.name
		}
	}

	switch {
	case p.exists("/run/systemd/system"):
		return "systemd"
	case p.exists("/run/openrc"):
		return "OpenRC"
	case p.exists("/run/runit"), p.exists("/etc/runit"):
		return "runit"
	case p.exists("/run/s6"):
		return "s6"
	case p.exists("/etc/init.d"):
		return "SysVinit"
	}
	return ""
}
