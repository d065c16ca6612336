package sysinfo

import (
	"context"
	"fmt"
	"strings"
)

func (p *probe) misc(ctx context.Context, info *SystemInfo) {
	info.Locale = p.locale(ctx)
	info.Timezone = p.timezone(ctx)
	info.Virtualization = p.virtualization(ctx)
	info.Container = p.container()
	info.Security = p.security()
	info.SSHConnection = sshConnection(p.getenv)
	info.Bluetooth = p.bluetooth(ctx)
}

func (p *probe) locale(ctx context.Context) string {
	for _, key := range []string{"LANG", "LC_ALL"} {
		if v := p.getenv(key); v != "" {
			return v
		}
	}
	for _, line := range p.lines(ctx, "locale") {
		if v, ok := strings.CutPrefix(line, "LANG="); ok {
			return strings.Trim(v, `"`)
		}
	}
	return ""
}

const zoneinfo = "/usr/share/zoneinfo/"

func (p *probe) timezone(ctx context.Context) string {
	if tz := p.read("/etc/timezone"); tz != "" {
		return tz
	}
	if tz := p.getenv("TZ"); tz != "" {
		return tz
	}
	if target := p.link("/etc/localtime"); target != "" {
		if i := strings.Index(target, zoneinfo); i >= 0 {
			return target[i+len(zoneinfo):]
		}
	}
	for _, line := range p.lines(ctx, "timedatectl", "status") {
		if _, v, ok := strings.Cut(line, "Time zone:"); ok {
			if f := strings.Fields(v); len(f) > 0 {
				return f[0]
			}
		}
	}
	return ""
}

var virtNames = map[string]string{
	"kvm":            "KVM",
	"qemu":           "QEMU",
	"vmware":         "VMware",
	"oracle":         "VirtualBox",
	"xen":            "Xen",
	"microsoft":      "Hyper-V",
	"docker":         "Docker",
	"podman":         "Podman",
	"lxc":            "LXC",
	"lxc-libvirt":    "LXC (libvirt)",
	"systemd-nspawn": "systemd-nspawn",
	"openvz":         "OpenVZ",
	"wsl":            "WSL",
}

func (p *probe) virtualization(ctx context.Context) string {
	if v := p.output(ctx, "systemd-detect-virt"); v != "" && v != "none" {
		if pretty, ok := virtNames[v]; ok {
			return pretty
		}
		return v
	}

	product := strings.ToLower(p.read("/sys/class/dmi/id/product_name"))
	switch {
	case strings.Contains(product, "virtualbox"):
		return "VirtualBox"
	case strings.Contains(product, "vmware"):
		return "VMware"
	case strings.Contains(product, "kvm"), strings.Contains(product, "qemu"):
		return "KVM/QEMU"
	case strings.Contains(product, "hyper-v"):
		return "Hyper-V"
	case strings.Contains(product, "xen"):
		return "Xen"
	}

	if strings.Contains(p.read("/proc/cpuinfo"), "hypervisor") {
		return "Virtual Machine"
	}
	if strings.Contains(strings.ToLower(p.read("/proc/version")), "microsoft") {
		return "WSL"
	}
	return ""
}

func (p *probe) container() string {
	if p.exists("/.dockerenv") {
		return "Docker"
	}
	cgroup := p.read("/proc/1/cgroup")
	switch {
	case strings.Contains(cgroup, "docker"):
		return "Docker"
	case strings.Contains(cgroup, "lxc"):
		return "LXC"
	case strings.Contains(cgroup, "kubepods"):
		return "Kubernetes"
	}
	if p.exists("/run/.containerenv") {
		return "Podman"
	}
	if strings.Contains(p.read("/proc/1/environ"), "container=systemd-nspawn") {
		return "systemd-nspawn"
	}
	return ""
}

func (p *probe) security() string {
	var mods []string
	if p.exists("/sys/fs/selinux") {
		switch p.read("/sys/fs/selinux/enforce") {
		case "1":
			mods = append(mods, "SELinux (Enforcing)")
		case "":
			mods = append(mods, "SELinux")
		default:
			mods = append(mods, "SELinux (Permissive)")
		}
	}
	if p.exists("/sys/kernel/security/apparmor") {
		if profiles := p.read("/sys/kernel/security/apparmor/profiles"); profiles != "" {
			mods = append(mods, fmt.Sprintf("AppArmor (%d profiles)", strings.Count(profiles, "\n")+1))
		} else {
			mods = append(mods, "AppArmor")
		}
	}
	if p.exists("/sys/kernel/security/tomoyo") {
		mods = append(mods, "TOMOYO")
	}
	if p.exists("/sys/fs/smackfs") {
		mods = append(mods, "Smack")
	}
	return strings.Join(mods, ", ")
}

// sshConnection reports the client end of the SSH session, "ip:port".
func sshConnection(getenv func(string) string) string {
	for _, key := range []string{"SSH_CONNECTION", "SSH_CLIENT"} {
		v := getenv(key)
		if v == "" {
			continue
		}
		if f := strings.Fields(v); len(f) >= 2 {
			return f[0] + ":" + f[1]
		}
		return ""
	}
	return ""
}

func (p *probe) bluetooth(ctx context.Context) string {
	if out, err := p.run(ctx, "bluetoothctl", "show"); err == nil {
		return parseBluetoothctl(out)
	}
	if n := len(p.entries("/sys/class/bluetooth")); n > 0 {
		return fmt.Sprintf("%d adapter(s)", n)
	}
	return ""
}

func parseBluetoothctl(out string) string {
	var name string
	powered := false
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "Powered:"); ok {
			powered = strings.Contains(v, "yes")
		} else if v, ok := strings.CutPrefix(line, "Name:"); ok {
			name = strings.TrimSpace(v)
		}
	}
	state := "Off"
	if powered {
		state = "On"
	}
	if name == "" {
		return state
	}
	return name + " (" + state + ")"
}
