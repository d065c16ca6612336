package sysinfo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocale(t *testing.T) {
	p := newFixture(t).setenv("LANG", "de_DE.UTF-8").probe()
	assert.Equal(t, "de_DE.UTF-8", p.locale(context.Background()))

	p = newFixture(t).command("locale", "LANG=\"en_GB.UTF-8\"\nLC_CTYPE=\"en_GB.UTF-8\"\n").probe()
	assert.Equal(t, "en_GB.UTF-8", p.locale(context.Background()))
}

func TestTimezone(t *testing.T) {
	p := newFixture(t).file("/etc/timezone", "Europe/Berlin\n").probe()
	assert.Equal(t, "Europe/Berlin", p.timezone(context.Background()))

	p = newFixture(t).symlink("/etc/localtime", "/usr/share/zoneinfo/America/New_York").probe()
	assert.Equal(t, "America/New_York", p.timezone(context.Background()))

	p = newFixture(t).command("timedatectl status", "               Local time: Sat 2024-03-02\n                Time zone: Asia/Tokyo (JST, +0900)\n").probe()
	assert.Equal(t, "Asia/Tokyo", p.timezone(context.Background()))
}

func TestVirtualization(t *testing.T) {
	p := newFixture(t).command("systemd-detect-virt", "oracle\n").probe()
	assert.Equal(t, "VirtualBox", p.virtualization(context.Background()))

	p = newFixture(t).command("systemd-detect-virt", "none\n").probe()
	assert.Equal(t, "", p.virtualization(context.Background()))

	p = newFixture(t).file("/proc/cpuinfo", "flags\t\t: fpu vme hypervisor\n").probe()
	assert.Equal(t, "Virtual Machine", p.virtualization(context.Background()))

	p = newFixture(t).file("/proc/version", "Linux version 5.15.133.1-microsoft-standard-WSL2").probe()
	assert.Equal(t, "WSL", p.virtualization(context.Background()))
}

func TestContainer(t *testing.T) {
	assert.Equal(t, "Docker", newFixture(t).file("/.dockerenv", "").probe().container())
	assert.Equal(t, "Podman", newFixture(t).file("/run/.containerenv", "").probe().container())
	assert.Equal(t, "LXC", newFixture(t).file("/proc/1/cgroup", "0::/lxc/ct1").probe().container())
	assert.Equal(t, "", newFixture(t).probe().container())
}

func TestSecurity(t *testing.T) {
	p := newFixture(t).
		file("/sys/fs/selinux/enforce", "1").
		file("/sys/kernel/security/apparmor/profiles", "/usr/bin/man (enforce)\nlsb_release (enforce)\n").
		probe()
	assert.Equal(t, "SELinux (Enforcing), AppArmor (2 profiles)", p.security())
	assert.Equal(t, "", newFixture(t).probe().security())
}

func TestSSHConnection(t *testing.T) {
	env := map[string]string{"SSH_CONNECTION": "192.0.2.10 52144 192.0.2.1 22"}
	assert.Equal(t, "192.0.2.10:52144", sshConnection(envFunc(env)))
	assert.Equal(t, "", sshConnection(envFunc(nil)))
}

func TestBluetooth(t *testing.T) {
	out := "Controller 00:1A:7D:DA:71:13 (public)\n\tName: laptop\n\tPowered: yes\n"
	assert.Equal(t, "laptop (On)", parseBluetoothctl(out))
	assert.Equal(t, "Off", parseBluetoothctl("\tPowered: no\n"))

	p := newFixture(t).dir("/sys/class/bluetooth/hci0").probe()
	assert.Equal(t, "1 adapter(s)", p.bluetooth(context.Background()))
}
