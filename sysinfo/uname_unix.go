//go:build !windows

package sysinfo

import (
	"context"

	"golang.org/x/sys/unix"
)

func kernelRelease() string {
	var utsname unix.Utsname
	if err := unix.Uname(&utsname); err != nil {
		return ""
	}
	return unix.ByteSliceToString(utsname.Release[:])
}

func machineArch() string {
	var utsname unix.Utsname
	if err := unix.Uname(&utsname); err != nil {
		return ""
	}
	return unix.ByteSliceToString(utsname.Machine[:])
}

// The platform hooks below only carry data on Windows, where /proc, /sys
// and the usual helper binaries are absent.

func (p *probe) platformOS() (name, id string) { return "", "" }

func (p *probe) platformChassis(context.Context) int64 { return 0 }

func (p *probe) platformShell(context.Context) (name, version string) { return "", "" }

func platformResolution() string { return "" }

func platformPackages() []PackageCount { return nil }
