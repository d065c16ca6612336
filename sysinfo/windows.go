//go:build windows
// +build windows

package sysinfo

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

var (
	procGetSystemMetrics = windows.NewLazySystemDLL("user32.dll").NewProc("GetSystemMetrics")
)

const currentVersionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`

// platformOS reads the product name from the registry.
//
// Returns:
//   - The full product name with its display version (e.g., "Windows 11 Pro 23H2")
//   - "windows" or "windows_server" as the logo identifier
//
// ProductName still says "Windows 10" on Windows 11, so the build number
// reported by RtlGetVersion decides.
func (p *probe) platformOS() (name, id string) {
	product := registryString(registry.LOCAL_MACHINE, currentVersionKey, "ProductName")
	if product == "" {
		return "Windows", "windows"
	}

	build := windowsBuild()
	if build >= 22000 && strings.Contains(strings.ToLower(product), "windows 10") {
		product = strings.Replace(product, "Windows 10", "Windows 11", 1)
	}

	name = product
	if dv := registryString(registry.LOCAL_MACHINE, currentVersionKey, "DisplayVersion"); dv != "" {
		name = product + " " + dv
	}

	id = "windows"
	if strings.Contains(strings.ToLower(product), "server") {
		id = "windows_server"
	}
	return name, id
}

// windowsBuild prefers RtlGetVersion, which is not subject to the
// compatibility shims that affect GetVersionEx, and falls back to the
// registry.
func windowsBuild() uint32 {
	if v := windows.RtlGetVersion(); v != nil && v.BuildNumber > 0 {
		return v.BuildNumber
	}
	s := registryString(registry.LOCAL_MACHINE, currentVersionKey, "CurrentBuild")
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

func kernelRelease() string {
	if b := windowsBuild(); b > 0 {
		return fmt.Sprintf("Build %d", b)
	}
	return ""
}

func machineArch() string {
	if a := os.Getenv("PROCESSOR_ARCHITECTURE"); a != "" {
		return strings.ToLower(a)
	}
	return runtime.GOARCH
}

// platformChassis asks CIM for the enclosure type, which uses the same
// SMBIOS numbering as /sys/class/dmi/id/chassis_type.
func (p *probe) platformChassis(ctx context.Context) int64 {
	var enc struct {
		ChassisTypes []int64
	}
	cmd := "Get-CimInstance Win32_SystemEnclosure | Select-Object -First 1 -Property ChassisTypes | ConvertTo-Json -Compress"
	if err := p.runPowerShellJSON(ctx, cmd, &enc); err != nil {
		p.log.Debug().Err(err).Msg("chassis query failed")
		return 0
	}
	if len(enc.ChassisTypes) == 0 {
		return 0
	}
	return enc.ChassisTypes[0]
}

// platformResolution reads the primary monitor size via GetSystemMetrics.
func platformResolution() string {
	const (
		smCXScreen = 0
		smCYScreen = 1
	)
	width, _, _ := procGetSystemMetrics.Call(uintptr(smCXScreen))
	height, _, _ := procGetSystemMetrics.Call(uintptr(smCYScreen))
	if width == 0 || height == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", width, height)
}

// platformPackages counts entries of both uninstall registry views.
func platformPackages() []PackageCount {
	count := 0
	for _, path := range []string{
		`SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`,
		`SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`,
	} {
		k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.ENUMERATE_SUB_KEYS)
		if err != nil {
			continue
		}
		subkeys, err := k.ReadSubKeyNames(-1)
		_ = k.Close()
		if err != nil {
			continue
		}
		count += len(subkeys)
	}
	if count == 0 {
		return nil
	}
	return []PackageCount{{Manager: "programs", Count: count}}
}

// platformShell identifies the shell from the parent process, telling
// PowerShell Core (pwsh) apart from Windows PowerShell.
func (p *probe) platformShell(ctx context.Context) (name, version string) {
	parent := strings.ToLower(parentProcessName())
	switch {
	case strings.Contains(parent, "pwsh"):
		return "PowerShell", p.powerShellVersion(ctx, "pwsh")
	case strings.Contains(parent, "powershell"):
		return "PowerShell", p.powerShellVersion(ctx, "powershell")
	case strings.Contains(parent, "cmd"):
		return "cmd.exe", ""
	case parent != "" && !strings.Contains(parent, "windowsterminal") && !strings.Contains(parent, "explorer"):
		return strings.TrimSuffix(parent, ".exe"), ""
	}

	if p.getenv("PSModulePath") != "" {
		return "PowerShell", p.powerShellVersion(ctx, "powershell")
	}
	if comspec := p.getenv("COMSPEC"); comspec != "" {
		return strings.ToLower(comspec[strings.LastIndexAny(comspec, `\/`)+1:]), ""
	}
	return "cmd.exe", ""
}

func (p *probe) powerShellVersion(ctx context.Context, exe string) string {
	return p.output(ctx, exe, "-NoProfile", "-Command", "$PSVersionTable.PSVersion.ToString()")
}

// parentProcessName walks a Toolhelp snapshot for our parent's executable
// name, "" on failure.
func parentProcessName() string {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return ""
	}
	defer func() { _ = windows.CloseHandle(snapshot) }()

	entries := map[uint32]windows.ProcessEntry32{}
	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))
	for err = windows.Process32First(snapshot, &pe); err == nil; err = windows.Process32Next(snapshot, &pe) {
		entries[pe.ProcessID] = pe
	}

	self, ok := entries[uint32(os.Getpid())]
	if !ok {
		return ""
	}
	parent, ok := entries[self.ParentProcessID]
	if !ok {
		return ""
	}
	return windows.UTF16ToString(parent.ExeFile[:])
}

// registryString reads a string value, "" if the key or value is missing.
func registryString(key registry.Key, path, valueName string) string {
	k, err := registry.OpenKey(key, path, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer func() { _ = k.Close() }()

	value, _, err := k.GetStringValue(valueName)
	if err != nil {
		return ""
	}
	return value
}
