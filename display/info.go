package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"hyperfetch/ascii"
	"hyperfetch/config"
	"hyperfetch/sysinfo"
)

// Style carries the color decisions made by the caller.
type Style struct {
	Colorize bool
	// Accent colors labels and their colons.
	Accent ascii.Color
	// Secondary colors the user@host title and its underline.
	Secondary ascii.Color
}

// Formatter builds the info column.
type Formatter struct {
	style Style
	show  config.Info

	label lipgloss.Style
	colon lipgloss.Style
	title lipgloss.Style
	r     *lipgloss.Renderer
}

// NewFormatter prepares label styles. The renderer is pinned to the ANSI
// profile; Style.Colorize alone decides whether escapes are emitted.
func NewFormatter(style Style, show config.Info) *Formatter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)

	return &Formatter{
		style: style,
		show:  show,
		label: r.NewStyle().Bold(true).Foreground(lipgloss.Color(style.Accent.Code())),
		colon: r.NewStyle().Foreground(lipgloss.Color(style.Accent.Code())),
		title: r.NewStyle().Foreground(lipgloss.Color(style.Secondary.Code())),
		r:     r,
	}
}

// Line formats one "Label: value" entry.
func (f *Formatter) Line(label, value string) string {
	if !f.style.Colorize {
		return label + ": " + value
	}
	return f.label.Render(label) + f.colon.Render(":") + " " + value
}

// Title renders "user@host" and a dash underline of the same width.
func (f *Formatter) Title(user, host string) []string {
	var t string
	switch {
	case user != "" && host != "":
		t = user + "@" + host
	case host != "":
		t = host
	default:
		t = user
	}
	if t == "" {
		return nil
	}
	sep := strings.Repeat("-", ascii.VisibleWidth(t))
	if !f.style.Colorize {
		return []string{t, sep}
	}
	return []string{f.title.Render(t), f.title.Render(sep)}
}

// ColorBar shows the eight normal and the eight bright background colors,
// one row each.
func (f *Formatter) ColorBar() []string {
	if !f.style.Colorize {
		return nil
	}
	rows := make([]string, 2)
	for row := range rows {
		var b strings.Builder
		for c := 0; c < 8; c++ {
			bg := lipgloss.Color(strconv.Itoa(row*8 + c))
			b.WriteString(f.r.NewStyle().Background(bg).Render("   "))
		}
		rows[row] = b.String()
	}
	return rows
}

// lines accumulates formatted entries, skipping empty values and
// disabled toggles.
type lines struct {
	f   *Formatter
	out []string
}

func (l *lines) add(on bool, label, value string) {
	if on && value != "" {
		l.out = append(l.out, l.f.Line(label, value))
	}
}

func (l *lines) blank() {
	l.out = append(l.out, "")
}

// Lines turns info into the info column: title, system, hardware,
// network and power, misc, then the color bar. Group separators are blank
// lines and are kept even when a group turns out empty.
func (f *Formatter) Lines(info *sysinfo.SystemInfo) []string {
	s := f.show
	l := &lines{f: f}

	host := info.Hostname
	if !s.Hostname {
		host = ""
	}
	l.out = append(l.out, f.Title(info.Username, host)...)

	l.add(s.OS, "OS", info.OS)
	l.add(s.Kernel, "Kernel", info.Kernel)
	l.add(s.Hostname, "Host", info.Hostname)
	l.add(s.Uptime, "Uptime", info.Uptime)
	l.add(true, "Machine", info.MachineType)
	l.add(true, "Init", info.InitSystem)
	l.add(s.Packages, "Packages", info.Packages)
	l.add(s.Shell, "Shell", joinNonEmpty(" ", info.Shell, info.ShellVersion))
	l.add(true, "Display", info.DisplayServer)
	l.add(s.Resolution, "Resolution", info.Resolution)
	l.add(s.DE, "DE", info.DE)
	l.add(s.WM, "WM", info.WM)
	l.add(s.Theme, "Theme", info.Theme)
	l.add(s.Icons, "Icons", info.Icons)
	l.add(s.Theme, "Cursor", info.Cursor)
	l.add(s.Terminal, "Terminal", withSuffix(info.Terminal, info.TerminalFont, " (", ")"))

	l.blank()
	l.add(s.CPU, "CPU", cpuValue(info))
	l.add(s.CPU, "Arch", info.CPUArch)
	l.add(s.CPU, "Cache", info.CPUCache)
	l.add(s.CPU, "CPU Temp", info.CPUTemp)
	l.add(s.CPU, "Governor", info.CPUGovernor)
	for _, g := range info.GPUs {
		l.add(s.GPU, "GPU", gpuValue(g))
	}
	l.add(s.Memory, "Memory", info.Memory)
	l.add(s.Memory, "Swap", info.Swap)
	l.add(true, "Load", info.LoadAverage)
	if info.Processes > 0 {
		l.add(true, "Processes", strconv.Itoa(info.Processes))
	}
	for _, d := range info.Disks {
		l.add(s.Disk, "Disk ("+d.Mount+")", diskValue(d))
	}
	l.add(true, "Board", info.Motherboard)
	l.add(true, "BIOS", info.BIOS)

	l.blank()
	for _, iface := range info.Interfaces {
		l.add(s.Network, "Net ("+iface.Name+")", interfaceValue(iface))
	}
	if info.PublicIP != nil {
		l.add(s.PublicIP, "Public IP", publicIPValue(info.PublicIP))
	}
	if info.Battery != nil {
		l.add(s.Battery, "Battery", batteryValue(info.Battery))
	}
	l.add(s.Battery, "Brightness", info.Brightness)
	l.add(s.Audio, "Audio", info.AudioDevice)
	l.add(s.Audio, "Volume", info.Volume)

	l.blank()
	l.add(s.Misc, "Locale", info.Locale)
	l.add(s.Misc, "Timezone", info.Timezone)
	l.add(s.Misc, "Boot Time", info.BootTime)
	l.add(s.Misc, "Users", info.LoggedUsers)
	l.add(s.Misc, "Virt", info.Virtualization)
	l.add(s.Misc, "Container", info.Container)
	l.add(s.Misc, "Security", info.Security)
	l.add(s.Misc, "SSH", info.SSHConnection)
	l.add(s.Misc, "Bluetooth", info.Bluetooth)

	if bar := f.ColorBar(); bar != nil {
		l.blank()
		l.out = append(l.out, bar...)
	}
	return l.out
}

// cpuValue renders "name (threads) @ freq" with "?" for unknown parts.
func cpuValue(info *sysinfo.SystemInfo) string {
	if info.CPU == "" {
		return ""
	}
	threads := "?"
	if info.CPUThreads > 0 {
		threads = strconv.Itoa(info.CPUThreads)
	}
	freq := info.CPUFreq
	if freq == "" {
		freq = "?"
	}
	return fmt.Sprintf("%s (%s) @ %s", info.CPU, threads, freq)
}

func gpuValue(g sysinfo.GPU) string {
	v := withSuffix(g.Name, g.Driver, " [", "]")
	v = withSuffix(v, g.VRAM, " (", ")")
	return withSuffix(v, g.Temp, " @ ", "")
}

func diskValue(d sysinfo.Disk) string {
	kind := d.Filesystem
	if d.Type != "" {
		kind += ", " + d.Type
	}
	return fmt.Sprintf("%s / %s (%d%%) [%s]", d.Used, d.Size, d.Percent, kind)
}

// interfaceValue lists addresses and speed, and the state when not up.
// An interface with nothing to show yields "".
func interfaceValue(iface sysinfo.Interface) string {
	parts := []string{iface.IPv4, iface.IPv6, iface.Speed}
	if iface.State != "" && iface.State != "up" {
		parts = append(parts, "["+iface.State+"]")
	}
	return joinNonEmpty(", ", parts...)
}

func publicIPValue(ip *sysinfo.PublicIP) string {
	v := withSuffix(ip.IP, joinNonEmpty(", ", ip.City, ip.Region, ip.Country, ip.Zip), " (", ")")
	return withSuffix(v, ip.ISP, " [", "]")
}

func batteryValue(b *sysinfo.Battery) string {
	v := fmt.Sprintf("%d%% (%s)", b.Percent, b.Status)
	return withSuffix(v, b.TimeRemaining, " ~", "")
}

// withSuffix appends pre+extra+post to base when both are set.
func withSuffix(base, extra, pre, post string) string {
	if base == "" || extra == "" {
		return base
	}
	return base + pre + extra + post
}

func joinNonEmpty(sep string, vals ...string) string {
	var parts []string
	for _, v := range vals {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
