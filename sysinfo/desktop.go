package sysinfo

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/beevik/etree"
	"github.com/pelletier/go-toml/v2"
	"github.com/shirou/gopsutil/v3/process"
	"gopkg.in/yaml.v3"
)

func (p *probe) desktop(ctx context.Context, info *SystemInfo) {
	if runtime.GOOS != "windows" && runtime.GOOS != "darwin" {
		info.DisplayServer = displayServer(p.getenv)
	}
	info.Resolution = p.resolution(ctx)
	info.DE = desktopName(p.getenv)
	info.WM, info.WMTheme = p.windowManager(ctx)
	info.Theme, info.Icons, info.Cursor = p.themes(ctx)

	term, raw := p.terminal(ctx)
	info.Terminal = term
	info.TerminalFont = p.terminalFont(raw)

	info.Shell, info.ShellVersion = p.shell(ctx)
}

func displayServer(getenv func(string) string) string {
	switch {
	case getenv("WAYLAND_DISPLAY") != "":
		if st := getenv("XDG_SESSION_TYPE"); st != "" {
			return "Wayland (" + st + ")"
		}
		return "Wayland"
	case getenv("DISPLAY") != "":
		return "X11"
	}
	return "TTY"
}

func (p *probe) resolution(ctx context.Context) string {
	if r := parseXrandr(p.output(ctx, "xrandr", "--current")); r != "" {
		return r
	}
	if r := parseWlrRandr(p.output(ctx, "wlr-randr")); r != "" {
		return r
	}
	if fb := p.read("/sys/class/graphics/fb0/virtual_size"); fb != "" {
		return strings.ReplaceAll(fb, ",", "x")
	}
	return platformResolution()
}

// resolutionToken matches "1920x1080" at the start of a field.
var resolutionToken = regexp.MustCompile(`^\d+x\d+`)

// parseXrandr collects the geometry of every connected output.
func parseXrandr(out string) string {
	var res []string
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, " connected") {
			continue
		}
		for _, f := range strings.Fields(line) {
			if m := resolutionToken.FindString(f); m != "" {
				res = appendUnique(res, m)
			}
		}
	}
	return strings.Join(res, ", ")
}

func parseWlrRandr(out string) string {
	var res []string
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "current") {
			continue
		}
		for _, f := range strings.Fields(line) {
			if m := resolutionToken.FindString(f); m != "" {
				res = appendUnique(res, m)
			}
		}
	}
	return strings.Join(res, ", ")
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

var desktopNames = map[string]string{
	"GNOME":          "GNOME",
	"GNOME-XORG":     "GNOME",
	"GNOME-WAYLAND":  "GNOME",
	"KDE":            "KDE Plasma",
	"PLASMA":         "KDE Plasma",
	"KDE-PLASMA":     "KDE Plasma",
	"XFCE":           "Xfce",
	"XFCE4":          "Xfce",
	"MATE":           "MATE",
	"CINNAMON":       "Cinnamon",
	"LXDE":           "LXDE",
	"LXQT":           "LXQt",
	"BUDGIE":         "Budgie",
	"BUDGIE-DESKTOP": "Budgie",
	"DEEPIN":         "Deepin",
	"PANTHEON":       "Pantheon",
	"UNITY":          "Unity",
	"ENLIGHTENMENT":  "Enlightenment",
}

func desktopName(getenv func(string) string) string {
	var de string
	for _, key := range []string{"XDG_CURRENT_DESKTOP", "DESKTOP_SESSION", "XDG_SESSION_DESKTOP"} {
		if de = getenv(key); de != "" {
			break
		}
	}
	if de == "" {
		return ""
	}
	de = strings.ToUpper(de)
	if pretty, ok := desktopNames[de]; ok {
		return pretty
	}
	return de
}

// windowManagers maps process names to display names, in lookup order.
var windowManagers = []struct{ proc, name string }{
	{"sway", "Sway"},
	{"hyprland", "Hyprland"},
	{"i3", "i3"},
	{"bspwm", "bspwm"},
	{"openbox", "Openbox"},
	{"fluxbox", "Fluxbox"},
	{"awesome", "awesome"},
	{"dwm", "dwm"},
	{"xmonad", "XMonad"},
	{"herbstluftwm", "herbstluftwm"},
	{"qtile", "Qtile"},
	{"spectrwm", "spectrwm"},
	{"river", "River"},
	{"wayfire", "Wayfire"},
	{"kwin", "KWin"},
	{"mutter", "Mutter"},
	{"xfwm4", "Xfwm4"},
	{"marco", "Marco"},
	{"muffin", "Muffin"},
	{"compiz", "Compiz"},
	{"metacity", "Metacity"},
	{"enlightenment", "Enlightenment"},
	{"icewm", "IceWM"},
	{"fvwm", "FVWM"},
	{"windowmaker", "Window Maker"},
	{"2bwm", "2bwm"},
}

// detectWM returns the display name and process name of the first known
// window manager among the running processes.
func detectWM(procs []string) (name, proc string) {
	running := make(map[string]bool, len(procs))
	for _, p := range procs {
		running[strings.ToLower(strings.TrimSpace(p))] = true
	}
	for _, wm := range windowManagers {
		if running[wm.proc] {
			return wm.name, wm.proc
		}
	}
	return "", ""
}

func (p *probe) processNames(ctx context.Context) []string {
	if !p.live {
		return nil
	}
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(procs))
	for _, pr := range procs {
		if n, err := pr.NameWithContext(ctx); err == nil {
			names = append(names, n)
		}
	}
	return names
}

func (p *probe) windowManager(ctx context.Context) (wm, theme string) {
	if wm := p.getenv("WAYLAND_WM"); wm != "" {
		return wm, ""
	}
	if name, proc := detectWM(p.processNames(ctx)); name != "" {
		return name, p.wmTheme(proc)
	}
	for _, line := range p.lines(ctx, "wmctrl", "-m") {
		if name, ok := strings.CutPrefix(line, "Name:"); ok {
			return strings.TrimSpace(name), ""
		}
	}
	return "", ""
}

func (p *probe) wmTheme(proc string) string {
	switch proc {
	case "i3":
		return "N/A"
	case "openbox":
		for _, path := range []string{p.userConfig("openbox/rc.xml"), p.path("/etc/xdg/openbox/rc.xml")} {
			if name := openboxTheme(path); name != "" {
				return name
			}
		}
	}
	return ""
}

// openboxTheme reads <theme><name> from an openbox rc.xml.
func openboxTheme(path string) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return ""
	}
	if el := doc.FindElement("//theme/name"); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

const gnomeInterface = "org.gnome.desktop.interface"

func (p *probe) themes(ctx context.Context) (theme, icons, cursor string) {
	gtk3 := readAbs(p.userConfig("gtk-3.0/settings.ini"))

	theme = settingsValue(gtk3, "gtk-theme-name")
	if theme == "" {
		theme = p.gsettings(ctx, "gtk-theme")
	}
	if theme == "" {
		theme = strings.Trim(settingsValue(readAbs(p.userHome(".gtkrc-2.0")), "gtk-theme-name"), `"`)
	}

	icons = settingsValue(gtk3, "gtk-icon-theme-name")
	if icons == "" {
		icons = p.gsettings(ctx, "icon-theme")
	}

	cursor = p.getenv("XCURSOR_THEME")
	if cursor == "" {
		cursor = settingsValue(gtk3, "gtk-cursor-theme-name")
	}
	if cursor == "" {
		cursor = p.gsettings(ctx, "cursor-theme")
	}
	if cursor == "" {
		cursor = settingsValue(readAbs(p.userHome(".icons/default/index.theme")), "Inherits")
	}
	return theme, icons, cursor
}

// settingsValue finds key=value in an ini-style file body.
func settingsValue(content, key string) string {
	for _, line := range strings.Split(content, "\n") {
		k, v, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(k) != key {
			continue
		}
		if v = strings.Trim(strings.TrimSpace(v), "'"); v != "" {
			return v
		}
	}
	return ""
}

func (p *probe) gsettings(ctx context.Context, key string) string {
	return strings.Trim(p.output(ctx, "gsettings", "get", gnomeInterface, key), "'")
}

var terminals = []string{
	"alacritty", "kitty", "konsole", "gnome-terminal", "xfce4-terminal",
	"mate-terminal", "tilix", "terminator", "urxvt", "rxvt", "xterm", "st",
	"foot", "wezterm", "termite", "sakura", "lxterminal", "qterminal",
	"terminology", "cool-retro-term", "hyper", "tabby", "contour", "warp",
	"rio", "ghostty",
}

// isTerminal matches process names against known emulators. Short names
// like "st" must match exactly to avoid hits on "systemd" and friends.
func isTerminal(name string) bool {
	for _, t := range terminals {
		if name == t || (len(t) > 3 && strings.Contains(name, t)) {
			return true
		}
	}
	return false
}

var terminalNames = map[string]string{
	"alacritty":             "Alacritty",
	"kitty":                 "Kitty",
	"konsole":               "Konsole",
	"gnome-terminal":        "GNOME Terminal",
	"gnome-terminal-server": "GNOME Terminal",
	"xfce4-terminal":        "Xfce4 Terminal",
	"mate-terminal":         "MATE Terminal",
	"tilix":                 "Tilix",
	"terminator":            "Terminator",
	"urxvt":                 "URxvt",
	"urxvtd":                "URxvt",
	"xterm":                 "XTerm",
	"wezterm":               "WezTerm",
	"wezterm-gui":           "WezTerm",
	"termite":               "Termite",
	"sakura":                "Sakura",
	"lxterminal":            "LXTerminal",
	"qterminal":             "QTerminal",
	"terminology":           "Terminology",
	"cool-retro-term":       "Cool Retro Term",
	"hyper":                 "Hyper",
	"tabby":                 "Tabby",
	"contour":               "Contour",
	"warp":                  "Warp",
	"rio":                   "Rio",
	"ghostty":               "Ghostty",
}

func terminalName(raw string) string {
	if pretty, ok := terminalNames[strings.ToLower(raw)]; ok {
		return pretty
	}
	return raw
}

// terminal returns the display name and the raw identifier used to find
// the emulator's config.
func (p *probe) terminal(ctx context.Context) (name, raw string) {
	if t := p.getenv("TERM_PROGRAM"); t != "" {
		return terminalName(t), t
	}
	if p.getenv("WT_SESSION") != "" {
		return "Windows Terminal", ""
	}
	if t := p.parentTerminal(ctx); t != "" {
		return terminalName(t), t
	}
	for _, key := range []string{"TERMINAL", "TERM"} {
		t := p.getenv(key)
		if t != "" && t != "dumb" && t != "linux" {
			return terminalName(t), t
		}
	}
	return "", ""
}

// parentTerminal walks up the process tree looking for a known emulator.
func (p *probe) parentTerminal(ctx context.Context) string {
	if !p.live {
		return ""
	}
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return ""
	}
	for i := 0; i < 20; i++ {
		ppid, err := proc.PpidWithContext(ctx)
		if err != nil || ppid <= 1 {
			return ""
		}
		if proc, err = process.NewProcessWithContext(ctx, ppid); err != nil {
			return ""
		}
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			return ""
		}
		name = strings.ToLower(strings.TrimSuffix(name, ".exe"))
		if isTerminal(name) {
			return name
		}
	}
	return ""
}

// alacrittyConfig covers the font section of both alacritty.toml and the
// legacy alacritty.yml.
type alacrittyConfig struct {
	Font struct {
		Normal struct {
			Family string `toml:"family" yaml:"family"`
		} `toml:"normal" yaml:"normal"`
	} `toml:"font" yaml:"font"`
}

var weztermFont = regexp.MustCompile(`font[^=\n]*=[^"\n]*"([^"]+)"`)

func (p *probe) terminalFont(term string) string {
	switch strings.ToLower(term) {
	case "alacritty":
		var cfg alacrittyConfig
		if body := readAbs(p.userConfig("alacritty/alacritty.toml")); body != "" {
			if err := toml.Unmarshal([]byte(body), &cfg); err == nil {
				return cfg.Font.Normal.Family
			}
			return ""
		}
		if body := readAbs(p.userConfig("alacritty/alacritty.yml")); body != "" {
			if err := yaml.Unmarshal([]byte(body), &cfg); err == nil {
				return cfg.Font.Normal.Family
			}
		}
	case "kitty":
		return confValue(readAbs(p.userConfig("kitty/kitty.conf")), "font_family")
	case "wezterm", "wezterm-gui":
		if m := weztermFont.FindStringSubmatch(readAbs(p.userConfig("wezterm/wezterm.lua"))); m != nil {
			return m[1]
		}
	case "foot":
		return settingsValue(readAbs(p.userConfig("foot/foot.ini")), "font")
	}
	return ""
}

// confValue reads "key value" lines as used by kitty.conf.
func confValue(content, key string) string {
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == key {
			return strings.Join(fields[1:], " ")
		}
	}
	return ""
}

func (p *probe) shell(ctx context.Context) (name, version string) {
	path := p.getenv("SHELL")
	if path == "" {
		return p.platformShell(ctx)
	}
	name = filepath.Base(path)
	if name == "sh" || name == "dash" {
		return name, ""
	}
	return name, shellVersion(p.output(ctx, path, "--version"), name)
}

// shellVersion extracts the version from a shell's --version banner.
func shellVersion(out, shell string) string {
	line := firstLine(out)
	if line == "" {
		return ""
	}
	switch shell {
	case "bash":
		if _, v, ok := strings.Cut(line, "version "); ok {
			v, _, _ = strings.Cut(v, "(")
			return strings.TrimSpace(v)
		}
		return ""
	case "zsh":
		if f := strings.Fields(line); len(f) > 1 {
			return f[1]
		}
		return ""
	case "fish":
		if _, v, ok := strings.Cut(line, "version "); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}
	for _, w := range strings.Fields(line) {
		if w[0] >= '0' && w[0] <= '9' {
			return w
		}
	}
	return ""
}
