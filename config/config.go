// Package config loads hyperfetch settings. Values are layered: embedded
// defaults, then the user's config.toml (or an explicit file), then
// HYPERFETCH_ environment variables.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"hyperfetch/ascii"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix marks environment overrides. Nested keys use a double
// underscore: HYPERFETCH_DISPLAY__SMALL_ASCII=true sets display.small_ascii.
const EnvPrefix = "HYPERFETCH_"

// Config is the full set of user settings.
type Config struct {
	Display Display `koanf:"display" toml:"display"`
	Colors  Colors  `koanf:"colors" toml:"colors"`
	Info    Info    `koanf:"info" toml:"info"`
}

// Display controls the logo column.
type Display struct {
	ShowASCII   bool   `koanf:"show_ascii" toml:"show_ascii"`
	ShowColors  bool   `koanf:"show_colors" toml:"show_colors"`
	SmallASCII  bool   `koanf:"small_ascii" toml:"small_ascii"`
	ASCIIDistro string `koanf:"ascii_distro" toml:"ascii_distro"`
	ASCIIDir    string `koanf:"ascii_dir" toml:"ascii_dir"`
}

// Colors holds color names as written by the user.
type Colors struct {
	Primary   string `koanf:"primary" toml:"primary"`
	Secondary string `koanf:"secondary" toml:"secondary"`
}

// Info toggles individual report lines.
type Info struct {
	OS         bool `koanf:"os" toml:"os"`
	Kernel     bool `koanf:"kernel" toml:"kernel"`
	Hostname   bool `koanf:"hostname" toml:"hostname"`
	Uptime     bool `koanf:"uptime" toml:"uptime"`
	Packages   bool `koanf:"packages" toml:"packages"`
	Shell      bool `koanf:"shell" toml:"shell"`
	Resolution bool `koanf:"resolution" toml:"resolution"`
	DE         bool `koanf:"de" toml:"de"`
	WM         bool `koanf:"wm" toml:"wm"`
	Theme      bool `koanf:"theme" toml:"theme"`
	Icons      bool `koanf:"icons" toml:"icons"`
	Terminal   bool `koanf:"terminal" toml:"terminal"`
	CPU        bool `koanf:"cpu" toml:"cpu"`
	GPU        bool `koanf:"gpu" toml:"gpu"`
	Memory     bool `koanf:"memory" toml:"memory"`
	Disk       bool `koanf:"disk" toml:"disk"`
	Network    bool `koanf:"network" toml:"network"`
	Battery    bool `koanf:"battery" toml:"battery"`
	Audio      bool `koanf:"audio" toml:"audio"`
	Misc       bool `koanf:"misc" toml:"misc"`
	PublicIP   bool `koanf:"public_ip" toml:"public_ip"`
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// DefaultPath is the user config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "hyperfetch", "config.toml")
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := load("", false)
	if err != nil {
		// the embedded file is covered by tests
		panic(fmt.Sprintf("config: invalid embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the configuration. With an empty path the user file at
// DefaultPath is used when it exists. A file that cannot be read or parsed
// is reported through the returned error while the returned Config still
// holds defaults plus environment overrides, so callers can warn and carry
// on.
func Load(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, withUser bool) (*Config, error) {
	k := koanf.New(".")

	// 1. Load system defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load the user or explicit config file
	var fileErr error
	if withUser {
		if path == "" {
			if p := DefaultPath(); fileExists(p) {
				path = p
			}
		}
		if path != "" {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				fileErr = fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}

		// 3. Load env vars
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	// 4. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return &cfg, fileErr
}

// envKey maps HYPERFETCH_DISPLAY__SMALL_ASCII to display.small_ascii.
// Variables without a section separator are not configuration keys.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if !strings.Contains(key, "__") {
		return ""
	}
	return strings.ReplaceAll(key, "__", ".")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Marshal renders cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	return gotoml.Marshal(cfg)
}

// Accent is the label color. "auto" and "distro" pick the logo's primary
// color; unknown names fall back to cyan.
func (c *Config) Accent(logoPrimary ascii.Color) ascii.Color {
	switch strings.ToLower(strings.TrimSpace(c.Colors.Primary)) {
	case "auto", "distro":
		if logoPrimary != "" {
			return logoPrimary
		}
		return ascii.Cyan
	}
	return parseOrCyan(c.Colors.Primary)
}

// Secondary is the color used for the title separator.
func (c *Config) Secondary() ascii.Color {
	return parseOrCyan(c.Colors.Secondary)
}

func parseOrCyan(name string) ascii.Color {
	if col, ok := ascii.ParseColor(name); ok {
		return col
	}
	return ascii.Cyan
}
