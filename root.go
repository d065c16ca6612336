package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hyperfetch/ascii"
	"hyperfetch/config"
	"hyperfetch/display"
	"hyperfetch/logging"
	"hyperfetch/sysinfo"
)

// options collects the root command flags.
type options struct {
	configPath string
	distro     string
	noASCII    bool
	noColors   bool
	small      bool
	logoOnly   bool
	json       bool
	format     string
	publicIP   bool
	listLogos  bool
	verbosity  int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "hyperfetch",
		Short: "Show system information next to a distribution logo",
		Long: `hyperfetch prints an ASCII art logo of your operating system beside a
report of the machine: OS, kernel, hardware, desktop, network, power and
more. Settings are read from $XDG_CONFIG_HOME/hyperfetch/config.toml.`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerTo(cmd.ErrOrStderr(), opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := cmd.Flags()
	f.StringVarP(&opts.distro, "ascii", "a", "", "show the logo of DISTRO instead of the detected one")
	f.BoolVar(&opts.noASCII, "no-ascii", false, "hide the logo")
	f.BoolVar(&opts.noColors, "no-colors", false, "disable colors")
	f.BoolVarP(&opts.small, "small", "s", false, "use the small logo variant")
	f.BoolVarP(&opts.logoOnly, "logo-only", "l", false, "print only the logo")
	f.BoolVarP(&opts.json, "json", "j", false, "print the report as JSON (same as --format json)")
	f.StringVar(&opts.format, "format", "auto", "output format: auto, text, term, json or yaml")
	f.BoolVar(&opts.publicIP, "public-ip", false, "look up the public IP address (network access)")
	f.BoolVar(&opts.listLogos, "list-logos", false, "list the available logos")

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/hyperfetch/config.toml)")
	pf.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	cmd.AddCommand(
		newVersionCmd(),
		newCompletionCmd(),
		newConfigCmd(opts),
		newLogosCmd(opts),
	)
	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	out := cmd.OutOrStdout()
	cfg := loadConfig(opts)
	catalog := newCatalog(cfg)

	if opts.listLogos {
		return display.WriteLogos(out, catalog.List())
	}

	format, err := display.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.json {
		format = display.FormatJSON
	}
	format = resolveFormat(format, out)

	colorize := format == display.FormatTerminal && !opts.noColors && cfg.Display.ShowColors
	small := opts.small || cfg.Display.SmallASCII

	if opts.logoOnly {
		art := catalog.Resolve(pickDistro(opts, cfg, sysinfo.OSID()), small)
		return display.Write(out, display.LogoOnly(art, colorize, art.Primary(ascii.White)))
	}

	if opts.publicIP {
		cfg.Info.PublicIP = true
	}
	info := sysinfo.Gather(cmd.Context(), sysinfo.Options{
		Sections: sectionsFor(cfg.Info),
		PublicIP: cfg.Info.PublicIP,
	})

	if format.Structured() {
		return writeStructured(out, format, info)
	}

	art := catalog.Resolve(pickDistro(opts, cfg, info.OSID), small)
	formatter := display.NewFormatter(display.Style{
		Colorize:  colorize,
		Accent:    cfg.Accent(art.Primary("")),
		Secondary: cfg.Secondary(),
	}, cfg.Info)
	lines := formatter.Lines(info)

	if opts.noASCII || !cfg.Display.ShowASCII {
		return display.Write(out, lines)
	}
	return display.Write(out, display.Compose(art, lines, colorize, art.Primary(ascii.White)))
}

func writeStructured(w io.Writer, format display.Format, info *sysinfo.SystemInfo) error {
	if format == display.FormatYAML {
		return display.WriteYAML(w, info)
	}
	return display.WriteJSON(w, info)
}

// loadConfig never fails: a broken file is reported and defaults apply.
func loadConfig(opts *options) *config.Config {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Warn().Err(err).Msg("Error loading config, using defaults")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg
}

// newCatalog resolves the logo directory: HYPERFETCH_ASCII_DIR, then the
// display.ascii_dir setting, then the default install locations.
func newCatalog(cfg *config.Config) *ascii.Catalog {
	defaults := append([]string{cfg.Display.ASCIIDir}, ascii.DefaultDirs()...)
	dir := ascii.ResolveDir(os.Getenv(ascii.EnvDir), defaults...)
	log.Debug().Str("dir", dir).Msg("Logo directory")
	return ascii.NewCatalog(dir)
}

// pickDistro chooses the logo: --ascii, then display.ascii_distro, then the
// detected system.
func pickDistro(opts *options, cfg *config.Config, detected string) string {
	switch {
	case opts.distro != "":
		return opts.distro
	case cfg.Display.ASCIIDistro != "":
		return cfg.Display.ASCIIDistro
	}
	return detected
}

// resolveFormat settles FormatAuto. Output that is not a file (tests,
// buffers) is never a terminal.
func resolveFormat(f display.Format, out io.Writer) display.Format {
	if file, ok := out.(*os.File); ok {
		return f.Resolve(file)
	}
	if f == display.FormatAuto {
		return display.FormatText
	}
	return f
}

// sectionsFor skips probe groups whose every line is turned off.
func sectionsFor(show config.Info) sysinfo.Sections {
	return sysinfo.Sections{
		Hardware: show.CPU || show.GPU || show.Memory || show.Disk,
		Desktop:  show.Shell || show.Resolution || show.DE || show.WM || show.Theme || show.Icons || show.Terminal,
		Network:  show.Network || show.PublicIP,
		Power:    show.Battery,
		Audio:    show.Audio,
		Packages: show.Packages,
		Misc:     show.Misc,
	}
}

func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
