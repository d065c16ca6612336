package ascii

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"hyperfetch/logging"
)

// EnvDir names a directory of logo files that overrides the default
// locations.
const EnvDir = "HYPERFETCH_ASCII_DIR"

const logoExt = ".txt"

// Catalog resolves distribution identifiers to logos. Files in an external
// directory win over the compiled-in set.
type Catalog struct {
	dir    string
	logger zerolog.Logger
}

// NewCatalog returns a catalog reading logo files from dir. An empty dir
// restricts the catalog to builtin logos.
func NewCatalog(dir string) *Catalog {
	return &Catalog{
		dir:    dir,
		logger: logging.GetLogger("ascii"),
	}
}

// Dir is the external logo directory, "" when none is in use.
func (c *Catalog) Dir() string { return c.dir }

// Normalize lowercases id and maps the empty identifier to "linux".
func Normalize(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return genericName
	}
	return id
}

// Resolve returns the logo for id. It never fails: missing, unreadable or
// empty files fall through to the builtin table, which in turn falls back to
// the generic logo.
func (c *Catalog) Resolve(id string, small bool) *Art {
	id = Normalize(id)
	if art := c.fromDir(id, small); art != nil {
		return art
	}
	return Builtin(id, small)
}

func (c *Catalog) fromDir(id string, small bool) *Art {
	if c.dir == "" || isSmallStem(id) {
		return nil
	}

	candidates := []string{id + logoExt}
	if small {
		candidates = []string{id + smallSuffix + logoExt, id + logoExt}
	}

	fsys := os.DirFS(c.dir)
	for _, name := range candidates {
		lines, err := readLogo(fsys, name)
		if err != nil {
			c.logger.Trace().Err(err).Str("file", name).Msg("logo file skipped")
			continue
		}
		if len(lines) == 0 {
			c.logger.Debug().Str("file", name).Msg("empty logo file skipped")
			continue
		}
		c.logger.Debug().Str("file", filepath.Join(c.dir, name)).Msg("using external logo")
		return NewArt(strings.TrimSuffix(name, logoExt), lines, PaletteFor(id))
	}
	return nil
}

// List returns the known logo names. Names come from the external
// directory, sorted, when it holds any logo files; otherwise the builtin
// names are returned in their listing order.
func (c *Catalog) List() []string {
	if names := c.listDir(); len(names) > 0 {
		return names
	}
	return BuiltinNames()
}

func (c *Catalog) listDir() []string {
	if c.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		c.logger.Debug().Err(err).Str("dir", c.dir).Msg("cannot list logo directory")
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != logoExt {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), logoExt)
		if strings.HasSuffix(stem, smallSuffix) {
			continue
		}
		names = append(names, stem)
	}
	sort.Strings(names)
	return names
}

// readLogo reads one template line per text line. Trailing carriage returns
// are dropped and invalid UTF-8 is replaced rather than rejected.
func readLogo(fsys fs.FS, name string) ([]string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	data = bytes.TrimSuffix(data, []byte("\n"))
	raw := strings.Split(strings.ToValidUTF8(string(data), "�"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimRight(l, "\r"))
	}
	return lines, nil
}

// ResolveDir picks the external logo directory: override when it names an
// existing directory, else the first existing default, else "".
func ResolveDir(override string, defaults ...string) string {
	if isDir(override) {
		return override
	}
	for _, d := range defaults {
		if isDir(d) {
			return d
		}
	}
	return ""
}

// DefaultDirs lists the installation locations searched for logo files: an
// "ascii" directory beside the executable, then the XDG data directories.
func DefaultDirs() []string {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "ascii"))
	}
	dirs = append(dirs, filepath.Join(xdg.DataHome, "hyperfetch", "ascii"))
	for _, d := range xdg.DataDirs {
		dirs = append(dirs, filepath.Join(d, "hyperfetch", "ascii"))
	}
	return dirs
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
