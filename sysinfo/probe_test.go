package sysinfo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// fixture builds a probe rooted in a temp dir. Commands are keyed by their
// full command line; anything else behaves like a missing binary.
type fixture struct {
	t    *testing.T
	root string
	cmds map[string]string
	env  map[string]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		t:    t,
		root: t.TempDir(),
		cmds: map[string]string{},
		env:  map[string]string{},
	}
}

func (f *fixture) file(abs, content string) *fixture {
	f.t.Helper()
	path := filepath.Join(f.root, abs)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o644))
	return f
}

func (f *fixture) dir(abs string) *fixture {
	f.t.Helper()
	require.NoError(f.t, os.MkdirAll(filepath.Join(f.root, abs), 0o755))
	return f
}

func (f *fixture) symlink(abs, target string) *fixture {
	f.t.Helper()
	path := filepath.Join(f.root, abs)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(f.t, os.Symlink(target, path))
	return f
}

func (f *fixture) command(line, out string) *fixture {
	f.cmds[line] = out
	return f
}

func (f *fixture) setenv(key, value string) *fixture {
	f.env[key] = value
	return f
}

func (f *fixture) probe() *probe {
	return &probe{
		root: f.root,
		run: func(_ context.Context, name string, args ...string) (string, error) {
			line := strings.Join(append([]string{name}, args...), " ")
			out, ok := f.cmds[line]
			if !ok {
				return "", fmt.Errorf("%s: %w", name, errNotFound)
			}
			return out, nil
		},
		getenv:     func(key string) string { return f.env[key] },
		home:       filepath.Join(f.root, "home"),
		configHome: filepath.Join(f.root, "home", ".config"),
		log:        zerolog.Nop(),
	}
}
