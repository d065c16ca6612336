package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// runner executes an external command and returns its stdout.
type runner func(ctx context.Context, name string, args ...string) (string, error)

var errNotFound = errors.New("command not found")

// commandRunner runs commands with a per-call timeout. Missing binaries fail
// fast with errNotFound so probes can fall through to the next source.
func commandRunner(timeout time.Duration) runner {
	return func(ctx context.Context, name string, args ...string) (string, error) {
		path, err := exec.LookPath(name)
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, errNotFound)
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		c := exec.CommandContext(ctx, path, args...)
		hideWindow(c)
		out, err := c.Output()
		if err != nil {
			return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		}
		return string(out), nil
	}
}

// output runs a command and returns trimmed stdout, "" on any failure.
func (p *probe) output(ctx context.Context, name string, args ...string) string {
	out, err := p.run(ctx, name, args...)
	if err != nil {
		if !errors.Is(err, errNotFound) {
			p.log.Debug().Err(err).Str("command", name).Msg("command failed")
		}
		return ""
	}
	return strings.TrimSpace(out)
}

// lines runs a command and returns its non-empty output lines.
func (p *probe) lines(ctx context.Context, name string, args ...string) []string {
	out := p.output(ctx, name, args...)
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
