package sysinfo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandRunnerMissingBinary(t *testing.T) {
	run := commandRunner(time.Second)
	_, err := run(context.Background(), "hyperfetch-no-such-binary")
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotFound)
}

func TestOutputTrimsAndSplits(t *testing.T) {
	p := newFixture(t).command("uptime", "\n  line one\nline two  \n\n").probe()
	assert.Equal(t, "line one\nline two", p.output(context.Background(), "uptime"))
	assert.Equal(t, []string{"line one", "line two"}, p.lines(context.Background(), "uptime"))
	assert.Nil(t, p.lines(context.Background(), "missing"))
}
