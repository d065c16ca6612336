package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		debugEnv  string
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, "", zerolog.WarnLevel},
		{"info level", 1, "", zerolog.InfoLevel},
		{"debug level", 2, "", zerolog.DebugLevel},
		{"trace level", 3, "", zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, "", zerolog.TraceLevel},
		{"debug env raises level", 0, "1", zerolog.DebugLevel},
		{"debug env keeps trace", 3, "1", zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDebug, tt.debugEnv)
			var buf bytes.Buffer

			SetupLoggerTo(&buf, tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestGetLoggerAddsComponent(t *testing.T) {
	t.Setenv(EnvDebug, "")
	var buf bytes.Buffer
	SetupLoggerTo(&buf, 1)

	logger := GetLogger("probe")
	logger.Info().Msg("hello")

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "component=probe")
}

func TestLogOperationStart(t *testing.T) {
	t.Setenv(EnvDebug, "")
	var buf bytes.Buffer
	SetupLoggerTo(&buf, 2)

	done := LogOperationStart(GetLogger("test"), "gather")
	done()

	out := buf.String()
	assert.Contains(t, out, "Operation started")
	assert.Contains(t, out, "Operation completed")
	assert.Contains(t, out, "operation=gather")
}
