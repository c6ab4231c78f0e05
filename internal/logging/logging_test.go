// Package logging_test tests logger construction and level/format parsing.
// Related: internal/logging/logging.go
// Tags: logging, levels, formatter
package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    log.Level
		wantErr bool
	}{
		"debug":   {input: "debug", want: log.DebugLevel},
		"upper":   {input: "WARN", want: log.WarnLevel},
		"padded":  {input: " error ", want: log.ErrorLevel},
		"unknown": {input: "trace", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormatter(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    log.Formatter
		wantErr bool
	}{
		"default": {input: "", want: log.TextFormatter},
		"json":    {input: "JSON", want: log.JSONFormatter},
		"logfmt":  {input: "logfmt", want: log.LogfmtFormatter},
		"unknown": {input: "xml", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormatter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Options{Level: log.InfoLevel, Formatter: log.TextFormatter, Prefix: "test"})

	logger.Debug("hidden")
	logger.Info("phase changed", "phase", "loading_schemas")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "phase changed")
	assert.Contains(t, out, "phase=loading_schemas")
	assert.Contains(t, out, "test")
}

func TestNew_JSONFormatter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&buf, Options{Level: log.DebugLevel, Formatter: log.JSONFormatter})
	logger.Debug("validated", "document", "project")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "validated", entry["msg"])
	assert.Equal(t, "project", entry["document"])
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	logger := Discard()
	logger.Error("dropped")
	assert.Equal(t, log.FatalLevel, logger.GetLevel())
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	assert.Equal(t, log.WarnLevel, opts.Level)
	assert.Equal(t, "geotagx-validator", opts.Prefix)
}
