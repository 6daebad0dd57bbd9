package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physai-textbook/docsite/internal/config"
	"github.com/physai-textbook/docsite/internal/telemetry"
)

func TestRun_FlushesTracesWhenServerCannotBeCreated(t *testing.T) {
	dir := t.TempDir()
	site := filepath.Join(dir, "docsite.yaml")
	require.NoError(t, os.WriteFile(site, []byte(`
generate_build_path: build
server:
  host: 127.0.0.1
  port: 3000
  serve:
    headers:
      Access-Control-Allow-Origin: example.com
`), 0644))

	t.Setenv("SITE_CONFIG", site)
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "error")

	flushed := false
	original := setupTracing
	setupTracing = func(config.TelemetryConfig, string, zerolog.Logger) telemetry.ShutdownFunc {
		return func(context.Context) error {
			flushed = true
			return nil
		}
	}
	t.Cleanup(func() { setupTracing = original })

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid CORS headers")
	assert.True(t, flushed, "traces should be flushed before exiting")
}

func TestRun_ConfigError(t *testing.T) {
	t.Setenv("SITE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	called := false
	original := setupTracing
	setupTracing = func(config.TelemetryConfig, string, zerolog.Logger) telemetry.ShutdownFunc {
		called = true
		return func(context.Context) error { return nil }
	}
	t.Cleanup(func() { setupTracing = original })

	require.Error(t, run())
	assert.False(t, called)
}
