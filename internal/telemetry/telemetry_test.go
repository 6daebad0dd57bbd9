package telemetry

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physai-textbook/docsite/internal/config"
)

func TestSetup_NoEndpoint(t *testing.T) {
	shutdown := Setup(config.TelemetryConfig{}, "docsite-test", zerolog.Nop())
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_WithEndpoint(t *testing.T) {
	// The gRPC exporter connects lazily, so setup succeeds without a collector
	shutdown := Setup(config.TelemetryConfig{Endpoint: "http://127.0.0.1:4317"}, "docsite-test", zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Nothing was exported; a cancelled context keeps shutdown from waiting on the collector
	assert.NotPanics(t, func() { _ = shutdown(ctx) })
}

func TestSetup_InvalidEndpoint(t *testing.T) {
	shutdown := Setup(config.TelemetryConfig{Endpoint: "ftp://collector:4317"}, "docsite-test", zerolog.Nop())
	assert.NoError(t, shutdown(context.Background()))
}

func TestCollectorAddress(t *testing.T) {
	tests := []struct {
		endpoint  string
		addr      string
		plaintext bool
		wantErr   bool
	}{
		{"collector:4317", "collector:4317", false, false},
		{"http://collector:4317", "collector:4317", true, false},
		{"https://otel.example.com:443", "otel.example.com:443", false, false},
		{"http://collector:4317/", "collector:4317", true, false},
		{"http://", "", false, true},
		{"grpc://collector:4317", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			addr, plaintext, err := collectorAddress(tt.endpoint)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, addr)
			assert.Equal(t, tt.plaintext, plaintext)
		})
	}
}
