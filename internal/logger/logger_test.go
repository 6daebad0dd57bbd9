package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New("json", &buf)

	log.Info().Str("path", "/dashboard").Msg("HTTP request")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["path"] != "/dashboard" {
		t.Errorf("expected path field, got %v", entry["path"])
	}
	if entry["message"] != "HTTP request" {
		t.Errorf("expected message field, got %v", entry["message"])
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New("console", &buf)

	log.Info().Msg("listening")

	if !bytes.Contains(buf.Bytes(), []byte("listening")) {
		t.Errorf("expected console output to contain message, got %q", buf.String())
	}
	if json.Valid(bytes.TrimSpace(buf.Bytes())) {
		t.Errorf("console output should not be JSON: %q", buf.String())
	}
}
