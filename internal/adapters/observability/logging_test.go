package observability

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewLogger_LevelAndJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod", "warn")

	l.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	l.Warn().Str("k", "v").Msg("kept")
	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("expected JSON line: %v (%q)", err, buf.String())
	}
	if ev["message"] != "kept" || ev["k"] != "v" || ev["service"] != "hotel-dashboard" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod", "loud")
	l.Info().Msg("visible")
	if buf.Len() == 0 {
		t.Fatalf("expected info to be logged")
	}
}
