package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWriter(&buf, "debug", false)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger.Debug().Str("stage", "normalize").Msg("stage complete")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["stage"] != "normalize" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestSetupWriterUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWriter(&buf, "chatty", false)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	logger.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at the default level, got %q", buf.String())
	}
	logger.Info().Msg("shown")
	if buf.Len() == 0 {
		t.Fatalf("info should be written")
	}
}
