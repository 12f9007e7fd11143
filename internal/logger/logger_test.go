package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "debug", Output: &buf})

	l.ChatLogger("abc").Info().Str("intent", "search_hotel").Msg("turn handled")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%s)", err, buf.String())
	}
	if entry["service"] != "traveltodo" {
		t.Fatalf("missing service field: %v", entry)
	}
	if entry["component"] != "chatbot" || entry["session_id"] != "abc" {
		t.Fatalf("missing chat fields: %v", entry)
	}
	if entry["intent"] != "search_hotel" {
		t.Fatalf("missing intent field: %v", entry)
	}
}

func TestLogRequestLevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Output: &buf})

	l.LogRequest("GET", "/api/health", 503, 5*time.Millisecond, "127.0.0.1")
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected error level for 5xx, got %s", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf})

	l.LogGeneratorCall("gemini", time.Millisecond, nil)
	if buf.Len() != 0 {
		t.Fatalf("debug entry should be filtered, got %s", buf.String())
	}
	l.LogGeneratorCall("gemini", time.Millisecond, errors.New("timeout"))
	if !strings.Contains(buf.String(), "timeout") {
		t.Fatalf("expected warning entry, got %s", buf.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	l.Info().Msg("dropped")
	l.DbLogger("seed").Warn().Msg("dropped")
}
