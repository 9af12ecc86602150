package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitWith_JSON(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	var buf bytes.Buffer
	InitWith(Options{Level: "warn", Format: "text", Output: &buf})

	if Log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("env should override config level, got %s", Log.GetLevel())
	}

	Log.WithField("component", "test").Debug("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" || entry["component"] != "test" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestInitWith_BadLevelFallsBackToInfo(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	InitWith(Options{Level: "loud", Output: &bytes.Buffer{}})
	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info, got %s", Log.GetLevel())
	}
}
