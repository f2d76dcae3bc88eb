package logger

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestHandlerWritesToFile(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}, false)
	logger := slog.New(h)

	logger.Info("parse ok", "record", "VINI")

	out := buf.String()
	if out == "" {
		t.Fatal("expected output written to file writer")
	}
	if !bytes.Contains(buf.Bytes(), []byte("parse ok")) {
		t.Fatalf("output missing message: %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("record=VINI")) {
		t.Fatalf("output missing attribute: %q", out)
	}
}

func TestHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}, false)
	logger := slog.New(h)

	logger.Info("should be filtered")
	if buf.Len() != 0 {
		t.Fatalf("expected Info to be filtered at Warn level, got %q", buf.String())
	}

	logger.Warn("should appear")
	if buf.Len() == 0 {
		t.Fatal("expected Warn to be logged")
	}
}
