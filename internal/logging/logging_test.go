package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	quiet, err := New(false)
	if err != nil {
		t.Fatalf("New(false): %v", err)
	}
	if quiet.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be disabled without verbose")
	}

	loud, err := New(true)
	if err != nil {
		t.Fatalf("New(true): %v", err)
	}
	if !loud.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should be enabled with verbose")
	}
}

func TestConsoleQuietByDefault(t *testing.T) {
	l, err := Console(false)
	if err != nil {
		t.Fatalf("Console: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be suppressed on the console without verbose")
	}
}
