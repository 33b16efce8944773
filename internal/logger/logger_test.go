package logger

import "testing"

func TestInit_ValidLevel(t *testing.T) {
	l := New()
	if err := l.Init("Info"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Log == nil {
		t.Fatal("expected a configured logger")
	}
}

func TestInit_InvalidLevel(t *testing.T) {
	l := New()
	if err := l.Init("loud"); err == nil {
		t.Errorf("expected error for unknown level, got nil")
	}
}

func TestNew_UsableBeforeInit(t *testing.T) {
	l := New()
	if l.Log == nil {
		t.Fatal("expected a no-op logger before Init")
	}
	l.Log.Info("no-op")
}
