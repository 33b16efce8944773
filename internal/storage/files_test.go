package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskStore_SaveAndRemove(t *testing.T) {
	store := NewDiskStore(t.TempDir())

	err := store.Save("recipe/abc.png", bytes.NewReader([]byte("payload")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	full := filepath.Join(store.Root, "recipe", "abc.png")
	data, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("stored file not readable: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("unexpected file contents: %q", data)
	}

	if err := store.Remove("recipe/abc.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Errorf("expected file to be removed, stat err: %v", err)
	}
}

func TestDiskStore_RemoveMissingIsNoError(t *testing.T) {
	store := NewDiskStore(t.TempDir())

	if err := store.Remove("recipe/never-existed.png"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDiskStore_Overwrite(t *testing.T) {
	store := NewDiskStore(t.TempDir())

	if err := store.Save("recipe/a.png", bytes.NewReader([]byte("one"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Save("recipe/a.png", bytes.NewReader([]byte("two"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(store.Root, "recipe", "a.png"))
	if err != nil {
		t.Fatalf("stored file not readable: %v", err)
	}
	if string(data) != "two" {
		t.Errorf("expected overwrite, got %q", data)
	}
}
