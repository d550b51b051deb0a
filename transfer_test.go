package smbsh

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLazyFile_untouchedWhenUnused(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "never.bin")
	l := NewLazyFile(dest)

	if err := l.Close(); err != nil {
		t.Errorf("Close() on unused sink error = %v", err)
	}
	if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unused sink created a file: stat err = %v", err)
	}
}

func TestLazyFile_createdOnFirstWrite(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.bin")
	l := NewLazyFile(dest)

	if l.Created() {
		t.Error("Created() = true before any write")
	}
	if _, err := l.Write([]byte("abc")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !l.Created() {
		t.Error("Created() = false after a write")
	}
	if _, err := l.Write([]byte("def")); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading destination: %v", err)
	}
	if string(got) != "abcdef" {
		t.Errorf("destination content = %q, want %q", got, "abcdef")
	}
}

func TestLazyFile_CommitMaterializesEmptyFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "empty.bin")
	l := NewLazyFile(dest)

	if err := l.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("destination missing after Commit: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("destination size = %d, want 0", info.Size())
	}
}

func TestLazyFile_truncatesExisting(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.bin")
	if err := os.WriteFile(dest, []byte("previous longer content"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLazyFile(dest)
	if _, err := l.Write([]byte("new")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("destination content = %q, want %q", got, "new")
	}
}

func TestLazyFile_writeFailureSurfaces(t *testing.T) {
	l := NewLazyFile(filepath.Join(t.TempDir(), "no", "such", "dir", "out.bin"))

	if _, err := l.Write([]byte("x")); err == nil {
		t.Error("Write() into missing directory succeeded, want error")
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close() after failed create error = %v", err)
	}
}
