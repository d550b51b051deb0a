package smbsh

import (
	"os"
)

// LazyFile is a byte-sink backed by a local file that is only created (and
// truncated) immediately before the first byte is written. Passing one to
// ShareClient.Retrieve means a remote open failure leaves no local artifact,
// while a mid-stream failure after N bytes leaves exactly those N bytes -
// truncated, not deleted, not retried. Callers needing atomicity stage to a
// temporary path and rename on full success.
type LazyFile struct {
	path string
	f    *os.File
}

// NewLazyFile returns a sink for path. Nothing touches the filesystem until
// the first Write or a Commit.
func NewLazyFile(path string) *LazyFile {
	return &LazyFile{path: path}
}

func (l *LazyFile) create() error {
	f, err := os.Create(l.path)
	if err != nil {
		return err
	}
	l.f = f
	return nil
}

// Write creates or truncates the destination on first use, then appends.
func (l *LazyFile) Write(p []byte) (int, error) {
	if l.f == nil {
		if err := l.create(); err != nil {
			return 0, err
		}
	}
	return l.f.Write(p)
}

// Commit materializes the destination even when nothing was written, so a
// zero-byte download still produces a zero-byte file. Call it only after
// the transfer fully succeeded.
func (l *LazyFile) Commit() error {
	if l.f == nil {
		return l.create()
	}
	return nil
}

// Close releases the file handle if one was opened. Safe to call on every
// exit path, including when nothing was ever written.
func (l *LazyFile) Close() error {
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// Created reports whether the destination file was materialized.
func (l *LazyFile) Created() bool {
	return l.f != nil
}
