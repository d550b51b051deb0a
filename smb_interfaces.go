package smbsh

import (
	"context"
	"io"
	"io/fs"
	"time"
)

// SessionInfo holds the read-only parameters of an established session.
// Fields the protocol library does not surface stay at their zero value
// and render as unknown.
type SessionInfo struct {
	ServerAddr string
	Port       int
	Share      string
	Username   string
	Domain     string

	ConnectedAt time.Time

	// Negotiated parameters, as far as the transport reports them.
	Capabilities uint32
	SecurityMode uint16
	MaxReadSize  uint32
	MaxWriteSize uint32
}

// Dialer establishes authenticated SMB sessions. The production
// implementation wraps go-smb2; tests inject an in-memory backend.
type Dialer interface {
	// Dial connects to addr:port, authenticates with creds, and returns a
	// live session. The whole sequence is bounded by timeout.
	Dial(ctx context.Context, addr string, port int, creds Credentials, timeout time.Duration) (Session, error)
}

// Session abstracts an authenticated SMB session.
type Session interface {
	// Mount connects to a named share within the session.
	Mount(shareName string) (Share, error)
	// Info returns the session parameters for introspection.
	Info() SessionInfo
	// Logoff ends the session.
	Logoff() error
}

// Share abstracts a mounted share. Paths are share-relative wire paths
// (backslash-separated, no leading separator).
type Share interface {
	// ReadDir lists a directory. Self/parent pseudo-entries are passed
	// through when the server returns them; filtering is the caller's job.
	ReadDir(path string) ([]fs.FileInfo, error)
	// Stat returns file info for the specified path.
	Stat(path string) (fs.FileInfo, error)
	// Mkdir creates a directory.
	Mkdir(path string) error
	// Remove removes a file or empty directory.
	Remove(path string) error
	// Rename renames a file or directory. The destination must not exist.
	Rename(oldpath, newpath string) error
	// Open opens an existing file for reading.
	Open(path string) (File, error)
	// Create creates or truncates a file for writing.
	Create(path string) (File, error)
	// Umount disconnects from the share.
	Umount() error
}

// File abstracts an open remote file handle.
type File interface {
	io.Reader
	io.Writer
	io.Closer
	Stat() (fs.FileInfo, error)
}
