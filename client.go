package smbsh

import (
	"fmt"
	"io"
	"path"

	"github.com/rs/zerolog"
)

// SizeUnknown is the reported size for entries whose size the protocol does
// not meaningfully report (directories). Never 0, which would imply empty.
const SizeUnknown int64 = -1

// RemoteEntry is one entry of a remote directory listing.
type RemoteEntry struct {
	Name  string
	IsDir bool
	Size  int64 // SizeUnknown for directories
}

// IsPseudo reports whether the entry is a self/parent pseudo-entry.
// Listings pass these through; presentation filters them.
func (e RemoteEntry) IsPseudo() bool {
	return e.Name == "." || e.Name == ".."
}

// ShareClient scopes path-taking operations to one mounted share. All paths
// are normalized absolute remote paths (as produced by ResolveRemote); every
// failure is mapped onto the package sentinels and surfaced immediately,
// with no retry.
type ShareClient struct {
	mgr     *SessionManager
	logger  zerolog.Logger
	bufSize int
}

// NewShareClient creates a client over the manager's mounted share.
func NewShareClient(mgr *SessionManager, bufSize int, logger zerolog.Logger) *ShareClient {
	if bufSize <= 0 {
		bufSize = 64 * 1024
	}
	return &ShareClient{
		mgr:     mgr,
		logger:  logger,
		bufSize: bufSize,
	}
}

// List returns the entries of a remote directory. Self/parent pseudo-entries
// are included whenever the server returns them; callers filter, the
// operation does not. Directory sizes report SizeUnknown.
func (c *ShareClient) List(remotePath string) ([]RemoteEntry, error) {
	share, err := c.mgr.Share()
	if err != nil {
		return nil, wrapPathError("list", remotePath, err)
	}

	infos, err := share.ReadDir(toWirePath(remotePath))
	if err != nil {
		return nil, wrapPathError("list", remotePath, mapError(err))
	}

	entries := make([]RemoteEntry, 0, len(infos))
	for _, info := range infos {
		e := RemoteEntry{Name: info.Name(), IsDir: info.IsDir(), Size: info.Size()}
		if e.IsDir {
			e.Size = SizeUnknown
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Stat returns the entry for a single remote path.
func (c *ShareClient) Stat(remotePath string) (RemoteEntry, error) {
	share, err := c.mgr.Share()
	if err != nil {
		return RemoteEntry{}, wrapPathError("stat", remotePath, err)
	}

	info, err := share.Stat(toWirePath(remotePath))
	if err != nil {
		return RemoteEntry{}, wrapPathError("stat", remotePath, mapError(err))
	}

	e := RemoteEntry{Name: info.Name(), IsDir: info.IsDir(), Size: info.Size()}
	if e.IsDir {
		e.Size = SizeUnknown
	}
	return e, nil
}

// CreateDirectory creates a remote directory.
func (c *ShareClient) CreateDirectory(remotePath string) error {
	share, err := c.mgr.Share()
	if err != nil {
		return wrapPathError("mkdir", remotePath, err)
	}
	if err := share.Mkdir(toWirePath(remotePath)); err != nil {
		return wrapPathError("mkdir", remotePath, mapError(err))
	}
	return nil
}

// DeleteDirectory removes a remote directory. Non-empty directories fail
// with ErrNotEmpty.
func (c *ShareClient) DeleteDirectory(remotePath string) error {
	share, err := c.mgr.Share()
	if err != nil {
		return wrapPathError("rmdir", remotePath, err)
	}
	if err := share.Remove(toWirePath(remotePath)); err != nil {
		return wrapPathError("rmdir", remotePath, mapError(err))
	}
	return nil
}

// DeleteFile removes a remote file.
func (c *ShareClient) DeleteFile(remotePath string) error {
	share, err := c.mgr.Share()
	if err != nil {
		return wrapPathError("rm", remotePath, err)
	}
	if err := share.Remove(toWirePath(remotePath)); err != nil {
		return wrapPathError("rm", remotePath, mapError(err))
	}
	return nil
}

// Rename renames or moves a remote file or directory. Renaming onto an
// existing entry fails with ErrAlreadyExists (the underlying rename is
// issued without replace-if-exists).
func (c *ShareClient) Rename(srcPath, dstPath string) error {
	share, err := c.mgr.Share()
	if err != nil {
		return wrapPathError("rename", srcPath, err)
	}
	if err := share.Rename(toWirePath(srcPath), toWirePath(dstPath)); err != nil {
		return wrapPathError("rename", srcPath, mapError(err))
	}
	return nil
}

// Retrieve streams a remote file into sink and returns the byte count. The
// remote file is opened before sink sees any byte, so a sink that creates
// its destination lazily stays untouched when the open fails. A failure
// mid-stream leaves whatever was already written in the sink - partial
// artifacts are the caller's to clean up.
func (c *ShareClient) Retrieve(remotePath string, sink io.Writer) (int64, error) {
	share, err := c.mgr.Share()
	if err != nil {
		return 0, wrapPathError("get", remotePath, err)
	}

	f, err := share.Open(toWirePath(remotePath))
	if err != nil {
		return 0, wrapPathError("get", remotePath, mapError(err))
	}
	defer f.Close()

	n, err := io.CopyBuffer(sink, f, make([]byte, c.bufSize))
	if err != nil {
		return n, wrapPathError("get", remotePath, mapError(err))
	}
	c.logger.Debug().Str("path", remotePath).Int64("bytes", n).Msg("retrieved file")
	return n, nil
}

// Store streams source to a remote file, creating or truncating it, and
// returns the byte count. The partial-write caveat of Retrieve applies to
// the remote side here.
func (c *ShareClient) Store(remotePath string, source io.Reader) (int64, error) {
	share, err := c.mgr.Share()
	if err != nil {
		return 0, wrapPathError("put", remotePath, err)
	}

	f, err := share.Create(toWirePath(remotePath))
	if err != nil {
		return 0, wrapPathError("put", remotePath, mapError(err))
	}

	n, err := io.CopyBuffer(f, source, make([]byte, c.bufSize))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, wrapPathError("put", remotePath, mapError(err))
	}
	c.logger.Debug().Str("path", remotePath).Int64("bytes", n).Msg("stored file")
	return n, nil
}

// Glob expands a wildcard ("*", "?") in the final component of a remote
// path against a listing of its parent, returning matching files (never
// directories or pseudo-entries). A path without wildcards is returned
// as-is, unchecked. Patterns that match nothing fail with ErrNotFound.
func (c *ShareClient) Glob(remotePath string) ([]string, error) {
	if !hasWildcard(remotePath) {
		return []string{remotePath}, nil
	}

	dir := RemoteDir(remotePath)
	pattern := RemoteBase(remotePath)

	entries, err := c.List(dir)
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, e := range entries {
		if e.IsPseudo() || e.IsDir {
			continue
		}
		ok, err := path.Match(pattern, e.Name)
		if err != nil {
			return nil, wrapPathError("glob", remotePath, err)
		}
		if ok {
			matches = append(matches, RemoteJoin(dir, e.Name))
		}
	}

	if len(matches) == 0 {
		return nil, wrapPathError("glob", remotePath, fmt.Errorf("%w: no match", ErrNotFound))
	}
	return matches, nil
}
