package smbsh

// DirectoryCursor tracks the shell's current remote directory: one
// normalized absolute remote path, always denoting a directory that was
// last confirmed to exist. Only a successful Change mutates it - never
// optimistically, and nothing else in the package touches it.
type DirectoryCursor struct {
	path string
}

// NewDirectoryCursor returns a cursor positioned at the share root.
func NewDirectoryCursor() *DirectoryCursor {
	return &DirectoryCursor{path: RemoteRoot}
}

// Path returns the current remote directory.
func (c *DirectoryCursor) Path() string {
	return c.path
}

// Reset repositions the cursor at the share root. Called on every
// successful (re)connect.
func (c *DirectoryCursor) Reset() {
	c.path = RemoteRoot
}

// Change resolves candidate against the cursor, validates it with a listing
// call (results discarded), and commits it on success. On failure the
// cursor is unchanged and the mapped reason is returned for display; a
// failed cd is recoverable, never fatal to the session.
func (c *DirectoryCursor) Change(client *ShareClient, candidate string) error {
	resolved := ResolveRemote(c.path, candidate)

	if _, err := client.List(resolved); err != nil {
		return err
	}

	c.path = resolved
	return nil
}
