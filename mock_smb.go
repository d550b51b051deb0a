package smbsh

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hirochachacha/go-smb2"
)

// MockBackend simulates an SMB server in memory for testing. It maintains a
// virtual share tree, rejects operations with the same NT status codes a
// real server would return, and tracks session lifecycle for verification.
type MockBackend struct {
	mu sync.RWMutex

	// files maps slash-normalized absolute paths to entries
	files map[string]*mockFileData

	// shares available on this mock server
	shares map[string]bool

	// injected failures
	dialErr    error
	errOnPath  map[string]error
	readErrors map[string]*readFailure

	// negotiated parameters reported by sessions
	negotiated SessionInfo

	// session lifecycle tracking
	sessions []*MockSession
}

type mockFileData struct {
	name    string
	content []byte
	modTime time.Time
	isDir   bool
}

// readFailure injects a mid-stream read error after n bytes.
type readFailure struct {
	after int
	err   error
}

// NewMockBackend creates a mock backend with a root directory and one
// default share named "testshare".
func NewMockBackend() *MockBackend {
	m := &MockBackend{
		files:      make(map[string]*mockFileData),
		shares:     map[string]bool{"testshare": true},
		errOnPath:  make(map[string]error),
		readErrors: make(map[string]*readFailure),
		negotiated: SessionInfo{
			Capabilities: 0x7,
			SecurityMode: 0x1,
			MaxReadSize:  1 << 20,
			MaxWriteSize: 1 << 20,
		},
	}
	m.files["/"] = &mockFileData{name: "/", isDir: true, modTime: time.Now()}
	return m
}

// Dialer returns a Dialer that connects to this backend.
func (m *MockBackend) Dialer() Dialer {
	return &mockDialer{backend: m}
}

// AddShare adds a share to the mock server.
func (m *MockBackend) AddShare(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shares[name] = true
}

// AddFile adds a file, creating parent directories as needed.
func (m *MockBackend) AddFile(p string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = normalizeMockPath(p)
	m.files[p] = &mockFileData{
		name:    path.Base(p),
		content: content,
		modTime: time.Now(),
	}
	m.ensureParents(p)
}

// AddDir adds a directory, creating parents as needed.
func (m *MockBackend) AddDir(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p = normalizeMockPath(p)
	m.files[p] = &mockFileData{name: path.Base(p), isDir: true, modTime: time.Now()}
	m.ensureParents(p)
}

// SetDialError makes the next Dial fail.
func (m *MockBackend) SetDialError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialErr = err
}

// SetPathError injects an error for every operation on a path.
func (m *MockBackend) SetPathError(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errOnPath[normalizeMockPath(p)] = err
}

// SetReadError makes reads of a file fail after n bytes were served.
func (m *MockBackend) SetReadError(p string, n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrors[normalizeMockPath(p)] = &readFailure{after: n, err: err}
}

// FileContent returns a file's content for verification.
func (m *MockBackend) FileContent(p string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if f, ok := m.files[normalizeMockPath(p)]; ok && !f.isDir {
		out := make([]byte, len(f.content))
		copy(out, f.content)
		return out, true
	}
	return nil, false
}

// Exists reports whether a path exists in the mock tree.
func (m *MockBackend) Exists(p string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[normalizeMockPath(p)]
	return ok
}

// Sessions returns every session the backend ever handed out.
func (m *MockBackend) Sessions() []*MockSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*MockSession, len(m.sessions))
	copy(out, m.sessions)
	return out
}

func (m *MockBackend) ensureParents(p string) {
	for dir := path.Dir(p); ; dir = path.Dir(dir) {
		if _, ok := m.files[dir]; !ok {
			m.files[dir] = &mockFileData{name: path.Base(dir), isDir: true, modTime: time.Now()}
		}
		if dir == "/" {
			return
		}
	}
}

// normalizeMockPath converts a wire path into the mock's internal key form.
func normalizeMockPath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func ntErr(code NTStatus) error {
	return &smb2.ResponseError{Code: uint32(code)}
}

// mockDialer implements Dialer against a MockBackend.
type mockDialer struct {
	backend *MockBackend
}

func (d *mockDialer) Dial(ctx context.Context, addr string, port int, creds Credentials, timeout time.Duration) (Session, error) {
	d.backend.mu.Lock()
	defer d.backend.mu.Unlock()

	if d.backend.dialErr != nil {
		return nil, d.backend.dialErr
	}

	info := d.backend.negotiated
	info.ServerAddr = addr
	info.Port = port
	info.Username = creds.Username
	info.Domain = creds.Domain
	info.ConnectedAt = time.Now()

	s := &MockSession{backend: d.backend, info: info}
	d.backend.sessions = append(d.backend.sessions, s)
	return s, nil
}

// MockSession implements Session and records its lifecycle.
type MockSession struct {
	backend *MockBackend
	info    SessionInfo
	closed  bool

	// Logoffs counts Logoff calls, for verifying exactly-once teardown.
	Logoffs int
}

func (s *MockSession) Mount(shareName string) (Share, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}

	s.backend.mu.RLock()
	ok := s.backend.shares[shareName]
	s.backend.mu.RUnlock()
	if !ok {
		return nil, ntErr(StatusBadNetworkName)
	}

	s.info.Share = shareName
	return &mockShare{session: s}, nil
}

func (s *MockSession) Info() SessionInfo {
	return s.info
}

func (s *MockSession) Logoff() error {
	s.Logoffs++
	s.closed = true
	return nil
}

// Closed reports whether the session was logged off.
func (s *MockSession) Closed() bool {
	return s.closed
}

// mockShare implements Share over the backend tree.
type mockShare struct {
	session *MockSession
}

func (sh *mockShare) check(p string) (string, error) {
	if sh.session.closed {
		return "", ErrSessionClosed
	}
	key := normalizeMockPath(p)
	sh.session.backend.mu.RLock()
	err := sh.session.backend.errOnPath[key]
	sh.session.backend.mu.RUnlock()
	if err != nil {
		return "", err
	}
	return key, nil
}

// ReadDir lists a directory, including the "." and ".." pseudo-entries the
// way real servers report them.
func (sh *mockShare) ReadDir(p string) ([]fs.FileInfo, error) {
	key, err := sh.check(p)
	if err != nil {
		return nil, err
	}

	b := sh.session.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	dir, ok := b.files[key]
	if !ok {
		return nil, ntErr(StatusObjectNameNotFound)
	}
	if !dir.isDir {
		return nil, ntErr(StatusObjectNameInvalid)
	}

	infos := []fs.FileInfo{
		&mockFileInfo{name: ".", isDir: true, modTime: dir.modTime},
		&mockFileInfo{name: "..", isDir: true, modTime: dir.modTime},
	}
	var names []string
	for p := range b.files {
		if p != "/" && p != key && path.Dir(p) == key {
			names = append(names, p)
		}
	}
	sort.Strings(names)
	for _, p := range names {
		f := b.files[p]
		infos = append(infos, &mockFileInfo{
			name:    f.name,
			size:    int64(len(f.content)),
			isDir:   f.isDir,
			modTime: f.modTime,
		})
	}
	return infos, nil
}

func (sh *mockShare) Stat(p string) (fs.FileInfo, error) {
	key, err := sh.check(p)
	if err != nil {
		return nil, err
	}

	b := sh.session.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	f, ok := b.files[key]
	if !ok {
		return nil, ntErr(StatusObjectNameNotFound)
	}
	return &mockFileInfo{name: f.name, size: int64(len(f.content)), isDir: f.isDir, modTime: f.modTime}, nil
}

func (sh *mockShare) Mkdir(p string) error {
	key, err := sh.check(p)
	if err != nil {
		return err
	}

	b := sh.session.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.files[key]; exists {
		return ntErr(StatusObjectNameCollision)
	}
	if parent, ok := b.files[path.Dir(key)]; !ok || !parent.isDir {
		return ntErr(StatusObjectPathNotFound)
	}
	b.files[key] = &mockFileData{name: path.Base(key), isDir: true, modTime: time.Now()}
	return nil
}

func (sh *mockShare) Remove(p string) error {
	key, err := sh.check(p)
	if err != nil {
		return err
	}

	b := sh.session.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	f, ok := b.files[key]
	if !ok {
		return ntErr(StatusObjectNameNotFound)
	}
	if f.isDir {
		for other := range b.files {
			if other != key && path.Dir(other) == key {
				return ntErr(StatusDirectoryNotEmpty)
			}
		}
	}
	delete(b.files, key)
	return nil
}

func (sh *mockShare) Rename(oldpath, newpath string) error {
	oldKey, err := sh.check(oldpath)
	if err != nil {
		return err
	}
	newKey, err := sh.check(newpath)
	if err != nil {
		return err
	}

	b := sh.session.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	f, ok := b.files[oldKey]
	if !ok {
		return ntErr(StatusObjectNameNotFound)
	}
	if _, exists := b.files[newKey]; exists {
		return ntErr(StatusObjectNameCollision)
	}
	if parent, ok := b.files[path.Dir(newKey)]; !ok || !parent.isDir {
		return ntErr(StatusObjectPathNotFound)
	}

	delete(b.files, oldKey)
	f.name = path.Base(newKey)
	b.files[newKey] = f

	// Move children along when renaming a directory.
	if f.isDir {
		prefix := oldKey + "/"
		for p, child := range b.files {
			if strings.HasPrefix(p, prefix) {
				delete(b.files, p)
				b.files[newKey+"/"+strings.TrimPrefix(p, prefix)] = child
			}
		}
	}
	return nil
}

func (sh *mockShare) Open(p string) (File, error) {
	key, err := sh.check(p)
	if err != nil {
		return nil, err
	}

	b := sh.session.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	f, ok := b.files[key]
	if !ok {
		return nil, ntErr(StatusObjectNameNotFound)
	}
	if f.isDir {
		return nil, ntErr(StatusFileIsADirectory)
	}

	mf := &mockFile{
		info:   mockFileInfo{name: f.name, size: int64(len(f.content)), modTime: f.modTime},
		reader: bytes.NewReader(f.content),
	}
	if rf := b.readErrors[key]; rf != nil {
		mf.failAfter = rf.after
		mf.failWith = rf.err
	} else {
		mf.failAfter = -1
	}
	return mf, nil
}

func (sh *mockShare) Create(p string) (File, error) {
	key, err := sh.check(p)
	if err != nil {
		return nil, err
	}

	b := sh.session.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if parent, ok := b.files[path.Dir(key)]; !ok || !parent.isDir {
		return nil, ntErr(StatusObjectPathNotFound)
	}
	if existing, ok := b.files[key]; ok && existing.isDir {
		return nil, ntErr(StatusFileIsADirectory)
	}

	data := &mockFileData{name: path.Base(key), modTime: time.Now()}
	b.files[key] = data
	return &mockFile{
		backend:   b,
		writeKey:  key,
		failAfter: -1,
	}, nil
}

func (sh *mockShare) Umount() error {
	return nil
}

// mockFile implements File over an in-memory buffer with optional
// mid-stream read-failure injection.
type mockFile struct {
	info   mockFileInfo
	reader *bytes.Reader

	// read-failure injection
	failAfter int // fail once this many bytes were served; -1 = never
	failWith  error
	served    int

	// write side
	backend  *MockBackend
	writeKey string
	buf      bytes.Buffer
}

func (f *mockFile) Read(p []byte) (int, error) {
	if f.reader == nil {
		return 0, fmt.Errorf("file not open for reading")
	}
	if f.failAfter >= 0 && f.served >= f.failAfter {
		return 0, f.failWith
	}
	if f.failAfter >= 0 && f.served+len(p) > f.failAfter {
		p = p[:f.failAfter-f.served]
	}
	n, err := f.reader.Read(p)
	f.served += n
	return n, err
}

func (f *mockFile) Write(p []byte) (int, error) {
	if f.writeKey == "" {
		return 0, fmt.Errorf("file not open for writing")
	}
	return f.buf.Write(p)
}

func (f *mockFile) Close() error {
	if f.writeKey != "" {
		f.backend.mu.Lock()
		if data, ok := f.backend.files[f.writeKey]; ok {
			data.content = f.buf.Bytes()
		}
		f.backend.mu.Unlock()
	}
	return nil
}

func (f *mockFile) Stat() (fs.FileInfo, error) {
	info := f.info
	return &info, nil
}

// mockFileInfo implements fs.FileInfo.
type mockFileInfo struct {
	name    string
	size    int64
	isDir   bool
	modTime time.Time
}

func (fi *mockFileInfo) Name() string { return fi.name }
func (fi *mockFileInfo) Size() int64  { return fi.size }
func (fi *mockFileInfo) Mode() fs.FileMode {
	if fi.isDir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (fi *mockFileInfo) ModTime() time.Time { return fi.modTime }
func (fi *mockFileInfo) IsDir() bool        { return fi.isDir }
func (fi *mockFileInfo) Sys() any           { return nil }
