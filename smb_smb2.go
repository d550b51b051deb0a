package smbsh

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"os"
	"time"

	"github.com/hirochachacha/go-smb2"
)

// SMB2Dialer implements Dialer over the go-smb2 client library.
type SMB2Dialer struct{}

// Dial opens a TCP connection and performs SMB2/3 session setup with NTLM
// authentication. Transport failures map to ErrConnect, session setup
// rejections to ErrAuthentication.
func (d *SMB2Dialer) Dial(ctx context.Context, addr string, port int, creds Credentials, timeout time.Duration) (Session, error) {
	dialer := &net.Dialer{Timeout: timeout}

	hostport := net.JoinHostPort(addr, fmt.Sprintf("%d", port))
	netConn, err := dialer.DialContext(ctx, "tcp", hostport)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnect, hostport, err)
	}

	sd := &smb2.Dialer{
		Initiator: &smb2.NTLMInitiator{
			User:     creds.Username,
			Password: creds.Password,
			Domain:   creds.Domain,
		},
	}

	sess, err := sd.Dial(netConn)
	if err != nil {
		netConn.Close()
		return nil, fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	return &smb2Session{
		session: sess,
		conn:    netConn,
		info: SessionInfo{
			ServerAddr:  addr,
			Port:        port,
			Username:    creds.Username,
			Domain:      creds.Domain,
			ConnectedAt: time.Now(),
		},
	}, nil
}

// smb2Session wraps a go-smb2 Session to implement Session.
type smb2Session struct {
	session *smb2.Session
	conn    net.Conn
	info    SessionInfo
}

func (s *smb2Session) Mount(shareName string) (Share, error) {
	share, err := s.session.Mount(shareName)
	if err != nil {
		return nil, mapError(err)
	}
	s.info.Share = shareName
	return &smb2Share{share: share}, nil
}

func (s *smb2Session) Info() SessionInfo {
	return s.info
}

func (s *smb2Session) Logoff() error {
	err := s.session.Logoff()
	s.conn.Close()
	return err
}

// smb2Share wraps a go-smb2 Share to implement Share.
type smb2Share struct {
	share *smb2.Share
}

// ReadDir opens the directory and reads all entries in one pass. go-smb2
// hands back whatever QUERY_DIRECTORY returned, which on most servers
// includes the "." and ".." pseudo-entries.
func (sh *smb2Share) ReadDir(path string) ([]fs.FileInfo, error) {
	f, err := sh.share.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.Readdir(-1)
	if err != nil {
		return nil, err
	}

	infos := make([]fs.FileInfo, len(entries))
	for i, e := range entries {
		infos[i] = e
	}
	return infos, nil
}

func (sh *smb2Share) Stat(path string) (fs.FileInfo, error) {
	return sh.share.Stat(path)
}

func (sh *smb2Share) Mkdir(path string) error {
	return sh.share.Mkdir(path, 0o755)
}

func (sh *smb2Share) Remove(path string) error {
	return sh.share.Remove(path)
}

func (sh *smb2Share) Rename(oldpath, newpath string) error {
	return sh.share.Rename(oldpath, newpath)
}

func (sh *smb2Share) Open(path string) (File, error) {
	return sh.share.Open(path)
}

func (sh *smb2Share) Create(path string) (File, error) {
	return sh.share.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}

func (sh *smb2Share) Umount() error {
	return sh.share.Umount()
}
