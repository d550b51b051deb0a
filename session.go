package smbsh

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Endpoint identifies the server and share a session connects to. ServerAddr
// must be resolved - directly supplied or looked up from ServerName - before
// the transport connection is attempted.
type Endpoint struct {
	ServerName string
	ServerAddr string
	Port       int
	Share      string
}

// Credentials authenticate a session. Held in memory for the session's
// lifetime only, never persisted.
type Credentials struct {
	Username string
	Password string
	Domain   string
}

// SessionManager owns the connection lifecycle: resolve name, connect,
// authenticate, mount, hold the live session. At most one session is live
// at a time; connecting again closes the previous one first.
type SessionManager struct {
	dialer   Dialer
	resolver NameResolver
	logger   zerolog.Logger

	session Session
	share   Share
	info    SessionInfo
}

// NewSessionManager creates a session manager using the given collaborators.
func NewSessionManager(dialer Dialer, resolver NameResolver, logger zerolog.Logger) *SessionManager {
	return &SessionManager{
		dialer:   dialer,
		resolver: resolver,
		logger:   logger,
	}
}

// Connect establishes a session to the endpoint and mounts its share.
//
// When the endpoint has no address, the server name is resolved first; zero
// or ambiguous results fail with ErrNameResolution before any transport
// connection is attempted - a recoverable condition the caller fixes by
// supplying an address. No step is retried; every failure surfaces to the
// caller, who decides whether to prompt and call Connect again.
//
// An already-open session is closed before the new one is established.
func (m *SessionManager) Connect(ctx context.Context, ep Endpoint, creds Credentials, timeout time.Duration) error {
	if m.session != nil {
		m.Close()
	}

	addr := ep.ServerAddr
	if addr == "" {
		resolved, err := m.resolve(ctx, ep.ServerName, timeout)
		if err != nil {
			return err
		}
		addr = resolved
	}

	m.logger.Debug().Str("addr", addr).Int("port", ep.Port).Msg("dialing")
	sess, err := m.dialer.Dial(ctx, addr, ep.Port, creds, timeout)
	if err != nil {
		return err
	}

	share, err := sess.Mount(ep.Share)
	if err != nil {
		sess.Logoff()
		return fmt.Errorf("mount %s: %w", ep.Share, mapError(err))
	}

	m.session = sess
	m.share = share
	m.info = sess.Info()
	m.logger.Debug().Str("share", ep.Share).Msg("session established")
	return nil
}

// resolve maps a server name to exactly one address.
func (m *SessionManager) resolve(ctx context.Context, name string, timeout time.Duration) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: no server name or address given", ErrNameResolution)
	}

	m.logger.Debug().Str("name", name).Msg("resolving server name")
	addrs, err := m.resolver.QueryName(ctx, name, timeout)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrNameResolution, name, err)
	}

	switch len(addrs) {
	case 0:
		return "", fmt.Errorf("%w: %s: no results", ErrNameResolution, name)
	case 1:
		return addrs[0], nil
	default:
		return "", fmt.Errorf("%w: %s: ambiguous (%d results)", ErrNameResolution, name, len(addrs))
	}
}

// Share returns the mounted share, or an error when no session is live.
func (m *SessionManager) Share() (Share, error) {
	if m.share == nil {
		return nil, ErrSessionClosed
	}
	return m.share, nil
}

// Connected reports whether a session is currently live.
func (m *SessionManager) Connected() bool {
	return m.session != nil
}

// Info returns the parameters of the live session. The zero value is
// returned when no session is live.
func (m *SessionManager) Info() SessionInfo {
	return m.info
}

// Close tears down the live session. Closing an already-closed manager is
// not an error; the underlying logoff runs exactly once per session.
func (m *SessionManager) Close() error {
	if m.session == nil {
		return nil
	}

	if m.share != nil {
		m.share.Umount()
		m.share = nil
	}

	err := m.session.Logoff()
	m.session = nil
	m.info = SessionInfo{}
	m.logger.Debug().Msg("session closed")
	return err
}
