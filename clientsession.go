package smbsh

import (
	"context"
)

// ClientSession bundles the state the shell holds for one connection: the
// session manager, the share-scoped client, and the remote directory
// cursor. The shell owns exactly one and passes it around explicitly.
type ClientSession struct {
	Config  *Config
	Manager *SessionManager
	Client  *ShareClient
	Cursor  *DirectoryCursor
}

// Connect validates the configuration, establishes a session to the
// configured endpoint, and returns the bundle with its cursor at the share
// root.
func Connect(ctx context.Context, cfg *Config) (*ClientSession, error) {
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mgr := NewSessionManager(cfg.Dialer, cfg.Resolver, cfg.Logger)
	if err := mgr.Connect(ctx, cfg.Endpoint(), cfg.Credentials(), cfg.ConnTimeout); err != nil {
		return nil, err
	}

	return &ClientSession{
		Config:  cfg,
		Manager: mgr,
		Client:  NewShareClient(mgr, cfg.ReadBufferSize, cfg.Logger),
		Cursor:  NewDirectoryCursor(),
	}, nil
}

// Reconnect closes any live session and connects again with the current
// configuration. The cursor returns to the share root on success.
func (cs *ClientSession) Reconnect(ctx context.Context) error {
	err := cs.Manager.Connect(ctx, cs.Config.Endpoint(), cs.Config.Credentials(), cs.Config.ConnTimeout)
	if err != nil {
		return err
	}
	cs.Cursor.Reset()
	return nil
}

// Close tears down the session. Idempotent.
func (cs *ClientSession) Close() error {
	return cs.Manager.Close()
}
