package smbsh

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hirochachacha/go-smb2"
)

var (
	// ErrNameResolution indicates name resolution returned zero or
	// ambiguous results; the caller must supply an address manually.
	ErrNameResolution = errors.New("name resolution failed")

	// ErrConnect indicates the transport connection could not be
	// established (timeout, refusal, unreachable host).
	ErrConnect = errors.New("connection failed")

	// ErrAuthentication indicates the server rejected the credentials
	// or the session setup.
	ErrAuthentication = errors.New("authentication failed")

	// ErrSessionClosed indicates an operation was issued against a
	// closed or never-opened session.
	ErrSessionClosed = errors.New("session closed")

	// ErrNotFound indicates the remote path does not exist.
	ErrNotFound = errors.New("path not found")

	// ErrAccessDenied indicates the server refused access to the path.
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyExists indicates the target path already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotEmpty indicates a directory could not be removed because it
	// still has entries.
	ErrNotEmpty = errors.New("directory not empty")

	// ErrProtocol wraps protocol-level failures with no more specific
	// mapping.
	ErrProtocol = errors.New("protocol error")
)

// NTStatus is an SMB2 status code as reported by the server.
type NTStatus uint32

// Status codes the client maps onto package sentinels. The full table
// lives in [MS-ERREF]; these are the ones a file-management shell
// actually encounters.
const (
	StatusNoSuchFile          NTStatus = 0xC000000F
	StatusAccessDenied        NTStatus = 0xC0000022
	StatusObjectNameInvalid   NTStatus = 0xC0000033
	StatusObjectNameNotFound  NTStatus = 0xC0000034
	StatusObjectNameCollision NTStatus = 0xC0000035
	StatusObjectPathNotFound  NTStatus = 0xC000003A
	StatusSharingViolation    NTStatus = 0xC0000043
	StatusLogonFailure        NTStatus = 0xC000006D
	StatusFileIsADirectory    NTStatus = 0xC00000BA
	StatusBadNetworkName      NTStatus = 0xC00000CC
	StatusDirectoryNotEmpty   NTStatus = 0xC0000101
	StatusUserSessionDeleted  NTStatus = 0xC0000203
)

// PathError records an error and the operation and path that caused it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// wrapPathError wraps an error with operation and path information.
func wrapPathError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	// If it's already a PathError for the same path, don't double-wrap
	var pe *PathError
	if errors.As(err, &pe) && pe.Path == path {
		return err
	}

	return &PathError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// statusError maps an NT status code onto a package sentinel.
func statusError(code NTStatus) error {
	switch code {
	case StatusNoSuchFile, StatusObjectNameNotFound, StatusObjectPathNotFound:
		return ErrNotFound
	case StatusAccessDenied, StatusSharingViolation:
		return ErrAccessDenied
	case StatusObjectNameCollision:
		return ErrAlreadyExists
	case StatusDirectoryNotEmpty:
		return ErrNotEmpty
	case StatusLogonFailure:
		return ErrAuthentication
	case StatusUserSessionDeleted:
		return ErrSessionClosed
	case StatusBadNetworkName:
		return ErrConnect
	default:
		return fmt.Errorf("%w: status 0x%08X", ErrProtocol, uint32(code))
	}
}

// mapError converts protocol and filesystem errors to package sentinels.
// Already-mapped errors pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrNotEmpty),
		errors.Is(err, ErrAuthentication),
		errors.Is(err, ErrSessionClosed),
		errors.Is(err, ErrProtocol):
		return err
	}

	// go-smb2 surfaces server rejections as ResponseError with the raw
	// NT status code.
	var re *smb2.ResponseError
	if errors.As(err, &re) {
		mapped := statusError(NTStatus(re.Code))
		return fmt.Errorf("%w (%v)", mapped, err)
	}

	// Local and library-internal failures arrive as fs sentinels.
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w (%v)", ErrNotFound, err)
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%w (%v)", ErrAlreadyExists, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w (%v)", ErrAccessDenied, err)
	case errors.Is(err, fs.ErrClosed):
		return fmt.Errorf("%w (%v)", ErrSessionClosed, err)
	}

	return err
}
