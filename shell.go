package smbsh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// Shell is the interactive command loop over one ClientSession. It issues
// one operation at a time and waits for its result; errors are printed and
// the loop continues - only quit or EOF ends it.
type Shell struct {
	cs     *ClientSession
	in     io.Reader
	out    io.Writer
	prompt string
}

// NewShell creates a shell reading commands from in and writing to out.
func NewShell(cs *ClientSession, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		cs:     cs,
		in:     in,
		out:    out,
		prompt: "> ",
	}
}

// Run reads and dispatches commands until quit or EOF.
func (s *Shell) Run() error {
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, s.prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}

		cmd, ok, err := ParseCommand(scanner.Text())
		if err != nil {
			s.errorf("%v", err)
			continue
		}
		if !ok {
			continue
		}

		if quit := s.dispatch(cmd); quit {
			return nil
		}
	}
}

// dispatch runs one command and reports whether the shell should exit.
// The switch is exhaustive over CommandKind.
func (s *Shell) dispatch(cmd Command) bool {
	var err error
	switch cmd.Kind {
	case CmdList:
		err = s.list(cmd.Args)
	case CmdLocalList:
		err = s.localList(cmd.Args)
	case CmdMkdir:
		err = s.mkdir(cmd.Args)
	case CmdChdir:
		err = s.chdir(cmd.Args)
	case CmdLocalChdir:
		err = s.localChdir(cmd.Args)
	case CmdGet:
		err = s.get(cmd.Args)
	case CmdMget:
		err = s.mget(cmd.Args)
	case CmdPut:
		err = s.put(cmd.Args)
	case CmdMput:
		err = s.mput(cmd.Args)
	case CmdRemove:
		err = s.remove(cmd.Args)
	case CmdRmdir:
		err = s.rmdir(cmd.Args)
	case CmdMove:
		err = s.move(cmd.Args)
	case CmdPwd:
		err = s.pwd()
	case CmdInfo:
		err = s.info()
	case CmdHelp:
		verb := ""
		if len(cmd.Args) == 1 {
			verb = cmd.Args[0]
		}
		fmt.Fprintln(s.out, HelpText(verb))
	case CmdQuit:
		return true
	}

	if err != nil {
		s.errorf("%v", err)
	}
	return false
}

func (s *Shell) errorf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, "[Error] "+format+"\n", args...)
}

func (s *Shell) list(args []string) error {
	path := s.cs.Cursor.Path()
	if len(args) == 1 {
		path = ResolveRemote(s.cs.Cursor.Path(), args[0])
	}

	entries, err := s.cs.Client.List(path)
	if err != nil {
		return err
	}
	for _, row := range Format(entries) {
		fmt.Fprintln(s.out, row)
	}
	return nil
}

func (s *Shell) localList(args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		dir = LocalPath(args[0])
	}

	entries, err := ListLocal(dir)
	if err != nil {
		return err
	}
	for _, row := range Format(entries) {
		fmt.Fprintln(s.out, row)
	}
	return nil
}

func (s *Shell) mkdir(args []string) error {
	for _, arg := range args {
		if err := s.cs.Client.CreateDirectory(ResolveRemote(s.cs.Cursor.Path(), arg)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shell) chdir(args []string) error {
	candidate := RemoteRoot
	if len(args) == 1 {
		candidate = args[0]
	}
	if err := s.cs.Cursor.Change(s.cs.Client, candidate); err != nil {
		return fmt.Errorf("failed to change directory: %w", err)
	}
	return nil
}

func (s *Shell) localChdir(args []string) error {
	fragment := "~"
	if len(args) == 1 {
		fragment = args[0]
	}
	return ChangeLocalDir(LocalPath(fragment))
}

// download fetches one remote file into a lazily created local file. A
// failure mid-stream leaves the partial artifact in place.
func (s *Shell) download(src, dest string) error {
	sink := NewLazyFile(dest)
	defer sink.Close()

	n, err := s.cs.Client.Retrieve(src, sink)
	if err != nil {
		return err
	}
	if err := sink.Commit(); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Downloaded %s (%s)\n", RemoteBase(src), humanize.IBytes(uint64(n)))
	return nil
}

func (s *Shell) get(args []string) error {
	src := ResolveRemote(s.cs.Cursor.Path(), args[0])
	var dest string
	if len(args) == 2 {
		dest = LocalPath(args[1])
	} else {
		dest = LocalPath(RemoteBase(src))
	}
	return s.download(src, dest)
}

func (s *Shell) mget(args []string) error {
	for _, arg := range args {
		src := ResolveRemote(s.cs.Cursor.Path(), arg)
		if err := s.download(src, LocalPath(RemoteBase(src))); err != nil {
			return err
		}
	}
	return nil
}

// upload streams one local file to the remote path.
func (s *Shell) upload(src, dest string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := s.cs.Client.Store(dest, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Uploaded %s (%s)\n", filepath.Base(src), humanize.IBytes(uint64(n)))
	return nil
}

func (s *Shell) put(args []string) error {
	src := LocalPath(args[0])
	var dest string
	if len(args) == 2 {
		dest = ResolveRemote(s.cs.Cursor.Path(), args[1])
	} else {
		dest = ResolveRemote(s.cs.Cursor.Path(), filepath.Base(src))
	}
	return s.upload(src, dest)
}

func (s *Shell) mput(args []string) error {
	for _, arg := range args {
		src := LocalPath(arg)
		dest := ResolveRemote(s.cs.Cursor.Path(), filepath.Base(src))
		if err := s.upload(src, dest); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shell) remove(args []string) error {
	for _, arg := range args {
		resolved := ResolveRemote(s.cs.Cursor.Path(), arg)
		matches, err := s.cs.Client.Glob(resolved)
		if err != nil {
			return err
		}
		for _, m := range matches {
			if err := s.cs.Client.DeleteFile(m); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Shell) rmdir(args []string) error {
	for _, arg := range args {
		if err := s.cs.Client.DeleteDirectory(ResolveRemote(s.cs.Cursor.Path(), arg)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shell) move(args []string) error {
	if len(args) == 2 {
		src := ResolveRemote(s.cs.Cursor.Path(), args[0])
		dest := ResolveRemote(s.cs.Cursor.Path(), args[1])
		return s.cs.Client.Rename(src, dest)
	}

	// Several sources: the last argument is the destination directory and
	// every source keeps its basename.
	destDir := ResolveRemote(s.cs.Cursor.Path(), args[len(args)-1])
	for _, arg := range args[:len(args)-1] {
		src := ResolveRemote(s.cs.Cursor.Path(), arg)
		fmt.Fprintf(s.out, "Moving %s\n", RemoteBase(src))
		if err := s.cs.Client.Rename(src, RemoteJoin(destDir, RemoteBase(src))); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shell) pwd() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "Remote:", s.cs.Cursor.Path())
	fmt.Fprintln(s.out, "Local:", cwd)
	return nil
}

func (s *Shell) info() error {
	if !s.cs.Manager.Connected() {
		return ErrSessionClosed
	}
	info := s.cs.Manager.Info()
	fmt.Fprintln(s.out, "Server:", info.ServerAddr)
	fmt.Fprintln(s.out, "Port:", info.Port)
	fmt.Fprintln(s.out, "Share:", info.Share)
	fmt.Fprintln(s.out, "User:", userLabel(info))
	fmt.Fprintln(s.out, "Connected since:", info.ConnectedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintln(s.out, "Capabilities:", hexOrUnknown(uint64(info.Capabilities)))
	fmt.Fprintln(s.out, "Security mode:", hexOrUnknown(uint64(info.SecurityMode)))
	fmt.Fprintln(s.out, "Max read size:", sizeOrUnknown(info.MaxReadSize))
	fmt.Fprintln(s.out, "Max write size:", sizeOrUnknown(info.MaxWriteSize))
	return nil
}

func userLabel(info SessionInfo) string {
	if info.Domain != "" {
		return info.Domain + `\` + info.Username
	}
	return info.Username
}

// hexOrUnknown renders a negotiated field, or "unknown" when the transport
// did not surface it.
func hexOrUnknown(v uint64) string {
	if v == 0 {
		return "unknown"
	}
	return fmt.Sprintf("%#x", v)
}

func sizeOrUnknown(v uint32) string {
	if v == 0 {
		return "unknown"
	}
	return humanize.IBytes(uint64(v))
}
