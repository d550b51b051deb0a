package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/absfs/smbsh"
)

var (
	ip      = flag.String("ip", "", "server IP, skips name resolution")
	port    = flag.Int("port", 0, "server port (default 445)")
	share   = flag.StringP("share", "s", "", "share name")
	buffer  = flag.String("buffer", "64KiB", "transfer buffer size")
	timeout = flag.Duration("timeout", 0, "connect and name-resolution timeout (default 5s)")
	debug   = flag.Bool("debug", false, "enable debug logging")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [flags] [name|smb://url] [user] [password]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	cfg, err := buildConfig(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "[Error]", err)
		os.Exit(1)
	}

	logger := zerolog.Nop()
	if *debug {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}
	cfg.Logger = logger

	promptMissing(cfg)

	ctx := context.Background()
	cs, err := smbsh.Connect(ctx, cfg)
	if errors.Is(err, smbsh.ErrNameResolution) {
		// Recoverable: ask for the address and try once more.
		fmt.Println("[Error] Name resolution failed. Please enter the server IP manually.")
		cfg.ServerAddr = promptLine("IP: ")
		cs, err = smbsh.Connect(ctx, cfg)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "[Error]", err)
		os.Exit(1)
	}
	defer cs.Close()

	fmt.Println("Connected to", cs.Manager.Info().ServerAddr)

	shell := smbsh.NewShell(cs, os.Stdin, os.Stdout)
	if err := shell.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "[Error]", err)
		os.Exit(1)
	}
}

// buildConfig assembles the configuration from positional arguments and
// flags. A single smb:// URL may replace the positional form.
func buildConfig(args []string) (*smbsh.Config, error) {
	cfg := &smbsh.Config{}

	if len(args) > 0 && strings.HasPrefix(args[0], "smb://") {
		parsed, err := smbsh.ParseConnectionString(args[0])
		if err != nil {
			return nil, err
		}
		cfg = parsed
		args = args[1:]
		if len(args) > 0 {
			return nil, fmt.Errorf("positional arguments are not allowed with an smb:// URL")
		}
	} else {
		if len(args) > 0 {
			cfg.ServerName = args[0]
		}
		if len(args) > 1 {
			cfg.Username = args[1]
		}
		if len(args) > 2 {
			cfg.Password = args[2]
		}
		if len(args) > 3 {
			return nil, fmt.Errorf("too many arguments")
		}
	}

	if *ip != "" {
		cfg.ServerAddr = *ip
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *share != "" {
		cfg.Share = *share
	}
	if *timeout != 0 {
		cfg.ConnTimeout = *timeout
	}

	bufSize, err := humanize.ParseBytes(*buffer)
	if err != nil {
		return nil, fmt.Errorf("invalid --buffer: %w", err)
	}
	cfg.ReadBufferSize = int(bufSize)
	cfg.WriteBufferSize = int(bufSize)

	return cfg, nil
}

// promptMissing interactively collects any required value left unset.
func promptMissing(cfg *smbsh.Config) {
	if cfg.ServerName == "" && cfg.ServerAddr == "" {
		cfg.ServerName = promptLine("Server: ")
	}
	if cfg.Share == "" {
		cfg.Share = promptLine("Share: ")
	}
	if cfg.Username == "" {
		cfg.Username = promptLine("Username: ")
	}
	if cfg.Password == "" {
		cfg.Password = promptPassword("Password: ")
	}
}

func promptLine(prompt string) string {
	fmt.Print(prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

// promptPassword reads a password without echoing when stdin is a
// terminal, falling back to a plain line read otherwise.
func promptPassword(prompt string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine(prompt)
	}
	fmt.Print(prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(pw)
}
