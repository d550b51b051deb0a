package smbsh

import (
	"fmt"
	"sort"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// CommandKind enumerates the closed set of shell commands. Dispatch matches
// it exhaustively, so every command provably has a handler and argument
// arity is checked in one place instead of per handler.
type CommandKind int

const (
	CmdList CommandKind = iota
	CmdLocalList
	CmdMkdir
	CmdChdir
	CmdLocalChdir
	CmdGet
	CmdMget
	CmdPut
	CmdMput
	CmdRemove
	CmdRmdir
	CmdMove
	CmdPwd
	CmdInfo
	CmdHelp
	CmdQuit
)

// Command is one parsed shell command with its validated arguments.
type Command struct {
	Kind CommandKind
	Args []string
}

// unbounded marks an arity with no upper limit.
const unbounded = -1

// commandSpec describes one command's verbs and argument arity.
type commandSpec struct {
	kind    CommandKind
	verbs   []string // first verb is canonical, the rest are aliases
	minArgs int
	maxArgs int
	usage   string
	help    string
}

var commandSpecs = []commandSpec{
	{CmdList, []string{"ls", "dir"}, 0, 1,
		"ls [directory]",
		"Lists the contents of a remote directory. Defaults to the current one."},
	{CmdLocalList, []string{"lls", "ldir"}, 0, 1,
		"lls [directory]",
		"Lists the contents of a local directory. Defaults to the current one."},
	{CmdMkdir, []string{"mkdir"}, 1, unbounded,
		"mkdir <directories...>",
		"Creates one or more remote directories."},
	{CmdChdir, []string{"cd"}, 0, 1,
		"cd [directory]",
		"Changes the current remote directory. Defaults to the share root."},
	{CmdLocalChdir, []string{"lcd"}, 0, 1,
		"lcd [directory]",
		"Changes the current local directory. Defaults to the home directory."},
	{CmdGet, []string{"get"}, 1, 2,
		"get <file> [dest]",
		"Downloads a file to the current local directory or dest."},
	{CmdMget, []string{"mget"}, 1, unbounded,
		"mget <files...>",
		"Downloads multiple files to the current local directory."},
	{CmdPut, []string{"put"}, 1, 2,
		"put <file> [dest]",
		"Uploads a file to the current remote directory or dest."},
	{CmdMput, []string{"mput"}, 1, unbounded,
		"mput <files...>",
		"Uploads multiple files to the current remote directory."},
	{CmdRemove, []string{"rm", "del", "delete"}, 1, unbounded,
		"rm <files...>",
		"Removes one or more remote files. Wildcards match in the last path component."},
	{CmdRmdir, []string{"rmdir"}, 1, unbounded,
		"rmdir <directories...>",
		"Removes one or more empty remote directories."},
	{CmdMove, []string{"mv", "rename"}, 2, unbounded,
		"mv <source> [sources...] <dest>",
		"Moves or renames remote files. With several sources, dest must be a directory."},
	{CmdPwd, []string{"pwd"}, 0, 0,
		"pwd",
		"Prints the current remote and local directories."},
	{CmdInfo, []string{"info"}, 0, 0,
		"info",
		"Shows details about the connection."},
	{CmdHelp, []string{"help"}, 0, 1,
		"help [command]",
		"Lists available commands or detailed help on one command."},
	{CmdQuit, []string{"quit", "exit", "q"}, 0, 0,
		"quit",
		"Disconnects and closes the program."},
}

// specsByVerb indexes commandSpecs by every verb and alias.
var specsByVerb = func() map[string]*commandSpec {
	m := make(map[string]*commandSpec)
	for i := range commandSpecs {
		for _, v := range commandSpecs[i].verbs {
			m[v] = &commandSpecs[i]
		}
	}
	return m
}()

// ParseCommand splits a command line (shell quoting rules) and validates
// the verb and argument count against the command table. Empty lines
// return ok=false.
func ParseCommand(line string) (Command, bool, error) {
	words, err := shellwords.Parse(line)
	if err != nil {
		return Command{}, false, fmt.Errorf("parse error: %w", err)
	}
	if len(words) == 0 {
		return Command{}, false, nil
	}

	verb := strings.ToLower(words[0])
	spec, ok := specsByVerb[verb]
	if !ok {
		return Command{}, false, fmt.Errorf("unknown command: %s", verb)
	}

	args := words[1:]
	if len(args) < spec.minArgs {
		return Command{}, false, fmt.Errorf("usage: %s", spec.usage)
	}
	if spec.maxArgs != unbounded && len(args) > spec.maxArgs {
		return Command{}, false, fmt.Errorf("too many arguments\nusage: %s", spec.usage)
	}

	return Command{Kind: spec.kind, Args: args}, true, nil
}

// HelpText returns detailed help for one verb, or a sorted summary of all
// commands when verb is empty.
func HelpText(verb string) string {
	if verb != "" {
		spec, ok := specsByVerb[strings.ToLower(verb)]
		if !ok {
			return fmt.Sprintf("unknown command: %s", verb)
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\n%s", spec.usage, spec.help)
		if len(spec.verbs) > 1 {
			fmt.Fprintf(&b, "\nAliases: %s", strings.Join(spec.verbs[1:], ", "))
		}
		return b.String()
	}

	lines := make([]string, 0, len(commandSpecs))
	for _, spec := range commandSpecs {
		lines = append(lines, fmt.Sprintf("  %-38s %s", spec.usage, spec.help))
	}
	sort.Strings(lines)
	return "Commands:\n" + strings.Join(lines, "\n")
}
