package smbsh

import (
	"path/filepath"
	"testing"

	homedir "github.com/mitchellh/go-homedir"
)

func TestResolveRemote(t *testing.T) {
	tests := []struct {
		name     string
		cursor   string
		fragment string
		expected string
	}{
		{
			name:     "relative against root",
			cursor:   `\`,
			fragment: "docs",
			expected: `\docs`,
		},
		{
			name:     "relative against subdirectory",
			cursor:   `\docs`,
			fragment: "reports",
			expected: `\docs\reports`,
		},
		{
			name:     "absolute backslash fragment ignores cursor",
			cursor:   `\docs`,
			fragment: `\music\jazz`,
			expected: `\music\jazz`,
		},
		{
			name:     "absolute slash fragment ignores cursor",
			cursor:   `\docs`,
			fragment: "/music/jazz",
			expected: `\music\jazz`,
		},
		{
			name:     "parent reference",
			cursor:   `\docs\reports`,
			fragment: "..",
			expected: `\docs`,
		},
		{
			name:     "parent clamped at root",
			cursor:   `\`,
			fragment: `..\..\etc`,
			expected: `\etc`,
		},
		{
			name:     "dot segments removed",
			cursor:   `\docs`,
			fragment: `.\a\.\b`,
			expected: `\docs\a\b`,
		},
		{
			name:     "forward slashes accepted in fragment",
			cursor:   `\docs`,
			fragment: "a/b/c",
			expected: `\docs\a\b\c`,
		},
		{
			name:     "empty fragment keeps cursor",
			cursor:   `\docs`,
			fragment: "",
			expected: `\docs`,
		},
		{
			name:     "redundant separators collapse",
			cursor:   `\docs`,
			fragment: `a\\\b`,
			expected: `\docs\a\b`,
		},
		{
			name:     "trailing separator stripped",
			cursor:   `\`,
			fragment: `docs\`,
			expected: `\docs`,
		},
		{
			name:     "root stays root",
			cursor:   `\`,
			fragment: `\`,
			expected: `\`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResolveRemote(tt.cursor, tt.fragment)
			if result != tt.expected {
				t.Errorf("ResolveRemote(%q, %q) = %q, want %q", tt.cursor, tt.fragment, result, tt.expected)
			}
		})
	}
}

// Resolving an already-absolute, already-normalized path against any cursor
// returns it unchanged.
func TestResolveRemote_absoluteIdempotent(t *testing.T) {
	cursors := []string{`\`, `\docs`, `\a\b\c`}
	paths := []string{`\`, `\docs`, `\music\jazz\live`}

	for _, cursor := range cursors {
		for _, p := range paths {
			if got := ResolveRemote(cursor, p); got != p {
				t.Errorf("ResolveRemote(%q, %q) = %q, want %q unchanged", cursor, p, got, p)
			}
		}
	}
}

func TestResolveLocal(t *testing.T) {
	cwd := filepath.Join(string(filepath.Separator), "work")

	tests := []struct {
		name     string
		fragment string
		expected string
	}{
		{
			name:     "relative joins cwd",
			fragment: "notes.txt",
			expected: filepath.Join(cwd, "notes.txt"),
		},
		{
			name:     "absolute kept",
			fragment: filepath.Join(string(filepath.Separator), "tmp", "x"),
			expected: filepath.Join(string(filepath.Separator), "tmp", "x"),
		},
		{
			name:     "dot segments cleaned",
			fragment: filepath.Join("a", "..", "b"),
			expected: filepath.Join(cwd, "b"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResolveLocal(cwd, tt.fragment)
			if result != tt.expected {
				t.Errorf("ResolveLocal(%q, %q) = %q, want %q", cwd, tt.fragment, result, tt.expected)
			}
		})
	}
}

func TestResolveLocal_homeExpansion(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory available: %v", err)
	}

	if got := ResolveLocal("/work", "~"); got != filepath.Clean(home) {
		t.Errorf("ResolveLocal(%q, \"~\") = %q, want %q", "/work", got, home)
	}
	if got, want := ResolveLocal("/work", "~/notes.txt"), filepath.Join(home, "notes.txt"); got != want {
		t.Errorf("ResolveLocal(%q, \"~/notes.txt\") = %q, want %q", "/work", got, want)
	}
}

func TestRemoteBase(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{`\docs\report.pdf`, "report.pdf"},
		{`\docs`, "docs"},
		{`\`, `\`},
		{`\docs\`, "docs"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := RemoteBase(tt.path); got != tt.expected {
				t.Errorf("RemoteBase(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestRemoteDir(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{`\docs\report.pdf`, `\docs`},
		{`\docs`, `\`},
		{`\`, `\`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := RemoteDir(tt.path); got != tt.expected {
				t.Errorf("RemoteDir(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestToWirePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{`\docs\report.pdf`, `docs\report.pdf`},
		{`\`, ""},
		{`\file`, "file"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := toWirePath(tt.path); got != tt.expected {
				t.Errorf("toWirePath(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestHasWildcard(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{`\docs\*.txt`, true},
		{`\docs\report?.pdf`, true},
		{`\docs\report.pdf`, false},
		{`\*dir\plain`, false}, // wildcard only counts in the final component
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := hasWildcard(tt.path); got != tt.expected {
				t.Errorf("hasWildcard(%q) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}
