package smbsh

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// runShellScript connects a shell to the backend, feeds it a script, and
// returns everything it printed.
func runShellScript(t *testing.T, backend *MockBackend, script string) string {
	t.Helper()

	cfg := &Config{
		ServerName: "server",
		Share:      "testshare",
		Username:   "user",
		Password:   "pass",
		Resolver:   &fakeResolver{addrs: []string{"10.0.0.1"}},
		Dialer:     backend.Dialer(),
		Logger:     zerolog.Nop(),
	}
	cs, err := Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { cs.Close() })

	var out bytes.Buffer
	sh := NewShell(cs, strings.NewReader(script), &out)
	if err := sh.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

// chdirTemp moves the process into a fresh temporary directory for the test.
func chdirTemp(t *testing.T) string {
	t.Helper()

	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func TestShell_list(t *testing.T) {
	backend := NewMockBackend()
	backend.AddDir(`\photos`)
	backend.AddFile(`\readme.txt`, bytes.Repeat([]byte("x"), 2048))

	out := runShellScript(t, backend, "ls\nquit\n")

	if !strings.Contains(out, "- photos") {
		t.Errorf("output missing directory row:\n%s", out)
	}
	if !strings.Contains(out, "2.0KiB readme.txt") {
		t.Errorf("output missing file row:\n%s", out)
	}
	if strings.Contains(out, " .") {
		t.Errorf("output shows pseudo-entries:\n%s", out)
	}
}

func TestShell_chdirAndPwd(t *testing.T) {
	backend := NewMockBackend()
	backend.AddDir(`\photos\2024`)

	out := runShellScript(t, backend, "cd photos\ncd 2024\npwd\nquit\n")

	if !strings.Contains(out, `Remote: \photos\2024`) {
		t.Errorf("pwd output wrong:\n%s", out)
	}
}

func TestShell_chdirFailureKeepsCursor(t *testing.T) {
	backend := NewMockBackend()
	backend.AddDir(`\photos`)

	out := runShellScript(t, backend, "cd photos\ncd nosuchdir\npwd\nquit\n")

	if !strings.Contains(out, "[Error] failed to change directory") {
		t.Errorf("missing error line:\n%s", out)
	}
	if !strings.Contains(out, `Remote: \photos`) {
		t.Errorf("cursor moved after failed cd:\n%s", out)
	}
}

func TestShell_mkdirAndRmdir(t *testing.T) {
	backend := NewMockBackend()

	runShellScript(t, backend, "mkdir projects archive\nrmdir archive\nquit\n")

	if !backend.Exists(`\projects`) {
		t.Error("mkdir did not create directory")
	}
	if backend.Exists(`\archive`) {
		t.Error("rmdir did not remove directory")
	}
}

func TestShell_get(t *testing.T) {
	dir := chdirTemp(t)
	backend := NewMockBackend()
	backend.AddFile(`\data.bin`, []byte("payload bytes"))

	out := runShellScript(t, backend, "get data.bin\nquit\n")

	if !strings.Contains(out, "Downloaded data.bin (13 B)") {
		t.Errorf("missing download confirmation:\n%s", out)
	}
	got, err := os.ReadFile(filepath.Join(dir, "data.bin"))
	if err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
	if string(got) != "payload bytes" {
		t.Errorf("downloaded content = %q", got)
	}
}

func TestShell_getMissingLeavesNoFile(t *testing.T) {
	dir := chdirTemp(t)
	backend := NewMockBackend()

	out := runShellScript(t, backend, "get missing.bin\nquit\n")

	if !strings.Contains(out, "[Error]") {
		t.Errorf("missing error line:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "missing.bin")); err == nil {
		t.Error("failed download left a local file")
	}
}

func TestShell_getEmptyFile(t *testing.T) {
	dir := chdirTemp(t)
	backend := NewMockBackend()
	backend.AddFile(`\empty.dat`, nil)

	out := runShellScript(t, backend, "get empty.dat\nquit\n")

	if !strings.Contains(out, "Downloaded empty.dat (0 B)") {
		t.Errorf("missing download confirmation:\n%s", out)
	}
	info, err := os.Stat(filepath.Join(dir, "empty.dat"))
	if err != nil {
		t.Fatalf("zero-byte download not materialized: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("downloaded size = %d, want 0", info.Size())
	}
}

func TestShell_put(t *testing.T) {
	dir := chdirTemp(t)
	if err := os.WriteFile(filepath.Join(dir, "up.txt"), []byte("uploaded"), 0o644); err != nil {
		t.Fatal(err)
	}
	backend := NewMockBackend()
	backend.AddDir(`\incoming`)

	out := runShellScript(t, backend, "cd incoming\nput up.txt\nquit\n")

	if !strings.Contains(out, "Uploaded up.txt (8 B)") {
		t.Errorf("missing upload confirmation:\n%s", out)
	}
	if got, _ := backend.FileContent(`\incoming\up.txt`); string(got) != "uploaded" {
		t.Errorf("uploaded content = %q", got)
	}
}

func TestShell_mput(t *testing.T) {
	dir := chdirTemp(t)
	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	backend := NewMockBackend()

	runShellScript(t, backend, "mput a.txt b.txt\nquit\n")

	for _, name := range []string{"a.txt", "b.txt"} {
		if got, _ := backend.FileContent(`\` + name); string(got) != name {
			t.Errorf("uploaded %s content = %q", name, got)
		}
	}
}

func TestShell_removeWildcard(t *testing.T) {
	backend := NewMockBackend()
	backend.AddFile(`\save\game1.sav`, []byte("1"))
	backend.AddFile(`\save\game2.sav`, []byte("2"))
	backend.AddFile(`\save\notes.txt`, []byte("n"))

	runShellScript(t, backend, "cd save\nrm *.sav\nquit\n")

	if backend.Exists(`\save\game1.sav`) || backend.Exists(`\save\game2.sav`) {
		t.Error("wildcard rm left matching files")
	}
	if !backend.Exists(`\save\notes.txt`) {
		t.Error("wildcard rm removed a non-matching file")
	}
}

func TestShell_moveMultipleIntoDirectory(t *testing.T) {
	backend := NewMockBackend()
	backend.AddFile(`\a.txt`, []byte("a"))
	backend.AddFile(`\b.txt`, []byte("b"))
	backend.AddDir(`\archive`)

	out := runShellScript(t, backend, "mv a.txt b.txt archive\nquit\n")

	if !strings.Contains(out, "Moving a.txt") || !strings.Contains(out, "Moving b.txt") {
		t.Errorf("missing move progress lines:\n%s", out)
	}
	if !backend.Exists(`\archive\a.txt`) || !backend.Exists(`\archive\b.txt`) {
		t.Error("files not moved into destination directory")
	}
}

func TestShell_moveCollision(t *testing.T) {
	backend := NewMockBackend()
	backend.AddFile(`\a.txt`, []byte("a"))
	backend.AddFile(`\b.txt`, []byte("b"))

	out := runShellScript(t, backend, "mv a.txt b.txt\nquit\n")

	if !strings.Contains(out, "[Error]") {
		t.Errorf("rename onto existing file did not report an error:\n%s", out)
	}
	if got, _ := backend.FileContent(`\b.txt`); string(got) != "b" {
		t.Errorf("collision target content = %q, want untouched", got)
	}
}

func TestShell_info(t *testing.T) {
	backend := NewMockBackend()

	out := runShellScript(t, backend, "info\nquit\n")

	for _, want := range []string{
		"Server: 10.0.0.1",
		"Port: 445",
		"Share: testshare",
		"User: user",
		"Capabilities: 0x7",
		"Security mode: 0x1",
		"Max read size: 1.0 MiB",
		"Max write size: 1.0 MiB",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestShell_unknownCommand(t *testing.T) {
	out := runShellScript(t, NewMockBackend(), "frobnicate\nquit\n")

	if !strings.Contains(out, "[Error] unknown command: frobnicate") {
		t.Errorf("missing unknown-command error:\n%s", out)
	}
}

func TestShell_errorDoesNotEndLoop(t *testing.T) {
	backend := NewMockBackend()
	backend.AddDir(`\photos`)

	out := runShellScript(t, backend, "rm nosuchfile\nls\nquit\n")

	if !strings.Contains(out, "[Error]") {
		t.Errorf("missing error line:\n%s", out)
	}
	if !strings.Contains(out, "- photos") {
		t.Errorf("shell stopped dispatching after an error:\n%s", out)
	}
}

func TestShell_quitAliases(t *testing.T) {
	for _, verb := range []string{"quit", "exit", "q"} {
		out := runShellScript(t, NewMockBackend(), verb+"\npwd\n")
		if strings.Contains(out, "Remote:") {
			t.Errorf("%s did not end the loop:\n%s", verb, out)
		}
	}
}

func TestShell_eofEndsLoop(t *testing.T) {
	// Script without a quit; EOF alone must end Run cleanly.
	runShellScript(t, NewMockBackend(), "pwd\n")
}

func TestShell_help(t *testing.T) {
	out := runShellScript(t, NewMockBackend(), "help\nhelp get\nquit\n")

	if !strings.Contains(out, "Commands:") {
		t.Errorf("missing command summary:\n%s", out)
	}
	if !strings.Contains(out, "get <file> [dest]") {
		t.Errorf("missing per-command help:\n%s", out)
	}
}
