package smbsh

import (
	"path"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
)

// RemoteRoot is the share root in remote path syntax.
const RemoteRoot = `\`

// ResolveRemote resolves a user-supplied path fragment against the current
// remote directory. Fragments with a leading separator (either kind) resolve
// against the share root; everything else resolves relative to cursor. The
// result is a normalized absolute remote path: backslash-separated, no
// trailing separator except root, "." and ".." resolved lexically with ".."
// clamped at the root. Pure and total - malformed fragments still produce a
// normalized path, and validity is left to the operation that consumes it.
func ResolveRemote(cursor, fragment string) string {
	frag := strings.ReplaceAll(fragment, `\`, "/")
	cur := strings.ReplaceAll(cursor, `\`, "/")

	var joined string
	if strings.HasPrefix(frag, "/") {
		joined = frag
	} else {
		joined = cur + "/" + frag
	}

	// path.Clean resolves "." and "..", collapses separators, and clamps
	// ".." above root once the path is anchored with a leading slash.
	norm := path.Clean("/" + joined)

	return strings.ReplaceAll(norm, "/", `\`)
}

// ResolveLocal resolves a local path fragment against cwd, expanding a
// leading "~" to the invoking user's home directory. Pure and total in the
// same sense as ResolveRemote: expansion failures degrade to the raw
// fragment rather than failing.
func ResolveLocal(cwd, fragment string) string {
	if expanded, err := homedir.Expand(fragment); err == nil {
		fragment = expanded
	}
	if !filepath.IsAbs(fragment) {
		fragment = filepath.Join(cwd, fragment)
	}
	return filepath.Clean(fragment)
}

// RemoteBase returns the last element of a remote path. The base of the
// root is the root itself.
func RemoteBase(p string) string {
	p = strings.TrimSuffix(strings.ReplaceAll(p, `\`, "/"), "/")
	if p == "" {
		return RemoteRoot
	}
	return path.Base(p)
}

// RemoteDir returns the parent directory of a remote path.
func RemoteDir(p string) string {
	slash := strings.ReplaceAll(p, `\`, "/")
	dir := path.Dir(path.Clean("/" + slash))
	return strings.ReplaceAll(dir, "/", `\`)
}

// RemoteJoin joins remote path elements and normalizes the result.
func RemoteJoin(elem ...string) string {
	return ResolveRemote(RemoteRoot, strings.Join(elem, `\`))
}

// toWirePath converts a normalized remote path to the share-relative form
// the protocol library expects: backslash-separated, no leading separator.
func toWirePath(p string) string {
	return strings.TrimPrefix(p, `\`)
}

// hasWildcard reports whether the final component of a remote path contains
// shell-style glob metacharacters.
func hasWildcard(p string) bool {
	return strings.ContainsAny(RemoteBase(p), "*?")
}
