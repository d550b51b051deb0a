package smbsh

import (
	"os"
	"path/filepath"
)

// ListLocal lists a local directory in the same entry shape as remote
// listings so both sides share one formatter.
func ListLocal(dir string) ([]RemoteEntry, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]RemoteEntry, 0, len(dirents))
	for _, de := range dirents {
		e := RemoteEntry{Name: de.Name(), IsDir: de.IsDir(), Size: SizeUnknown}
		if !e.IsDir {
			if info, err := de.Info(); err == nil {
				e.Size = info.Size()
			} else {
				// Entry vanished between readdir and stat.
				e.Size = 0
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// LocalPath resolves a local path fragment against the process working
// directory, with "~" expansion (see ResolveLocal).
func LocalPath(fragment string) string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return ResolveLocal(cwd, fragment)
}

// ChangeLocalDir changes the process working directory.
func ChangeLocalDir(dir string) error {
	return os.Chdir(filepath.Clean(dir))
}
