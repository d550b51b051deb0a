package smbsh

import (
	"fmt"
	"sort"
	"strings"
)

// sizeUnits are the binary-prefixed units used for listing sizes.
var sizeUnits = []string{"", "Ki", "Mi", "Gi", "Ti", "Pi", "Ei", "Zi"}

// FormatSize renders a byte count in binary-prefixed human units with one
// decimal place, choosing the largest unit for which the magnitude stays
// below 1024: 0 -> "0.0B", 1536 -> "1.5KiB", 1048576 -> "1.0MiB".
func FormatSize(n int64) string {
	num := float64(n)
	for _, unit := range sizeUnits {
		if num > -1024.0 && num < 1024.0 {
			return fmt.Sprintf("%.1f%sB", num, unit)
		}
		num /= 1024.0
	}
	// int64 tops out in the EiB range; this is unreachable but keeps the
	// function total.
	return fmt.Sprintf("%.1fZiB", num)
}

// Format turns listing entries into display rows: one right-aligned size
// column (directories render "-") followed by the name. Directories sort
// before files; within each group names sort case-insensitively, stably.
// Self/parent pseudo-entries are excluded from rendering.
func Format(entries []RemoteEntry) []string {
	visible := make([]RemoteEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsPseudo() {
			continue
		}
		visible = append(visible, e)
	}

	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].IsDir != visible[j].IsDir {
			return visible[i].IsDir
		}
		return strings.ToLower(visible[i].Name) < strings.ToLower(visible[j].Name)
	})

	sizes := make([]string, len(visible))
	width := 0
	for i, e := range visible {
		if e.IsDir {
			sizes[i] = "-"
		} else {
			sizes[i] = FormatSize(e.Size)
		}
		if len(sizes[i]) > width {
			width = len(sizes[i])
		}
	}

	rows := make([]string, len(visible))
	for i, e := range visible {
		rows[i] = fmt.Sprintf("%*s %s", width, sizes[i], e.Name)
	}
	return rows
}
