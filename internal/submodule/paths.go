package submodule

import (
	"sort"
	"strings"
)

// NormalizePaths trims, deduplicates and sorts sparse paths.
func NormalizePaths(paths []string, fallback string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	if len(out) == 0 && fallback != "" {
		return []string{fallback}
	}
	sort.Strings(out)
	return out
}
