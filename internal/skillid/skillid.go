// Package skillid validates and canonicalizes skill identifiers.
package skillid

import (
	"regexp"
	"sort"
	"strings"

	"github.com/andywolf/skillsctl/internal/apperr"
)

// Pattern matches a canonical skill id.
var Pattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Normalize trims raw and checks it against Pattern. Blank tokens are
// reported with ok=false and no error so callers can drop them.
func Normalize(raw string) (id string, ok bool, err error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false, nil
	}
	if !Pattern.MatchString(s) {
		return "", false, apperr.Validationf("invalid skill id: %q (expected [a-z0-9-]+)", s)
	}
	return s, true, nil
}

// Validate normalizes every token, dropping blanks. Order and duplicates are
// preserved; use Canonical for the set form.
func Validate(raw []string) ([]string, error) {
	var out []string
	for _, r := range raw {
		id, ok, err := Normalize(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, id)
		}
	}
	return out, nil
}

// Canonical returns the sorted, deduplicated form of ids.
func Canonical(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Union returns Canonical(a ∪ b).
func Union(a, b []string) []string {
	all := make([]string, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	return Canonical(all)
}

// Subtract returns Canonical(a) with every id in b removed.
func Subtract(a, b []string) []string {
	drop := make(map[string]bool, len(b))
	for _, id := range b {
		drop[id] = true
	}
	out := make([]string, 0, len(a))
	for _, id := range Canonical(a) {
		if !drop[id] {
			out = append(out, id)
		}
	}
	return out
}
