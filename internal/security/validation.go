package security

import (
	"path"
	"regexp"
	"strings"

	"github.com/andywolf/skillsctl/internal/apperr"
)

var gitRefPattern = regexp.MustCompile(`^[a-zA-Z0-9/_.-]+$`)

// ValidateGitRef checks a branch name before it is handed to git.
func ValidateGitRef(ref string) error {
	if !gitRefPattern.MatchString(ref) || strings.HasPrefix(ref, "-") || strings.Contains(ref, "..") {
		return apperr.Validationf("invalid branch name: %q", ref)
	}
	return nil
}

// ValidateRepoURL rejects URLs that git would parse as an option or that
// contain control characters.
func ValidateRepoURL(url string) error {
	if url == "" {
		return apperr.Validationf("repository URL is empty")
	}
	if strings.HasPrefix(url, "-") {
		return apperr.Validationf("invalid repository URL: %q", url)
	}
	for _, r := range url {
		if r < 0x20 || r == 0x7f {
			return apperr.Validationf("invalid repository URL: %q (contains control characters)", url)
		}
	}
	return nil
}

// CleanRelPath trims surrounding whitespace and slashes from a path inside
// the nested checkout and rejects anything that would escape it.
func CleanRelPath(p string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(p), "/")
	if trimmed == "" {
		return "", apperr.Validationf("empty path")
	}
	for _, part := range strings.Split(trimmed, "/") {
		if part == ".." {
			return "", apperr.Validationf("path traversal detected: %q", p)
		}
	}
	if strings.HasPrefix(trimmed, "-") {
		return "", apperr.Validationf("invalid path: %q", p)
	}
	return path.Clean(trimmed), nil
}
