// Package manifest persists the desired set of skill ids for a project.
//
// The file is line oriented: blank lines and lines starting with '#' are
// ignored, every other line must be a skill id. Writes always regenerate the
// file sorted and deduplicated under a fixed header, so writing the same set
// twice yields identical bytes.
package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andywolf/skillsctl/internal/apperr"
	"github.com/andywolf/skillsctl/internal/skillid"
)

// RelPath is the manifest location relative to the project root.
const RelPath = ".codex/skills.manifest"

const header = "# " + RelPath + "\n" +
	"# One skill id per line. Lines starting with # are comments.\n"

// Store reads and writes one manifest file.
type Store struct {
	path string
}

// NewStore returns a Store for the manifest under projectRoot.
func NewStore(projectRoot string) *Store {
	return &Store{path: filepath.Join(projectRoot, RelPath)}
}

// Path returns the absolute manifest path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the manifest file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load returns the canonical id set. A missing file yields an empty set.
func (s *Store) Load() ([]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(raw)
}

// Parse decodes manifest content into a canonical id set.
func Parse(raw []byte) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !skillid.Pattern.MatchString(line) {
			return nil, apperr.Validationf("invalid id in manifest %s (line %d): %q", RelPath, lineNo, line)
		}
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan manifest: %w", err)
	}
	return skillid.Canonical(ids), nil
}

// Write re-validates ids and replaces the manifest with their canonical form.
func (s *Store) Write(ids []string) error {
	valid, err := skillid.Validate(ids)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}
	if err := os.WriteFile(s.path, Render(valid), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Render returns the on-disk form of ids.
func Render(ids []string) []byte {
	var sb strings.Builder
	sb.WriteString(header)
	for _, id := range skillid.Canonical(ids) {
		sb.WriteString(id)
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}
