// Package catalog loads the skills catalog distributed inside the nested
// repository and resolves skill ids to sparse-checkout paths.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/andywolf/skillsctl/internal/apperr"
	"github.com/andywolf/skillsctl/internal/security"
	"github.com/bmatcuk/doublestar/v4"
)

const (
	// RelPath is the catalog document inside the nested checkout.
	RelPath = "catalog/skills.json"
	// RootPath is always part of the sparse selection so the catalog stays readable.
	RootPath = "catalog"
	// SchemaVersion is the only catalog schema this tool understands.
	SchemaVersion = 1
)

// Target locates a skill for one consumer.
type Target struct {
	Path string `json:"path" yaml:"path"`
}

// Skill is one catalog record.
type Skill struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description" yaml:"description"`
	Tags        []string          `json:"tags" yaml:"tags"`
	Aliases     []string          `json:"aliases" yaml:"aliases"`
	Targets     map[string]Target `json:"targets" yaml:"targets"`
}

// Catalog is a parsed catalog document.
type Catalog struct {
	SchemaVersion int
	Skills        []Skill

	byID map[string]Skill
}

// Sparser narrows the nested checkout to a set of paths.
type Sparser interface {
	SetSparsePaths(ctx context.Context, paths []string, fallback string) error
}

// EnsurePresent narrows the sparse selection to the catalog root when the
// catalog document is not materialized yet.
func EnsurePresent(ctx context.Context, checkoutDir string, s Sparser) error {
	path := filepath.Join(checkoutDir, RelPath)
	if fileExists(path) {
		return nil
	}
	if err := s.SetSparsePaths(ctx, []string{RootPath}, RootPath); err != nil {
		return err
	}
	if !fileExists(path) {
		return apperr.Preconditionf("missing catalog after sparse checkout: %s", path)
	}
	return nil
}

// Load reads and parses the catalog from the nested checkout.
func Load(checkoutDir string) (*Catalog, error) {
	path := filepath.Join(checkoutDir, RelPath)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.Preconditionf("missing catalog: %s (run `skillsctl bootstrap`)", path)
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a catalog document. The document itself must be well formed;
// individual records are read leniently and records without a usable id are
// dropped.
func Parse(raw []byte) (*Catalog, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, apperr.Validationf("invalid catalog (expected object): %s", RelPath)
		}
		return nil, apperr.Validationf("invalid catalog JSON: %s (%v)", RelPath, err)
	}
	if doc == nil {
		return nil, apperr.Validationf("invalid catalog (expected object): %s", RelPath)
	}

	var version any
	if rawVersion, ok := doc["schema_version"]; ok {
		_ = json.Unmarshal(rawVersion, &version)
	}
	if n, ok := version.(float64); !ok || n != SchemaVersion {
		return nil, apperr.Validationf("unsupported catalog schema_version: %s", describe(doc["schema_version"]))
	}

	var records []any
	rawSkills, ok := doc["skills"]
	if !ok || json.Unmarshal(rawSkills, &records) != nil || records == nil {
		return nil, apperr.Validationf("invalid catalog: skills must be a list")
	}

	c := &Catalog{SchemaVersion: SchemaVersion, byID: make(map[string]Skill)}
	for _, rec := range records {
		obj, ok := rec.(map[string]any)
		if !ok {
			continue
		}
		s := decodeSkill(obj)
		if s.ID == "" {
			continue
		}
		c.Skills = append(c.Skills, s)
		c.byID[s.ID] = s
	}
	return c, nil
}

// ByID returns the record for id.
func (c *Catalog) ByID(id string) (Skill, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Validate fails on the first id missing from the catalog.
func (c *Catalog) Validate(ids []string) error {
	for _, id := range ids {
		if _, ok := c.byID[id]; !ok {
			return apperr.NotFoundf("unknown skill id: %q", id)
		}
	}
	return nil
}

// ResolvePaths maps ids to their target paths. The result is sorted,
// deduplicated and always contains RootPath.
func (c *Catalog) ResolvePaths(ids []string, target string) ([]string, error) {
	set := map[string]bool{RootPath: true}
	for _, id := range ids {
		s, ok := c.byID[id]
		if !ok {
			return nil, apperr.NotFoundf("unknown skill id: %q", id)
		}
		p, ok := s.PathFor(target)
		if !ok {
			return nil, apperr.NotFoundf("skill %q is missing targets.%s.path in catalog", id, target)
		}
		clean, err := security.CleanRelPath(p)
		if err != nil {
			return nil, fmt.Errorf("skill %q: %w", id, err)
		}
		set[clean] = true
	}

	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// Filter returns the skills whose id matches the glob pattern. An empty
// pattern matches everything.
func (c *Catalog) Filter(pattern string) ([]Skill, error) {
	if pattern == "" {
		return c.Skills, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, apperr.Validationf("invalid match pattern: %q", pattern)
	}
	var out []Skill
	for _, s := range c.Skills {
		if ok, _ := doublestar.Match(pattern, s.ID); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// PathFor returns the non-blank path for target.
func (s Skill) PathFor(target string) (string, bool) {
	t, ok := s.Targets[target]
	if !ok || strings.TrimSpace(t.Path) == "" {
		return "", false
	}
	return strings.TrimSpace(t.Path), true
}

// Summary returns the first non-blank line of the description.
func (s Skill) Summary() string {
	desc := strings.TrimSpace(s.Description)
	if desc == "" {
		return ""
	}
	return strings.TrimSpace(strings.SplitN(desc, "\n", 2)[0])
}

func decodeSkill(obj map[string]any) Skill {
	id, _ := obj["id"].(string)
	s := Skill{
		ID:          id,
		Title:       scalar(obj["title"]),
		Description: scalar(obj["description"]),
		Tags:        stringList(obj["tags"]),
		Aliases:     stringList(obj["aliases"]),
	}
	if targets, ok := obj["targets"].(map[string]any); ok {
		s.Targets = make(map[string]Target, len(targets))
		for name, v := range targets {
			t, ok := v.(map[string]any)
			if !ok {
				continue
			}
			p, _ := t["path"].(string)
			s.Targets[name] = Target{Path: p}
		}
	}
	return s
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, scalar(item))
	}
	return out
}

func describe(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "<missing>"
	}
	return string(raw)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
