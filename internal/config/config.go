// Package config holds the persisted project config (.codex/skills.config.json),
// the tool settings loaded through viper, and the precedence ladder that turns
// both into an effective repository URL and branch.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andywolf/skillsctl/internal/apperr"
	"github.com/andywolf/skillsctl/internal/security"
	"github.com/andywolf/skillsctl/internal/skillid"
	"github.com/spf13/viper"
)

// RelPath is the project config location relative to the project root.
const RelPath = ".codex/skills.config.json"

const (
	// DefaultRepoURL is the skills repository used when nothing else is configured.
	DefaultRepoURL = "git@github.com:t3chn/codex-skills.git"
	// DefaultBranch is used whenever a source yields a URL but no branch.
	DefaultBranch = "main"
	// DefaultTarget selects the catalog target whose paths are checked out.
	DefaultTarget = "codex"
)

// ProjectConfig is the persisted repository selection for a project.
type ProjectConfig struct {
	RepoURL string `json:"repo_url"`
	Branch  string `json:"branch"`
}

// Path returns the config file path under projectRoot.
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, RelPath)
}

// Exists reports whether the config file is present under projectRoot.
func Exists(projectRoot string) bool {
	_, err := os.Stat(Path(projectRoot))
	return err == nil
}

// Load reads the project config. A missing file yields a zero ProjectConfig.
// Non-string or blank fields are treated as absent.
func Load(projectRoot string) (ProjectConfig, error) {
	path := Path(projectRoot)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ProjectConfig{}, nil
		}
		return ProjectConfig{}, fmt.Errorf("failed to read config: %w", err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return ProjectConfig{}, apperr.Validationf("invalid JSON (expected object): %s", RelPath)
		}
		return ProjectConfig{}, apperr.Validationf("invalid JSON: %s (%v)", RelPath, err)
	}
	if data == nil {
		return ProjectConfig{}, apperr.Validationf("invalid JSON (expected object): %s", RelPath)
	}

	return ProjectConfig{
		RepoURL: stringField(data, "repo_url"),
		Branch:  stringField(data, "branch"),
	}, nil
}

// Write persists cfg, creating the parent directory if needed.
func Write(projectRoot string, cfg ProjectConfig) error {
	path := Path(projectRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func stringField(data map[string]any, key string) string {
	s, ok := data[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Settings are the tool-level defaults, read from .skillsctl.yaml and
// SKILLSCTL_* environment variables.
type Settings struct {
	DefaultRepoURL string   `mapstructure:"default_repo_url"`
	DefaultBranch  string   `mapstructure:"default_branch"`
	Target         string   `mapstructure:"target"`
	BaselineSkills []string `mapstructure:"baseline_skills"`
	Verbose        bool     `mapstructure:"verbose"`

	// EnvRepoURL and EnvBranch come from SKILLS_REPO_URL / SKILLS_REPO_BRANCH.
	EnvRepoURL string `mapstructure:"skills_repo_url"`
	EnvBranch  string `mapstructure:"skills_repo_branch"`
}

// Register sets defaults and environment bindings on v so that Unmarshal
// sees every key.
func Register(v *viper.Viper) {
	v.SetDefault("default_repo_url", DefaultRepoURL)
	v.SetDefault("default_branch", DefaultBranch)
	v.SetDefault("target", DefaultTarget)
	v.SetDefault("baseline_skills", DefaultBaselineSkills)
	v.SetDefault("verbose", false)

	_ = v.BindEnv("skills_repo_url", "SKILLS_REPO_URL")
	_ = v.BindEnv("skills_repo_branch", "SKILLS_REPO_BRANCH")
}

// LoadSettings unmarshals settings from v and applies defaults.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	applyDefaults(s)
	return s, nil
}

// DefaultBaselineSkills is the small, stable set doctor recommends.
var DefaultBaselineSkills = []string{"vi-security-guidance", "vi-prek", "vi-beads", "vi-feature-dev"}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() *Settings {
	s := &Settings{BaselineSkills: append([]string(nil), DefaultBaselineSkills...)}
	applyDefaults(s)
	return s
}

// applyDefaults fills blank fields.
func applyDefaults(s *Settings) {
	s.DefaultRepoURL = strings.TrimSpace(s.DefaultRepoURL)
	s.DefaultBranch = strings.TrimSpace(s.DefaultBranch)
	s.Target = strings.TrimSpace(s.Target)
	s.EnvRepoURL = strings.TrimSpace(s.EnvRepoURL)
	s.EnvBranch = strings.TrimSpace(s.EnvBranch)

	if s.DefaultRepoURL == "" {
		s.DefaultRepoURL = DefaultRepoURL
	}
	if s.DefaultBranch == "" {
		s.DefaultBranch = DefaultBranch
	}
	if s.Target == "" {
		s.Target = DefaultTarget
	}
}

// Validate checks the settings values.
func (s *Settings) Validate() error {
	if err := security.ValidateRepoURL(s.DefaultRepoURL); err != nil {
		return fmt.Errorf("default_repo_url: %w", err)
	}
	if err := security.ValidateGitRef(s.DefaultBranch); err != nil {
		return fmt.Errorf("default_branch: %w", err)
	}
	if !skillid.Pattern.MatchString(s.Target) {
		return apperr.Validationf("invalid target: %q (expected [a-z0-9-]+)", s.Target)
	}
	if _, err := skillid.Validate(s.BaselineSkills); err != nil {
		return fmt.Errorf("baseline_skills: %w", err)
	}
	return nil
}
