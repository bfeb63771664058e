package reconcile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andywolf/skillsctl/internal/catalog"
	"github.com/andywolf/skillsctl/internal/config"
	"github.com/andywolf/skillsctl/internal/manifest"
	"github.com/andywolf/skillsctl/internal/submodule"
)

// Next steps reported by Doctor.
const (
	StepGitInit         = "git_init"
	StepSkillsBootstrap = "skills_bootstrap"
	StepSkillsInstall   = "skills_install"
)

// DoctorReport describes whether the project is ready for skill management
// and what to do next. Pointer fields are nil when the check does not apply.
type DoctorReport struct {
	GitRepo          bool     `json:"git_repo" yaml:"git_repo"`
	RepoRoot         string   `json:"repo_root" yaml:"repo_root"`
	GitVersion       *string  `json:"git_version" yaml:"git_version"`
	CodexDirPresent  bool     `json:"codex_dir_present" yaml:"codex_dir_present"`
	ConfigPresent    bool     `json:"codex_config_present" yaml:"codex_config_present"`
	ConfigRepoURL    *string  `json:"codex_repo_url" yaml:"codex_repo_url"`
	ConfigBranch     *string  `json:"codex_branch" yaml:"codex_branch"`
	EffectiveRepoURL *string  `json:"effective_repo_url" yaml:"effective_repo_url"`
	EffectiveBranch  *string  `json:"effective_branch" yaml:"effective_branch"`
	SkillsPresent    bool     `json:"codex_skills_present" yaml:"codex_skills_present"`
	SkillsRegistered bool     `json:"codex_skills_registered" yaml:"codex_skills_registered"`
	SkillsDirty      *bool    `json:"codex_skills_dirty" yaml:"codex_skills_dirty"`
	SparsePaths      []string `json:"codex_sparse_paths" yaml:"codex_sparse_paths"`
	CatalogPresent   *bool    `json:"codex_catalog_present" yaml:"codex_catalog_present"`
	ManifestPresent  bool     `json:"skills_manifest_present" yaml:"skills_manifest_present"`
	ManifestIDs      []string `json:"skills_manifest_ids" yaml:"skills_manifest_ids"`
	SuggestSkills    []string `json:"suggest_skills" yaml:"suggest_skills"`
	NextSteps        []string `json:"next_steps" yaml:"next_steps"`
}

// Doctor inspects the environment. Unlike the mutating commands it never
// fails on a broken project; problems are reported as fields instead.
// gitRepo tells whether the engine root is inside a git work tree.
func (e *Engine) Doctor(ctx context.Context, gitRepo bool) *DoctorReport {
	report := &DoctorReport{
		GitRepo:     gitRepo,
		RepoRoot:    e.root,
		ManifestIDs: []string{},
		NextSteps:   []string{},
	}

	if raw, err := e.gitVersion(ctx); err == nil {
		if v := ExtractSemver(raw); v != "" {
			report.GitVersion = &v
		}
	}

	report.CodexDirPresent = dirExists(filepath.Join(e.root, filepath.Dir(submodule.RelPath)))
	report.ConfigPresent = config.Exists(e.root)
	if report.ConfigPresent {
		if cfg, err := config.Load(e.root); err == nil {
			report.ConfigRepoURL = optional(e.scrubber.Scrub(cfg.RepoURL))
			report.ConfigBranch = optional(cfg.Branch)
		}
	}

	if report.GitVersion != nil && gitRepo {
		if rc, err := e.ResolveContext(ctx, "", ""); err == nil {
			report.EffectiveRepoURL = optional(e.scrubber.Scrub(rc.RepoURL))
			report.EffectiveBranch = optional(rc.Branch)
		}
	}

	if gitRepo {
		report.SkillsPresent = e.nested.IsCheckedOut(ctx)
		if _, ok, err := e.nested.Registration(ctx); err == nil {
			report.SkillsRegistered = ok
		}
	}
	if report.SkillsPresent {
		if dirty, err := e.nested.IsDirty(ctx); err == nil {
			report.SkillsDirty = &dirty
		}
		if paths, err := e.nested.SparsePaths(ctx); err == nil {
			report.SparsePaths = paths
		}
		present := fileExists(filepath.Join(e.nested.Dir(), catalog.RelPath))
		report.CatalogPresent = &present
	}

	store := manifest.NewStore(e.root)
	report.ManifestPresent = store.Exists()
	if report.ManifestPresent {
		if ids, err := store.Load(); err == nil {
			report.ManifestIDs = ids
		}
	}

	installed := make(map[string]bool, len(report.ManifestIDs))
	for _, id := range report.ManifestIDs {
		installed[id] = true
	}
	report.SuggestSkills = []string{}
	for _, id := range e.settings.BaselineSkills {
		if !installed[id] {
			report.SuggestSkills = append(report.SuggestSkills, id)
		}
	}

	if !gitRepo {
		report.NextSteps = append(report.NextSteps, StepGitInit)
	}
	if gitRepo && !report.SkillsRegistered {
		report.NextSteps = append(report.NextSteps, StepSkillsBootstrap)
	}
	if gitRepo && len(report.SuggestSkills) > 0 {
		report.NextSteps = append(report.NextSteps, StepSkillsInstall)
	}
	return report
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
