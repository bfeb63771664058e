package reconcile

import (
	"context"
	"os"
	"path"
	"regexp"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/andywolf/skillsctl/internal/config"
	"github.com/andywolf/skillsctl/internal/manifest"
)

// skillMarker is the file that marks a materialized skill directory.
const skillMarker = "SKILL.md"

var semverPattern = regexp.MustCompile(`(\d+\.\d+\.\d+)`)

// StatusReport is a read-only view of the project's skill state.
type StatusReport struct {
	RepoRoot          string   `json:"repo_root" yaml:"repo_root"`
	ConfigPresent     bool     `json:"config_present" yaml:"config_present"`
	RepoURL           string   `json:"repo_url" yaml:"repo_url"`
	Branch            string   `json:"branch" yaml:"branch"`
	SubmodulePresent  bool     `json:"submodule_present" yaml:"submodule_present"`
	SubmoduleDirty    bool     `json:"submodule_dirty" yaml:"submodule_dirty"`
	ManifestPresent   bool     `json:"manifest_present" yaml:"manifest_present"`
	ManifestIDs       []string `json:"manifest_ids" yaml:"manifest_ids"`
	SparsePaths       []string `json:"sparse_paths" yaml:"sparse_paths"`
	MaterializedPaths []string `json:"materialized_paths" yaml:"materialized_paths"`
	GitVersion        string   `json:"git_version" yaml:"git_version"`
}

// Status gathers the current state without changing anything.
func (e *Engine) Status(ctx context.Context) (*StatusReport, error) {
	report := &StatusReport{
		RepoRoot:          e.root,
		ManifestIDs:       []string{},
		SparsePaths:       []string{},
		MaterializedPaths: []string{},
	}

	report.ConfigPresent = config.Exists(e.root)
	if report.ConfigPresent {
		cfg, err := config.Load(e.root)
		if err != nil {
			return nil, err
		}
		report.RepoURL = e.scrubber.Scrub(cfg.RepoURL)
		report.Branch = cfg.Branch
		if report.Branch == "" {
			report.Branch = e.settings.DefaultBranch
		}
	}

	report.SubmodulePresent = e.nested.IsCheckedOut(ctx)
	if report.SubmodulePresent {
		dirty, err := e.nested.IsDirty(ctx)
		if err != nil {
			return nil, err
		}
		report.SubmoduleDirty = dirty

		// sparse-checkout list fails when sparse mode was never enabled
		if paths, err := e.nested.SparsePaths(ctx); err == nil {
			report.SparsePaths = paths
		}
		report.MaterializedPaths = materialized(e.nested.Dir())
	}

	store := manifest.NewStore(e.root)
	report.ManifestPresent = store.Exists()
	if report.ManifestPresent {
		ids, err := store.Load()
		if err != nil {
			return nil, err
		}
		report.ManifestIDs = ids
	}

	if v, err := e.gitVersion(ctx); err == nil {
		report.GitVersion = v
	}
	return report, nil
}

// materialized lists the directories under dir that contain a skill marker.
func materialized(dir string) []string {
	matches, err := doublestar.Glob(os.DirFS(dir), "**/"+skillMarker)
	if err != nil {
		return []string{}
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, path.Dir(m))
	}
	sort.Strings(out)
	return out
}

// ExtractSemver returns the first x.y.z in text, or "".
func ExtractSemver(text string) string {
	return semverPattern.FindString(text)
}
