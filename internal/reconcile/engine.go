// Package reconcile applies a desired set of skill ids to the nested skills
// repository: it resolves the repository selection, guarantees the checkout,
// guards local edits, persists the manifest and narrows the sparse checkout.
package reconcile

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/andywolf/skillsctl/internal/apperr"
	"github.com/andywolf/skillsctl/internal/catalog"
	"github.com/andywolf/skillsctl/internal/config"
	"github.com/andywolf/skillsctl/internal/git"
	"github.com/andywolf/skillsctl/internal/manifest"
	"github.com/andywolf/skillsctl/internal/security"
	"github.com/andywolf/skillsctl/internal/skillid"
	"github.com/andywolf/skillsctl/internal/submodule"
)

// Nested is the nested-repository surface the engine drives. It is
// implemented by *submodule.Manager.
type Nested interface {
	Dir() string
	Exists() bool
	IsCheckedOut(ctx context.Context) bool
	Registration(ctx context.Context) (git.Registration, bool, error)
	Ensure(ctx context.Context, url, branch string) error
	ChangedFiles(ctx context.Context) ([]string, error)
	IsDirty(ctx context.Context) (bool, error)
	SetSparsePaths(ctx context.Context, paths []string, fallback string) error
	SparsePaths(ctx context.Context) ([]string, error)
	Stage(ctx context.Context, relPaths []string) ([]string, error)
}

// Context is the per-invocation resolution of where skills come from.
type Context struct {
	Root    string
	RepoURL string
	Branch  string
	Origin  config.Origin
}

// Deps wires an Engine.
type Deps struct {
	Root     string
	Nested   Nested
	Settings *config.Settings
	Logger   *log.Logger

	// GitVersion reports the external tool version for status and doctor.
	GitVersion func(ctx context.Context) (string, error)
}

// Engine reconciles the manifest with the nested checkout.
type Engine struct {
	root       string
	nested     Nested
	manifest   *manifest.Store
	settings   *config.Settings
	logger     *log.Logger
	scrubber   *security.Scrubber
	gitVersion func(ctx context.Context) (string, error)
}

// New creates an Engine.
func New(d Deps) *Engine {
	logger := d.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	settings := d.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	gitVersion := d.GitVersion
	if gitVersion == nil {
		gitVersion = func(context.Context) (string, error) { return "", nil }
	}
	return &Engine{
		root:       d.Root,
		nested:     d.Nested,
		manifest:   manifest.NewStore(d.Root),
		settings:   settings,
		logger:     logger,
		scrubber:   security.NewScrubber(),
		gitVersion: gitVersion,
	}
}

// Root returns the host project root.
func (e *Engine) Root() string {
	return e.root
}

// ResolveContext walks the repository precedence ladder.
func (e *Engine) ResolveContext(ctx context.Context, flagURL, flagBranch string) (Context, error) {
	ladder := config.NewLadder(config.LadderInput{
		FlagRepoURL: flagURL,
		FlagBranch:  flagBranch,
		ProjectRoot: e.root,
		Registration: func() (string, string, error) {
			reg, ok, err := e.nested.Registration(ctx)
			if err != nil || !ok {
				return "", "", err
			}
			return reg.URL, reg.Branch, nil
		},
		Settings: e.settings,
	})
	res, err := ladder.Resolve()
	if err != nil {
		return Context{}, err
	}
	e.logger.Printf("Using skills repository %s (branch %s, from %s)",
		e.scrubber.Scrub(res.RepoURL), res.Branch, res.Origin)
	return Context{Root: e.root, RepoURL: res.RepoURL, Branch: res.Branch, Origin: res.Origin}, nil
}

// Result describes a completed reconciliation.
type Result struct {
	Context     Context
	IDs         []string
	SparsePaths []string
	Staged      []string
}

// Apply makes ids the selected skill set.
func (e *Engine) Apply(ctx context.Context, rc Context, ids []string, stage bool) (*Result, error) {
	if err := e.nested.Ensure(ctx, rc.RepoURL, rc.Branch); err != nil {
		return nil, err
	}

	if err := e.persistConfigOnce(ctx, rc); err != nil {
		return nil, err
	}

	if err := e.guardDirty(ctx); err != nil {
		return nil, err
	}

	if err := catalog.EnsurePresent(ctx, e.nested.Dir(), e.nested); err != nil {
		return nil, err
	}
	cat, err := catalog.Load(e.nested.Dir())
	if err != nil {
		return nil, err
	}
	if err := cat.Validate(ids); err != nil {
		return nil, err
	}

	// resolve before writing so a missing target path leaves the manifest untouched
	paths, err := cat.ResolvePaths(ids, e.settings.Target)
	if err != nil {
		return nil, err
	}

	if err := e.manifest.Write(ids); err != nil {
		return nil, err
	}
	e.logger.Printf("Wrote %s (%d skill(s))", manifest.RelPath, len(ids))

	if err := e.nested.SetSparsePaths(ctx, paths, catalog.RootPath); err != nil {
		return nil, err
	}
	e.logger.Printf("Sparse checkout set to %s", strings.Join(paths, ", "))

	result := &Result{Context: rc, IDs: skillid.Canonical(ids), SparsePaths: paths}
	if stage {
		staged, err := e.nested.Stage(ctx, StagedArtifacts())
		if err != nil {
			return nil, err
		}
		result.Staged = staged
	}
	return result, nil
}

// StagedArtifacts lists the project-owned paths staged by --stage.
func StagedArtifacts() []string {
	return []string{".gitmodules", config.RelPath, manifest.RelPath, submodule.RelPath}
}

// persistConfigOnce records the repository selection the first time a
// project is reconciled, preferring what .gitmodules actually says.
func (e *Engine) persistConfigOnce(ctx context.Context, rc Context) error {
	if config.Exists(e.root) {
		return nil
	}
	cfg := config.ProjectConfig{RepoURL: rc.RepoURL, Branch: rc.Branch}
	reg, ok, err := e.nested.Registration(ctx)
	if err != nil {
		return err
	}
	if ok {
		if reg.URL != "" {
			cfg.RepoURL = reg.URL
		}
		if reg.Branch != "" {
			cfg.Branch = reg.Branch
		}
	}
	if err := config.Write(e.root, cfg); err != nil {
		return err
	}
	e.logger.Printf("Wrote %s", config.RelPath)
	return nil
}

// guardDirty refuses to touch the sparse selection while the nested
// checkout has local edits.
func (e *Engine) guardDirty(ctx context.Context) error {
	if !e.nested.IsCheckedOut(ctx) {
		return nil
	}
	files, err := e.nested.ChangedFiles(ctx)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	var sb strings.Builder
	for _, f := range files {
		sb.WriteString("  - ")
		sb.WriteString(f)
		sb.WriteString("\n")
	}
	sb.WriteString("Fix: commit/stash/reset changes inside " + submodule.RelPath + ", then retry.")
	return apperr.Preconditionf("refusing to change sparse-checkout selection because %s is dirty", submodule.RelPath).
		WithDetail(sb.String())
}

// LoadCatalog materializes and parses the catalog without changing the
// selection beyond what is needed to read it.
func (e *Engine) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	// an uninitialized submodule directory resolves to the host work tree
	if !e.nested.IsCheckedOut(ctx) {
		return nil, apperr.Preconditionf("missing %s checkout; run `skillsctl bootstrap` or `skillsctl sync` first", submodule.RelPath)
	}
	if err := catalog.EnsurePresent(ctx, e.nested.Dir(), e.nested); err != nil {
		return nil, err
	}
	return catalog.Load(e.nested.Dir())
}
