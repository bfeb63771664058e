// Package submodule manages the nested skills repository checked out inside
// the host project: registration, bounded-depth checkout, sparse selection
// and staging of project-owned artifacts.
package submodule

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andywolf/skillsctl/internal/apperr"
	"github.com/andywolf/skillsctl/internal/git"
	"github.com/andywolf/skillsctl/internal/security"
)

// RelPath is where the nested repository lives inside the host project.
const RelPath = ".codex/skills"

// Git is the subset of git.Client the manager drives.
type Git interface {
	Registration(ctx context.Context, root, relPath string) (git.Registration, bool, error)
	AddSubmodule(ctx context.Context, root, url, branch, relPath string, allowFileProtocol bool) error
	UpdateSubmodule(ctx context.Context, root, relPath string, allowFileProtocol bool) error
	IsRepo(ctx context.Context, dir string) bool
	ChangedFiles(ctx context.Context, dir string) ([]string, error)
	IsDirty(ctx context.Context, dir string) (bool, error)
	SparseInit(ctx context.Context, dir string) error
	SparseSet(ctx context.Context, dir string, paths []string) error
	SparseList(ctx context.Context, dir string) ([]string, error)
	Add(ctx context.Context, root string, paths ...string) error
}

// Manager owns the nested repository at RelPath under Root.
type Manager struct {
	root string
	git  Git
}

// NewManager returns a Manager for the project rooted at root.
func NewManager(root string, g Git) *Manager {
	return &Manager{root: root, git: g}
}

// Root returns the host project root.
func (m *Manager) Root() string {
	return m.root
}

// Dir returns the absolute path of the nested checkout.
func (m *Manager) Dir() string {
	return filepath.Join(m.root, RelPath)
}

// Exists reports whether the nested checkout directory is present.
func (m *Manager) Exists() bool {
	info, err := os.Stat(m.Dir())
	return err == nil && info.IsDir()
}

// IsCheckedOut reports whether the nested directory is a git work tree.
func (m *Manager) IsCheckedOut(ctx context.Context) bool {
	return m.Exists() && m.git.IsRepo(ctx, m.Dir())
}

// Registration returns the .gitmodules entry for the nested path.
func (m *Manager) Registration(ctx context.Context) (git.Registration, bool, error) {
	return m.git.Registration(ctx, m.root, RelPath)
}

// Ensure guarantees the nested repository is registered and checked out.
//
// A registered repository is simply updated. An unregistered path that
// already exists on disk is never adopted or removed; the caller gets a
// precondition error instead.
func (m *Manager) Ensure(ctx context.Context, url, branch string) error {
	if err := security.ValidateRepoURL(url); err != nil {
		return err
	}
	if err := security.ValidateGitRef(branch); err != nil {
		return err
	}
	allowFile := IsLocalURL(url)

	_, registered, err := m.Registration(ctx)
	if err != nil {
		return err
	}
	if registered {
		return m.git.UpdateSubmodule(ctx, m.root, RelPath, allowFile)
	}

	if _, err := os.Stat(m.Dir()); err == nil {
		if m.git.IsRepo(ctx, m.Dir()) {
			return apperr.Preconditionf("%s exists but is not registered as a submodule in .gitmodules", RelPath).
				WithDetail("Fix: register it with `git submodule add`, or move it aside and retry.")
		}
		return apperr.Preconditionf("%s exists but is not a git repo/submodule", RelPath).
			WithDetail("Fix: move the directory aside and retry.")
	}

	if err := os.MkdirAll(filepath.Dir(m.Dir()), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(RelPath), err)
	}
	if err := m.git.AddSubmodule(ctx, m.root, url, branch, RelPath, allowFile); err != nil {
		return err
	}
	return m.git.UpdateSubmodule(ctx, m.root, RelPath, allowFile)
}

// ChangedFiles lists uncommitted modifications inside the nested checkout.
func (m *Manager) ChangedFiles(ctx context.Context) ([]string, error) {
	return m.git.ChangedFiles(ctx, m.Dir())
}

// IsDirty reports whether the nested checkout has uncommitted modifications.
func (m *Manager) IsDirty(ctx context.Context) (bool, error) {
	return m.git.IsDirty(ctx, m.Dir())
}

// SetSparsePaths replaces the sparse selection. Paths are trimmed of
// surrounding slashes, deduplicated and sorted; an empty selection collapses
// to fallback. The nested directory must be its own work tree, otherwise git
// would apply the selection to the host repository.
func (m *Manager) SetSparsePaths(ctx context.Context, paths []string, fallback string) error {
	if !m.IsCheckedOut(ctx) {
		return apperr.Preconditionf("%s is not a checked-out git repository", RelPath).
			WithDetail("Fix: run `skillsctl sync` to initialize the submodule, then retry.")
	}
	if err := m.git.SparseInit(ctx, m.Dir()); err != nil {
		return err
	}
	return m.git.SparseSet(ctx, m.Dir(), NormalizePaths(paths, fallback))
}

// SparsePaths returns the active sparse selection.
func (m *Manager) SparsePaths(ctx context.Context) ([]string, error) {
	return m.git.SparseList(ctx, m.Dir())
}

// Stage adds the existing entries of relPaths (relative to Root) to the index.
func (m *Manager) Stage(ctx context.Context, relPaths []string) ([]string, error) {
	var existing []string
	for _, p := range relPaths {
		if _, err := os.Stat(filepath.Join(m.root, p)); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil, nil
	}
	if err := m.git.Add(ctx, m.root, existing...); err != nil {
		return nil, err
	}
	return existing, nil
}

// IsLocalURL reports whether url points at the local filesystem, which git
// refuses to fetch from in submodules unless the file protocol is allowed.
func IsLocalURL(url string) bool {
	if strings.HasPrefix(url, "file://") {
		return true
	}
	expanded := url
	if strings.HasPrefix(expanded, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			expanded = filepath.Join(home, expanded[2:])
		}
	}
	_, err := os.Stat(expanded)
	return err == nil
}
