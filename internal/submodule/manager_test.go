package submodule

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/andywolf/skillsctl/internal/apperr"
	"github.com/andywolf/skillsctl/internal/git"
)

type fakeGit struct {
	registered bool
	reg        git.Registration
	isRepo     bool
	addErr     error

	changed   []string
	calls     []string
	sparseSet []string
	added     []string
}

func (f *fakeGit) Registration(_ context.Context, _, _ string) (git.Registration, bool, error) {
	f.calls = append(f.calls, "registration")
	return f.reg, f.registered, nil
}

func (f *fakeGit) AddSubmodule(_ context.Context, _, url, branch, relPath string, allowFile bool) error {
	f.calls = append(f.calls, "add "+url+" "+branch+" "+relPath+" "+boolStr(allowFile))
	return f.addErr
}

func (f *fakeGit) UpdateSubmodule(_ context.Context, _, relPath string, allowFile bool) error {
	f.calls = append(f.calls, "update "+relPath+" "+boolStr(allowFile))
	return nil
}

func (f *fakeGit) IsRepo(_ context.Context, _ string) bool { return f.isRepo }

func (f *fakeGit) ChangedFiles(_ context.Context, _ string) ([]string, error) { return f.changed, nil }

func (f *fakeGit) IsDirty(_ context.Context, _ string) (bool, error) { return len(f.changed) > 0, nil }

func (f *fakeGit) SparseInit(_ context.Context, _ string) error {
	f.calls = append(f.calls, "sparse-init")
	return nil
}

func (f *fakeGit) SparseSet(_ context.Context, _ string, paths []string) error {
	f.calls = append(f.calls, "sparse-set")
	f.sparseSet = paths
	return nil
}

func (f *fakeGit) SparseList(_ context.Context, _ string) ([]string, error) { return f.sparseSet, nil }

func (f *fakeGit) Add(_ context.Context, _ string, paths ...string) error {
	f.added = append(f.added, paths...)
	return nil
}

func boolStr(b bool) string {
	if b {
		return "allow-file"
	}
	return "no-file"
}

func TestManager_EnsureRegistered(t *testing.T) {
	g := &fakeGit{registered: true}
	m := NewManager(t.TempDir(), g)

	if err := m.Ensure(context.Background(), "git@example.com:org/skills.git", "main"); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	want := []string{"registration", "update .codex/skills no-file"}
	if !reflect.DeepEqual(g.calls, want) {
		t.Errorf("calls = %v, want %v", g.calls, want)
	}
}

func TestManager_EnsureFresh(t *testing.T) {
	root := t.TempDir()
	src := t.TempDir() // existing local path ⇒ file protocol allowed
	g := &fakeGit{}
	m := NewManager(root, g)

	if err := m.Ensure(context.Background(), src, "main"); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	want := []string{
		"registration",
		"add " + src + " main .codex/skills allow-file",
		"update .codex/skills allow-file",
	}
	if !reflect.DeepEqual(g.calls, want) {
		t.Errorf("calls = %v, want %v", g.calls, want)
	}
	if _, err := os.Stat(filepath.Join(root, ".codex")); err != nil {
		t.Errorf("parent directory not created: %v", err)
	}
}

func TestManager_EnsureAddFailure(t *testing.T) {
	boom := errors.New("boom")
	g := &fakeGit{addErr: boom}
	m := NewManager(t.TempDir(), g)

	if err := m.Ensure(context.Background(), "https://example.com/x.git", "main"); !errors.Is(err, boom) {
		t.Errorf("Ensure() error = %v, want boom", err)
	}
	for _, c := range g.calls {
		if strings.HasPrefix(c, "update") {
			t.Error("update must not run after a failed add")
		}
	}
}

func TestManager_EnsureForeignDirectory(t *testing.T) {
	tests := []struct {
		name    string
		isRepo  bool
		wantMsg string
	}{
		{name: "unregistered repository", isRepo: true, wantMsg: "not registered as a submodule"},
		{name: "plain directory", isRepo: false, wantMsg: "not a git repo/submodule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			dir := filepath.Join(root, RelPath)
			if err := os.MkdirAll(dir, 0755); err != nil {
				t.Fatal(err)
			}
			marker := filepath.Join(dir, "keep.txt")
			if err := os.WriteFile(marker, []byte("mine"), 0644); err != nil {
				t.Fatal(err)
			}

			g := &fakeGit{isRepo: tt.isRepo}
			err := NewManager(root, g).Ensure(context.Background(), "https://example.com/x.git", "main")
			if !apperr.Is(err, apperr.KindPrecondition) {
				t.Fatalf("Ensure() error = %v, want precondition error", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
			if _, err := os.Stat(marker); err != nil {
				t.Error("foreign directory content must be left alone")
			}
			if len(g.calls) != 1 {
				t.Errorf("no git mutation expected, got %v", g.calls)
			}
		})
	}
}

func TestManager_EnsureRejectsBadInput(t *testing.T) {
	g := &fakeGit{}
	m := NewManager(t.TempDir(), g)

	if err := m.Ensure(context.Background(), "--upload-pack=x", "main"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Ensure() bad url error = %v", err)
	}
	if err := m.Ensure(context.Background(), "https://example.com/x.git", "-b"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Ensure() bad branch error = %v", err)
	}
	if len(g.calls) != 0 {
		t.Errorf("git must not run on invalid input, got %v", g.calls)
	}
}

func TestManager_SetSparsePaths(t *testing.T) {
	g := &fakeGit{isRepo: true}
	m := NewManager(t.TempDir(), g)
	if err := os.MkdirAll(m.Dir(), 0755); err != nil {
		t.Fatal(err)
	}

	if err := m.SetSparsePaths(context.Background(), []string{"/skills/b/", "catalog", "skills/a", "skills/b"}, "catalog"); err != nil {
		t.Fatalf("SetSparsePaths() error = %v", err)
	}
	if !reflect.DeepEqual(g.calls, []string{"sparse-init", "sparse-set"}) {
		t.Errorf("calls = %v", g.calls)
	}
	want := []string{"catalog", "skills/a", "skills/b"}
	if !reflect.DeepEqual(g.sparseSet, want) {
		t.Errorf("sparse set = %v, want %v", g.sparseSet, want)
	}
}

func TestManager_SetSparsePathsRequiresCheckout(t *testing.T) {
	tests := []struct {
		name   string
		mkdir  bool
		isRepo bool
	}{
		{name: "missing directory", mkdir: false, isRepo: true},
		{name: "uninitialized directory", mkdir: true, isRepo: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &fakeGit{isRepo: tt.isRepo}
			m := NewManager(t.TempDir(), g)
			if tt.mkdir {
				if err := os.MkdirAll(m.Dir(), 0755); err != nil {
					t.Fatal(err)
				}
			}

			err := m.SetSparsePaths(context.Background(), []string{"catalog"}, "catalog")
			if !apperr.Is(err, apperr.KindPrecondition) {
				t.Fatalf("SetSparsePaths() error = %v, want precondition", err)
			}
			if len(g.calls) != 0 {
				t.Errorf("git must not run outside the nested checkout, got %v", g.calls)
			}
		})
	}
}

func TestManager_IsDirty(t *testing.T) {
	g := &fakeGit{changed: []string{"skills/a/SKILL.md"}}
	m := NewManager(t.TempDir(), g)

	dirty, err := m.IsDirty(context.Background())
	if err != nil {
		t.Fatalf("IsDirty() error = %v", err)
	}
	if !dirty {
		t.Error("IsDirty() = false, want true")
	}
}

func TestNormalizePaths_Fallback(t *testing.T) {
	if got := NormalizePaths([]string{" ", "/"}, "catalog"); !reflect.DeepEqual(got, []string{"catalog"}) {
		t.Errorf("NormalizePaths() = %v", got)
	}
	if got := NormalizePaths(nil, ""); len(got) != 0 {
		t.Errorf("NormalizePaths(nil, \"\") = %v", got)
	}
}

func TestManager_StageSkipsMissing(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".gitmodules"), []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	g := &fakeGit{}
	m := NewManager(root, g)

	staged, err := m.Stage(context.Background(), []string{".gitmodules", ".codex/skills.manifest"})
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	if !reflect.DeepEqual(staged, []string{".gitmodules"}) || !reflect.DeepEqual(g.added, staged) {
		t.Errorf("Stage() = %v, added %v", staged, g.added)
	}

	g.added = nil
	staged, err = NewManager(t.TempDir(), g).Stage(context.Background(), []string{".gitmodules"})
	if err != nil || staged != nil || g.added != nil {
		t.Errorf("Stage() with nothing present = (%v, %v), added %v", staged, err, g.added)
	}
}

func TestIsLocalURL(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		url  string
		want bool
	}{
		{url: "file:///srv/skills.git", want: true},
		{url: dir, want: true},
		{url: "git@github.com:t3chn/codex-skills.git", want: false},
		{url: "https://github.com/org/skills.git", want: false},
		{url: filepath.Join(dir, "missing"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsLocalURL(tt.url); got != tt.want {
				t.Errorf("IsLocalURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
