package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/andywolf/skillsctl/internal/apperr"
	"github.com/spf13/viper"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    ProjectConfig
		wantErr bool
	}{
		{
			name:    "full config",
			content: `{"repo_url": "https://example.com/skills.git", "branch": "dev"}`,
			want:    ProjectConfig{RepoURL: "https://example.com/skills.git", Branch: "dev"},
		},
		{
			name:    "whitespace trimmed",
			content: `{"repo_url": "  /tmp/src  ", "branch": " "}`,
			want:    ProjectConfig{RepoURL: "/tmp/src"},
		},
		{
			name:    "wrong field types ignored",
			content: `{"repo_url": 42, "branch": ["main"]}`,
			want:    ProjectConfig{},
		},
		{
			name:    "array is not an object",
			content: `["https://example.com"]`,
			wantErr: true,
		},
		{
			name:    "null is not an object",
			content: `null`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			content: `{"repo_url": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeFile(t, Path(root), tt.content)

			got, err := Load(root)
			if tt.wantErr {
				if !apperr.Is(err, apperr.KindValidation) {
					t.Fatalf("Load() error = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != (ProjectConfig{}) {
		t.Errorf("Load() = %+v, want zero", cfg)
	}
	if Exists(root) {
		t.Error("Exists() = true for missing file")
	}
}

func TestWriteThenLoad(t *testing.T) {
	root := t.TempDir()
	want := ProjectConfig{RepoURL: "git@example.com:org/skills.git", Branch: "main"}
	if err := Write(root, want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	raw, err := os.ReadFile(Path(root))
	if err != nil {
		t.Fatal(err)
	}
	wantRaw := "{\n  \"repo_url\": \"git@example.com:org/skills.git\",\n  \"branch\": \"main\"\n}\n"
	if string(raw) != wantRaw {
		t.Errorf("file content = %q, want %q", raw, wantRaw)
	}

	got, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	v := viper.New()
	Register(v)

	s, err := LoadSettings(v)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.DefaultRepoURL != DefaultRepoURL {
		t.Errorf("DefaultRepoURL = %q, want %q", s.DefaultRepoURL, DefaultRepoURL)
	}
	if s.DefaultBranch != DefaultBranch {
		t.Errorf("DefaultBranch = %q, want %q", s.DefaultBranch, DefaultBranch)
	}
	if s.Target != DefaultTarget {
		t.Errorf("Target = %q, want %q", s.Target, DefaultTarget)
	}
	if len(s.BaselineSkills) == 0 {
		t.Error("BaselineSkills should have a default")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadSettings_Env(t *testing.T) {
	t.Setenv("SKILLS_REPO_URL", "https://env.example.com/skills.git")
	t.Setenv("SKILLS_REPO_BRANCH", "env-branch")

	v := viper.New()
	Register(v)

	s, err := LoadSettings(v)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.EnvRepoURL != "https://env.example.com/skills.git" {
		t.Errorf("EnvRepoURL = %q", s.EnvRepoURL)
	}
	if s.EnvBranch != "env-branch" {
		t.Errorf("EnvBranch = %q", s.EnvBranch)
	}
}

func TestSettings_Validate(t *testing.T) {
	base := func() *Settings {
		s := &Settings{}
		applyDefaults(s)
		return s
	}

	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(s *Settings) {}},
		{name: "bad branch", mutate: func(s *Settings) { s.DefaultBranch = "-x" }, wantErr: true},
		{name: "bad url", mutate: func(s *Settings) { s.DefaultRepoURL = "--upload-pack=x" }, wantErr: true},
		{name: "bad target", mutate: func(s *Settings) { s.Target = "Codex" }, wantErr: true},
		{name: "bad baseline", mutate: func(s *Settings) { s.BaselineSkills = []string{"OK"} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
