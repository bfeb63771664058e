package suggest

import (
	"reflect"
	"testing"

	"github.com/andywolf/skillsctl/internal/catalog"
)

var skills = []catalog.Skill{
	{
		ID:          "vi-security-guidance",
		Title:       "Security guidance",
		Description: "Secure coding checklist for reviews.",
		Tags:        []string{"security", "review"},
		Aliases:     []string{"security"},
	},
	{
		ID:          "vi-prek",
		Title:       "Pre-commit hooks",
		Description: "Install prek hooks; runs security scanners too.",
		Tags:        []string{"git", "hooks"},
	},
	{
		ID:          "pdf",
		Title:       "PDF tools",
		Description: "Read and write PDF files.",
		Tags:        []string{"documents"},
	},
	{
		ID:    "pdf-forms",
		Title: "PDF forms",
		Tags:  []string{"documents"},
	},
}

func TestScore(t *testing.T) {
	tests := []struct {
		name  string
		query string
		skill catalog.Skill
		want  int
	}{
		{
			name:  "exact id does not also count as prefix",
			query: "pdf",
			skill: skills[2],
			// exact id 100 + title 10 + description 5
			want: 115,
		},
		{
			name:  "id prefix",
			query: "pdf",
			skill: skills[3],
			// prefix 40 + title 10
			want: 50,
		},
		{
			name:  "exact alias plus tokens",
			query: "Security",
			skill: skills[0],
			// alias 100 + tag 20 + title 10 + description 0 ("secure" != "security")
			want: 130,
		},
		{
			name:  "description only",
			query: "scanners",
			skill: skills[1],
			want:  5,
		},
		{
			name:  "tag counted once per token",
			query: "hooks",
			skill: catalog.Skill{ID: "x", Tags: []string{"hooks", "git-hooks"}},
			want:  20,
		},
		{
			name:  "blank query",
			query: "   ",
			skill: skills[0],
			want:  0,
		},
		{
			name:  "no match",
			query: "kubernetes",
			skill: skills[0],
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.query, tt.skill); got != tt.want {
				t.Errorf("Score(%q, %s) = %d, want %d", tt.query, tt.skill.ID, got, tt.want)
			}
		})
	}
}

func TestScore_ExactIDBeatsDescriptionSubstring(t *testing.T) {
	exact := Score("vi-prek", skills[1])
	if exact < WeightExact {
		t.Errorf("Score(exact id) = %d, want >= %d", exact, WeightExact)
	}
	descOnly := catalog.Skill{ID: "other", Description: "mentions vi-prek somewhere"}
	if got := Score("vi-prek", descOnly); got >= exact {
		t.Errorf("description match %d should score below exact id %d", got, exact)
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Rust CLI, pdf-tools!")
	want := []string{"rust", "cli", "pdf", "tools"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}

func TestRank(t *testing.T) {
	got := Rank("pdf", skills, 10)
	var ids []string
	for _, r := range got {
		ids = append(ids, r.Skill.ID)
	}
	if !reflect.DeepEqual(ids, []string{"pdf", "pdf-forms"}) {
		t.Errorf("Rank() ids = %v", ids)
	}

	limited := Rank("pdf", skills, 1)
	if len(limited) != 1 || limited[0].Skill.ID != "pdf" {
		t.Errorf("Rank(limit=1) = %v", limited)
	}
}

func TestRank_TiesBrokenByID(t *testing.T) {
	tied := []catalog.Skill{
		{ID: "zeta", Tags: []string{"docs"}},
		{ID: "alpha", Tags: []string{"docs"}},
		{ID: "mid", Tags: []string{"docs"}},
	}
	got := Rank("docs", tied, 0)
	var ids []string
	for _, r := range got {
		ids = append(ids, r.Skill.ID)
	}
	if !reflect.DeepEqual(ids, []string{"alpha", "mid", "zeta"}) {
		t.Errorf("Rank() ids = %v", ids)
	}
}
