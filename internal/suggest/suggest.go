// Package suggest ranks catalog skills against a free-text query.
package suggest

import (
	"regexp"
	"sort"
	"strings"

	"github.com/andywolf/skillsctl/internal/catalog"
)

// Weights for each kind of match.
const (
	WeightExact       = 100
	WeightPrefix      = 40
	WeightTag         = 20
	WeightTitle       = 10
	WeightDescription = 5
)

var tokenSplit = regexp.MustCompile(`[^a-z0-9]+`)

// Result is a scored skill.
type Result struct {
	Skill catalog.Skill
	Score int
}

// Tokens returns the alphanumeric runs of the lower-cased query.
func Tokens(query string) []string {
	var out []string
	for _, t := range tokenSplit.Split(strings.ToLower(query), -1) {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Score returns how well s matches query. Zero means no match.
func Score(query string, s catalog.Skill) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return 0
	}

	score := 0
	if id := strings.ToLower(s.ID); id != "" {
		score += matchWeight(q, id)
	}
	for _, alias := range s.Aliases {
		score += matchWeight(q, strings.ToLower(alias))
	}

	title := strings.ToLower(s.Title)
	desc := strings.ToLower(s.Description)
	for _, tok := range Tokens(query) {
		for _, tag := range s.Tags {
			if strings.Contains(strings.ToLower(tag), tok) {
				score += WeightTag
				break
			}
		}
		if strings.Contains(title, tok) {
			score += WeightTitle
		}
		if strings.Contains(desc, tok) {
			score += WeightDescription
		}
	}
	return score
}

// matchWeight scores an exact match, or else a prefix match.
func matchWeight(q, candidate string) int {
	switch {
	case q == candidate:
		return WeightExact
	case strings.HasPrefix(candidate, q):
		return WeightPrefix
	default:
		return 0
	}
}

// Rank scores every skill, drops non-matches and returns at most limit
// results ordered by descending score then ascending id. A limit <= 0 means
// no truncation.
func Rank(query string, skills []catalog.Skill, limit int) []Result {
	var results []Result
	for _, s := range skills {
		if score := Score(query, s); score > 0 {
			results = append(results, Result{Skill: s, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Skill.ID < results[j].Skill.ID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
