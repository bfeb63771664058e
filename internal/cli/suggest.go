package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/andywolf/skillsctl/internal/apperr"
	"github.com/andywolf/skillsctl/internal/suggest"
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <query>",
	Short: "Suggest skills for a query using catalog scoring",
	Long: `Rank catalog skills against a free-text query. Ids and aliases weigh the
most, then tags, titles and descriptions.

Examples:
  skillsctl suggest pdf
  skillsctl suggest "rust cli" --limit 3 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	addOutputFlags(suggestCmd)
	suggestCmd.Flags().Int("limit", 10, "maximum number of results")
}

// suggestion is the machine-readable form of a ranked result.
type suggestion struct {
	ID          string   `json:"id" yaml:"id"`
	Score       int      `json:"score" yaml:"score"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
}

func runSuggest(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	limit, err := suggestLimit(cmd)
	if err != nil {
		return err
	}

	s, err := newSession(cmd.Context(), true)
	if err != nil {
		return err
	}
	cat, err := s.engine.LoadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results := suggest.Rank(query, cat.Skills, limit)

	if format != formatText {
		return writeMachine(cmd.OutOrStdout(), format, toSuggestions(results))
	}
	printSuggestions(cmd.OutOrStdout(), results)
	return nil
}

func suggestLimit(cmd *cobra.Command) (int, error) {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return 0, err
	}
	if limit < 1 {
		return 0, apperr.Validationf("invalid --limit: %d (must be >= 1)", limit)
	}
	return limit, nil
}

func toSuggestions(results []suggest.Result) []suggestion {
	out := make([]suggestion, 0, len(results))
	for _, r := range results {
		tags := r.Skill.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, suggestion{
			ID:          r.Skill.ID,
			Score:       r.Score,
			Title:       r.Skill.Title,
			Description: r.Skill.Description,
			Tags:        tags,
		})
	}
	return out
}

func printSuggestions(w io.Writer, results []suggest.Result) {
	st := newStyles(w)
	for _, r := range results {
		fmt.Fprintf(w, "%s — %s %s\n", st.id.Render(r.Skill.ID), r.Skill.Title,
			st.dim.Render(fmt.Sprintf("(score: %d)", r.Score)))
		if line := r.Skill.Summary(); line != "" {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}
