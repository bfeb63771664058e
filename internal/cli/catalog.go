package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/andywolf/skillsctl/internal/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the catalog of available skills",
	Long: `List every skill in the catalog shipped with the skills repository.

Examples:
  skillsctl catalog
  skillsctl catalog --match 'vi-*'
  skillsctl catalog --json`,
	Args: cobra.NoArgs,
	RunE: listCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	addOutputFlags(catalogCmd)
	catalogCmd.Flags().String("match", "", "only list skills whose id matches this glob")
}

func listCatalog(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
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

	skills := cat.Skills
	if pattern, _ := cmd.Flags().GetString("match"); pattern != "" {
		skills, err = cat.Filter(pattern)
		if err != nil {
			return err
		}
	}
	if skills == nil {
		skills = []catalog.Skill{}
	}

	if format != formatText {
		return writeMachine(cmd.OutOrStdout(), format, skills)
	}
	printCatalog(cmd.OutOrStdout(), skills)
	return nil
}

func printCatalog(w io.Writer, skills []catalog.Skill) {
	st := newStyles(w)
	for _, sk := range skills {
		fmt.Fprintf(w, "%s — %s\n", st.id.Render(sk.ID), sk.Title)
		if len(sk.Tags) > 0 {
			fmt.Fprintf(w, "  tags: %s\n", strings.Join(sk.Tags, ", "))
		}
		if line := sk.Summary(); line != "" {
			fmt.Fprintf(w, "  %s\n", st.dim.Render(line))
		}
		fmt.Fprintln(w)
	}
}
