// Package wizard provides interactive prompts for CLI commands.
package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// ConfirmDeselect asks before a command drops installed skills from the
// sparse checkout. It returns true without prompting when nothing is removed.
func ConfirmDeselect(command string, removed []string) (bool, error) {
	if len(removed) == 0 {
		return true, nil
	}

	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(deselectTitle(removed)).
				Description(formatIDs(removed)),

			huh.NewConfirm().
				Title(fmt.Sprintf("Continue with %s?", command)).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	)

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt cancelled: %w", err)
	}

	return confirmed, nil
}

func deselectTitle(removed []string) string {
	if len(removed) == 1 {
		return "1 skill will be removed from .codex/skills"
	}
	return fmt.Sprintf("%d skills will be removed from .codex/skills", len(removed))
}

// formatIDs renders ids as a bulleted list.
func formatIDs(ids []string) string {
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, "• "+id)
	}
	return strings.Join(lines, "\n")
}
