package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/andywolf/skillsctl/internal/apperr"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// addOutputFlags registers the machine output flags on cmd.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("machine-output", false, "minified JSON output for tools and agents")
	cmd.Flags().Bool("json", false, "alias for --machine-output")
	cmd.Flags().StringP("output", "o", formatText, "output format (text, json, yaml)")
}

// outputFormat resolves the format selected by the output flags.
func outputFormat(cmd *cobra.Command) (string, error) {
	machine, _ := cmd.Flags().GetBool("machine-output")
	asJSON, _ := cmd.Flags().GetBool("json")
	if machine || asJSON {
		return formatJSON, nil
	}
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case formatText, formatJSON, formatYAML:
		return format, nil
	default:
		return "", apperr.Validationf("invalid output format: %q (expected text, json or yaml)", format)
	}
}

// writeMachine encodes v as minified JSON with sorted keys, or as YAML.
func writeMachine(w io.Writer, format string, v any) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	}
	data, err := compactJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// compactJSON marshals v with object keys sorted at every level.
func compactJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	// maps marshal with sorted keys
	return json.Marshal(generic)
}

// styles renders human output. Styling is only applied on a terminal.
type styles struct {
	id   lipgloss.Style
	dim  lipgloss.Style
	ok   lipgloss.Style
	warn lipgloss.Style
	fail lipgloss.Style
}

func newStyles(w io.Writer) styles {
	if !isTerminal(w) {
		plain := lipgloss.NewStyle()
		return styles{id: plain, dim: plain, ok: plain, warn: plain, fail: plain}
	}
	return styles{
		id:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		dim:  lipgloss.NewStyle().Faint(true),
		ok:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		warn: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		fail: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintError reports err on w as a one-line summary plus detail lines.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", newStyles(w).fail.Render("[ERROR]"), err)
}
