package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/stickymd/internal/ui/pretty"
	"github.com/yaklabco/stickymd/pkg/config"
	"github.com/yaklabco/stickymd/pkg/grammar"
)

// grammarInfo is one grammar in JSON output.
type grammarInfo struct {
	Name       string   `json:"name"`
	Highlights bool     `json:"highlights"`
	Extensions []string `json:"extensions"`
	Aliases    []string `json:"aliases"`
}

func newGrammarsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "grammars",
		Short: "List registered grammars",
		Long: `List the grammars stickymd can load, whether each carries a highlight
query for code blocks, the file extensions it claims and the fence tag
aliases that resolve to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := grammar.Default()

			switch config.OutputFormat(format) {
			case config.FormatJSON:
				return writeGrammarsJSON(cmd, registry)
			case config.FormatText:
			default:
				return fmt.Errorf("%w: unknown format %q", ErrInvalidUsage, format)
			}

			colorMode, _ := cmd.Flags().GetString("color")
			styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))
			table := pretty.NewTableFormatter(styles, terminalWidth(cmd.OutOrStdout()))
			_, err := fmt.Fprint(cmd.OutOrStdout(),
				table.FormatTable(pretty.GrammarHeaders(), pretty.GrammarRows(registry)))
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", string(config.FormatText), "output format: text or json")

	return cmd
}

func writeGrammarsJSON(cmd *cobra.Command, registry *grammar.Registry) error {
	entries := registry.Entries()
	infos := make([]grammarInfo, 0, len(entries))
	for _, entry := range entries {
		infos = append(infos, grammarInfo{
			Name:       entry.Name,
			Highlights: entry.Highlights,
			Extensions: nonNil(entry.Extensions),
			Aliases:    nonNil(registry.Aliases(entry.Name)),
		})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(infos); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
