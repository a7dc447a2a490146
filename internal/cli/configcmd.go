package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/stickymd/internal/configloader"
	"github.com/yaklabco/stickymd/internal/ui/pretty"
)

func newConfigCommand(globals *globalFlags) *cobra.Command {
	var listEnv bool

	cmd := &cobra.Command{
		Use:   "config [FILE]",
		Short: "Show the resolved configuration",
		Long: `Print the configuration a render of FILE would use, after merging the
system, user, project and explicit config files with STICKYMD_* environment
variables. Without FILE the project search starts in the current directory.`,
		Example: `  stickymd config               Show the configuration for the current directory
  stickymd config notes/todo.org
  stickymd config --env         List the supported environment variables`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listEnv {
				return writeEnvVars(cmd)
			}
			searchDir := ""
			if len(args) == 1 {
				searchDir = filepath.Dir(args[0])
			}
			return writeResolvedConfig(cmd, globals, searchDir)
		},
	}

	cmd.Flags().BoolVar(&listEnv, "env", false, "list supported environment variables")

	return cmd
}

func writeResolvedConfig(cmd *cobra.Command, globals *globalFlags, searchDir string) error {
	if searchDir == "" {
		workDir, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		searchDir = workDir
	}

	loaded, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   searchDir,
		ExplicitPath: globals.configPath,
	})
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	data, err := loaded.Config.ToYAML()
	if err != nil {
		return err
	}

	var b strings.Builder
	if len(loaded.LoadedFrom) == 0 {
		b.WriteString("# defaults (no configuration files found)\n")
	}
	for _, path := range loaded.LoadedFrom {
		fmt.Fprintf(&b, "# loaded from %s\n", path)
	}
	for _, warning := range loaded.Warnings {
		fmt.Fprintf(&b, "# warning: %s\n", warning)
	}
	b.Write(data)

	_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
	return err
}

func writeEnvVars(cmd *cobra.Command) error {
	vars := configloader.ListEnvVars()
	rows := make([][]string, 0, len(vars))
	for _, v := range vars {
		rows = append(rows, []string{v.Name, v.Field, v.Description})
	}

	colorMode, _ := cmd.Flags().GetString("color")
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))
	table := pretty.NewTableFormatter(styles, terminalWidth(cmd.OutOrStdout()))
	_, err := fmt.Fprint(cmd.OutOrStdout(), table.FormatTable([]string{"VARIABLE", "FIELD", "DESCRIPTION"}, rows))
	return err
}
