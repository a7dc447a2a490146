package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/stickymd/internal/configloader"
	"github.com/yaklabco/stickymd/internal/logging"
	"github.com/yaklabco/stickymd/pkg/config"
)

type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a stickymd configuration file",
		Long: `Create a .stickymd.yml configuration file in the current directory.
The minimal template lists the common settings as comments; --full writes
every setting with its default value.`,
		Example: `  stickymd init                     Create a minimal .stickymd.yml
  stickymd init --full              Write every setting with its default
  stickymd init --output notes.yml  Write to a custom path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every setting with its default value")
	cmd.Flags().StringVarP(&flags.output, "output", "o", configloader.DefaultProjectFile, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWriter(cmd.ErrOrStderr(), "info")
	ctx := commandContext(cmd)

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	err = configloader.WriteTemplate(ctx, absPath, config.TemplateOptions{Full: flags.full}, flags.force)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("file %q already exists; use --force to overwrite: %w", flags.output, err)
	}
	if err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'stickymd grammars' to see the code block languages")

	return nil
}
