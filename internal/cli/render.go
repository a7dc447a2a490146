package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/stickymd/internal/configloader"
	"github.com/yaklabco/stickymd/internal/logging"
	"github.com/yaklabco/stickymd/internal/ui/pretty"
	"github.com/yaklabco/stickymd/pkg/config"
	"github.com/yaklabco/stickymd/pkg/document"
	"github.com/yaklabco/stickymd/pkg/fsutil"
	"github.com/yaklabco/stickymd/pkg/overlay"
	"github.com/yaklabco/stickymd/pkg/render"
	"github.com/yaklabco/stickymd/pkg/style"
	"github.com/yaklabco/stickymd/pkg/syntax"
)

// stdinPath reads the document from standard input.
const stdinPath = "-"

// defaultColumns is used when the output is not a terminal.
const defaultColumns = 100

type renderFlags struct {
	dialect  string
	format   string
	width    float64
	baseDir  string
	spans    bool
	tokens   bool
	noImages bool
	noCode   bool
	detect   bool
}

func newRenderCommand(globals *globalFlags) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Run one highlight pass over a note",
		Long: `Run one highlight pass over a Markdown or Org note and print the styled
text. The dialect follows the file extension unless --dialect or the
configuration sets one. Image links are resolved relative to the note.
Use "-" to read the note from standard input.`,
		Example: `  stickymd render notes.md             Print the styled note
  stickymd render todo.org --spans     Also list every styled element
  stickymd render notes.md --tokens    Also list code block tokens
  stickymd render notes.md --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, globals, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.dialect, "dialect", "", "markup dialect: markdown or org (default: by extension)")
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text or json")
	cmd.Flags().Float64Var(&flags.width, "width", 0, "content width in points (0 = terminal width)")
	cmd.Flags().StringVar(&flags.baseDir, "base-dir", "", "directory image links are resolved against")
	cmd.Flags().BoolVar(&flags.spans, "spans", false, "list styled elements")
	cmd.Flags().BoolVar(&flags.tokens, "tokens", false, "list code block tokens")
	cmd.Flags().BoolVar(&flags.noImages, "no-images", false, "skip image previews")
	cmd.Flags().BoolVar(&flags.noCode, "no-code", false, "skip code block highlighting")
	cmd.Flags().BoolVar(&flags.detect, "detect", false, "guess the language of untagged code blocks")

	return cmd
}

// cliConfig collects the flags that were set explicitly, so unset flags do
// not override configuration files.
func (f *renderFlags) cliConfig(cmd *cobra.Command, globals *globalFlags) *config.Config {
	cfg := &config.Config{
		Dialect: f.dialect,
		Format:  config.OutputFormat(f.format),
		Width:   f.width,
		BaseDir: f.baseDir,
	}
	if cmd.Flags().Changed("color") {
		cfg.Color = config.ColorMode(globals.color)
	}
	if f.noImages {
		cfg.Images.Enabled = config.Bool(false)
	}
	if f.noCode {
		cfg.Code.Highlight = config.Bool(false)
	}
	if cmd.Flags().Changed("detect") {
		cfg.Code.DetectUntagged = config.Bool(f.detect)
	}
	return cfg
}

func runRender(cmd *cobra.Command, globals *globalFlags, flags *renderFlags, path string) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	// Project configuration is found from the note's directory.
	searchDir := workDir
	if path != stdinPath {
		searchDir = filepath.Dir(path)
	}

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   searchDir,
		ExplicitPath: globals.configPath,
		CLIConfig:    flags.cliConfig(cmd, globals),
	})
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg := loaded.Config

	if !globals.debug {
		logging.SetLevel(cfg.LogLevel)
	}
	for _, warning := range loaded.Warnings {
		logger.Warn(warning)
	}
	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPath, strings.Join(loaded.LoadedFrom, ", "))
	}

	text, err := readDocument(ctx, cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	dialect := document.DialectForPath(path)
	if cfg.Dialect != "" {
		if dialect, err = document.ParseDialect(cfg.Dialect); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
		}
	}

	baseDir, err := imageBaseDir(cfg.BaseDir, path, workDir)
	if err != nil {
		return err
	}

	engine, err := render.NewFromConfig(cfg, dialect, baseDir, render.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("configure engine: %w", err)
	}

	out := cmd.OutOrStdout()
	state := document.NewState(text, dialect)
	store := style.NewBuffer(state.Len())
	layout := overlay.NewLineLayout(state.Text(), layoutWidth(cfg.Width, out))

	started := time.Now()
	pass, err := engine.Highlight(ctx, state, store, layout)
	if err != nil {
		return fmt.Errorf("highlight %s: %w", path, err)
	}
	elapsed := time.Since(started)

	if cfg.Format == config.FormatJSON {
		return WritePassJSON(out, path, pass)
	}

	return writePassText(cmd, cfg, path, text, store, pass, elapsed, flags)
}

func writePassText(
	cmd *cobra.Command,
	cfg *config.Config,
	path, text string,
	store *style.Buffer,
	pass *render.Pass,
	elapsed time.Duration,
	flags *renderFlags,
) error {
	out := cmd.OutOrStdout()
	colorEnabled := pretty.IsColorEnabled(string(cfg.Color), out)
	styles := pretty.NewStyles(colorEnabled)
	table := pretty.NewTableFormatter(styles, terminalWidth(out))
	src := syntax.Encode(text)

	var b strings.Builder
	b.WriteString(pretty.Preview(text, store.Runs(), colorEnabled))
	if text != "" && !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	if flags.spans && len(pass.Spans) > 0 {
		b.WriteString("\n")
		b.WriteString(table.FormatTable(pretty.SpanHeaders(), pretty.SpanRows(src, pass.Spans)))
	}
	if flags.tokens && len(pass.Tokens) > 0 {
		b.WriteString("\n")
		b.WriteString(table.FormatTable(pretty.TokenHeaders(), pretty.TokenRows(src, pass.Tokens)))
	}
	if len(pass.Commands) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.FormatCommands(pass.Commands))
	}

	if _, err := io.WriteString(out, b.String()); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}

	errStyles := pretty.NewStyles(pretty.IsColorEnabled(string(cfg.Color), cmd.ErrOrStderr()))
	_, err := io.WriteString(cmd.ErrOrStderr(), errStyles.FormatPassSummary(path, pass, elapsed))
	return err
}

func readDocument(ctx context.Context, stdin io.Reader, path string) (string, error) {
	if path == stdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := fsutil.ReadDocument(ctx, path, 0)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(data), nil
}

// imageBaseDir picks the directory image links resolve against: the
// configured one, else the document's directory, else workDir for stdin.
func imageBaseDir(configured, path, workDir string) (string, error) {
	dir := configured
	if dir == "" {
		if path == stdinPath {
			return workDir, nil
		}
		dir = filepath.Dir(path)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve base directory: %w", err)
	}
	return abs, nil
}

// layoutWidth returns the content width in points, falling back to the
// terminal width in cells.
func layoutWidth(configured float64, out io.Writer) float64 {
	if configured > 0 {
		return configured
	}
	return float64(terminalWidth(out)) * overlay.DefaultCellWidth
}

// terminalWidth returns the column count of out, or defaultColumns.
func terminalWidth(out io.Writer) int {
	if f, ok := out.(interface{ Fd() uintptr }); ok {
		width, _, err := term.GetSize(int(f.Fd()))
		if err == nil && width > 0 {
			return width
		}
	}
	return defaultColumns
}
