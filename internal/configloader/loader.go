// Package configloader resolves the effective configuration of a highlight
// pass from defaults, config files, STICKYMD_* variables and CLI flags.
package configloader

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/stickymd/pkg/config"
	"github.com/yaklabco/stickymd/pkg/fsutil"
)

const (
	configFilePermissions = 0o644

	// maxConfigSize bounds config file reads.
	maxConfigSize = 1 << 20
)

// LoadOptions selects the layers Load consults.
type LoadOptions struct {
	// WorkingDir starts the project config search; "" means the process
	// working directory.
	WorkingDir string

	// ExplicitPath is the --config file, layered above the project file.
	ExplicitPath string

	IgnoreSystemConfig bool
	IgnoreUserConfig   bool
	IgnoreEnv          bool

	// CLIConfig holds only the fields set by flags and wins over every
	// other layer.
	CLIConfig *config.Config
}

// LoadResult is the merged configuration plus where it came from.
type LoadResult struct {
	Config *config.Config
	Paths  *ConfigPaths

	// LoadedFrom lists the files merged, lowest precedence first.
	LoadedFrom []string

	// Warnings are non-fatal validation findings such as unknown token
	// classes.
	Warnings []string
}

// fileLayer is one config file in precedence order.
type fileLayer struct {
	name string
	path string
	skip bool
}

// Load merges, lowest precedence first: defaults, the system file, the user
// file, the project file, the explicit file, STICKYMD_* variables and
// finally opts.CLIConfig. Each file is validated on its own so errors name
// the offending file; the merged result is validated again.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	if opts.ExplicitPath != "" {
		paths.Explicit = opts.ExplicitPath
	}

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	// Warnings already attributed to a file are not repeated by the check
	// of the merged configuration.
	reported := make(map[string]bool)

	for _, layer := range []fileLayer{
		{name: "system", path: paths.System, skip: opts.IgnoreSystemConfig},
		{name: "user", path: paths.User, skip: opts.IgnoreUserConfig},
		{name: "project", path: paths.Project},
		{name: "explicit", path: paths.Explicit},
	} {
		if layer.skip || layer.path == "" {
			continue
		}

		fileCfg, err := loadConfigFile(ctx, layer.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		if err := result.check(ValidateWithFile(fileCfg, layer.path), reported); err != nil {
			return nil, err
		}

		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	cfg = merge(cfg, opts.CLIConfig)

	if err := result.check(Validate(cfg), reported); err != nil {
		return nil, err
	}
	result.Config = cfg
	return result, nil
}

// check returns the first validation error and records warnings. A
// warning without a file is skipped when a file already reported it.
func (r *LoadResult) check(validation *ValidationResult, reported map[string]bool) error {
	if !validation.Valid() {
		return &validation.Errors[0]
	}
	for _, warning := range validation.Warnings {
		key := warning.Field + "\x00" + warning.Message
		if warning.FilePath == "" && reported[key] {
			continue
		}
		reported[key] = true
		r.Warnings = append(r.Warnings, warning.Error())
	}
	return nil
}

// loadConfigFile decodes one YAML file into a sparse Config: fields the
// file omits stay zero so merge leaves lower layers alone.
func loadConfigFile(ctx context.Context, path string) (*config.Config, error) {
	content, err := fsutil.ReadDocument(ctx, path, maxConfigSize)
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{}
	if err := yaml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return cfg, nil
}

// WriteTemplate writes a generated template to path, refusing to overwrite
// an existing file unless force is set.
func WriteTemplate(ctx context.Context, path string, opts config.TemplateOptions, force bool) error {
	if !force && fsutil.Exists(path) {
		return fmt.Errorf("%s already exists: %w", path, os.ErrExist)
	}

	content, err := config.GenerateTemplate(opts)
	if err != nil {
		return err
	}

	return fsutil.WriteAtomic(ctx, path, content, configFilePermissions)
}
