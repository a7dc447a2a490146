package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// appName names the user and system config directories.
const appName = "stickymd"

// DefaultProjectFile is the file name written by "stickymd init".
const DefaultProjectFile = ".stickymd.yml"

// ConfigPaths holds the discovered configuration files. Empty fields mean
// no file was found.
type ConfigPaths struct {
	// System is /etc/stickymd/config.yaml or its Windows equivalent.
	System string

	// User is $XDG_CONFIG_HOME/stickymd/config.yaml.
	User string

	// Project is the nearest .stickymd.yml above the note.
	Project string

	// Explicit is the --config path.
	Explicit string
}

// Project file names, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigFiles = []string{DefaultProjectFile, ".stickymd.yaml", "stickymd.yml", "stickymd.yaml"}

// Directory config names for the system and user layers.
//
//nolint:gochecknoglobals // Read-only lookup table.
var dirConfigFiles = []string{"config.yaml", "config.yml"}

// vcsRootMarkers end the upward project search.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds the system, user and project configuration files.
// The project search starts at startDir, normally the note's directory.
func DiscoverPaths(ctx context.Context, startDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	paths := &ConfigPaths{System: firstExisting(systemConfigDir(), dirConfigFiles)}
	if dir, err := UserConfigDir(); err == nil {
		paths.User = firstExisting(dir, dirConfigFiles)
	}

	project, err := FindProjectConfig(ctx, startDir)
	if err != nil {
		return nil, err
	}
	paths.Project = project

	return paths, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return filepath.Join("/etc", appName)
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, appName)
}

// UserConfigDir returns the directory of the user-level config file.
func UserConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// FindProjectConfig walks up from startDir looking for a project config
// file. The walk stops after a VCS root, the home directory or the
// filesystem root. An empty result means none was found.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("discover config: %w", err)
		}
		if path := firstExisting(dir, projectConfigFiles); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if isVCSRoot(dir) || dir == home || parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// firstExisting returns the first of names that is a file in dir.
func firstExisting(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// fileExists reports whether path is an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
