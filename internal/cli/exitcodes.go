package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/stickymd/internal/configloader"
	"github.com/yaklabco/stickymd/pkg/render"
)

// Exit codes for stickymd.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates a failed highlight pass.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrInvalidUsage marks errors caused by bad flags or arguments.
var ErrInvalidUsage = errors.New("invalid usage")

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	var validation *configloader.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.As(err, &validation):
		return ExitConfigError
	case errors.Is(err, render.ErrStale):
		return ExitFailure
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission), errors.Is(err, fs.ErrExist):
		return ExitIOError
	default:
		return ExitFailure
	}
}
