// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Document fields.
	FieldDialect = "dialect"
	FieldVersion = "version"
	FieldLength  = "length"
	FieldRange   = "range"
	FieldKind    = "kind"

	// Grammar fields.
	FieldGrammar  = "grammar"
	FieldLanguage = "language"
	FieldMarker   = "marker"
	FieldPattern  = "pattern"

	// Pass statistics.
	FieldSpans    = "spans"
	FieldTokens   = "tokens"
	FieldOverlays = "overlays"
	FieldDropped  = "dropped"

	// Build fields.
	FieldCommit = "commit"
	FieldBuilt  = "built"
)
