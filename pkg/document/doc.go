// Package document defines the dialect-independent data model shared by the
// parsing and styling halves of the highlight pipeline.
//
// All ranges in this package are expressed in UTF-16 code units of the host
// buffer. Values are produced fresh on every highlight pass and are never
// mutated after construction.
package document
