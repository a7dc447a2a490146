package document

import "unicode/utf16"

// State is the mutable source of truth for one document: its text, its
// dialect and a version that increases on every edit.
type State struct {
	text    string
	dialect Dialect
	version uint64
	length  int
}

// NewState creates a document at version 1.
func NewState(text string, dialect Dialect) *State {
	s := &State{dialect: dialect}
	s.Update(text)
	return s
}

// Update replaces the text and bumps the version.
func (s *State) Update(text string) uint64 {
	s.text = text
	s.length = len(utf16.Encode([]rune(text)))
	s.version++
	return s.version
}

// SetDialect changes the dialect and bumps the version.
func (s *State) SetDialect(d Dialect) uint64 {
	s.dialect = d
	s.version++
	return s.version
}

// Text returns the current buffer text.
func (s *State) Text() string { return s.text }

// Dialect returns the current dialect.
func (s *State) Dialect() Dialect { return s.dialect }

// Version returns the current version.
func (s *State) Version() uint64 { return s.version }

// Len returns the buffer length in UTF-16 code units.
func (s *State) Len() int { return s.length }

// IsEmpty returns true if the buffer holds no text.
func (s *State) IsEmpty() bool { return s.text == "" }
