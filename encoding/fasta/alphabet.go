package fasta

import (
	"fmt"
)

// Alphabet is a set of valid sequence symbols.
type Alphabet struct {
	valid [256]bool
}

// NewAlphabet creates an Alphabet of the given symbols.  Symbols are
// case-sensitive.
func NewAlphabet(symbols string) *Alphabet {
	a := &Alphabet{}
	for i := 0; i < len(symbols); i++ {
		a.valid[symbols[i]] = true
	}
	return a
}

// NucleotideAlphabet holds the IUPAC nucleotide codes in upper and lower case.
var NucleotideAlphabet = NewAlphabet("ACGTNKSYMWRBDHVacgtnksymwrbdhv")

// Contains reports whether c belongs to the alphabet.
func (a *Alphabet) Contains(c byte) bool { return a.valid[c] }

// Validate returns a *SymbolError for the first symbol of line that is not
// part of the alphabet.  It can be used as Opts.Validate.
func (a *Alphabet) Validate(line []byte) error {
	for _, c := range line {
		if !a.valid[c] {
			return &SymbolError{Symbol: c}
		}
	}
	return nil
}

// SymbolError reports an invalid symbol in a sequence line.  The Reader fills
// in Header and Line before returning it.
type SymbolError struct {
	Symbol byte
	// Header is the header of the record the symbol was found in.
	Header string
	// Line is the 1-based sequence line number within the record.
	Line int
}

func (e *SymbolError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("invalid letter %q in sequence", e.Symbol)
	}
	return fmt.Sprintf("invalid letter %q in sequence (record %q, line %d)", e.Symbol, e.Header, e.Line)
}

// LineError annotates an error returned by Opts.Validate that is not a
// *SymbolError with the position of the offending line.
type LineError struct {
	Header string
	Line   int
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("record %q, line %d: %v", e.Header, e.Line, e.Err)
}

// Cause returns the underlying validation error.
func (e *LineError) Cause() error { return e.Err }

// Unwrap returns the underlying validation error.
func (e *LineError) Unwrap() error { return e.Err }

func annotate(err error, header string, line int) error {
	if se, ok := err.(*SymbolError); ok {
		se.Header, se.Line = header, line
		return se
	}
	return &LineError{Header: header, Line: line, Err: err}
}
