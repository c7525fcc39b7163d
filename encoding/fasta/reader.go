// Package fasta contains code for streaming FASTA files.  See
// http://www.htslib.org/doc/faidx.html.  Briefly, FASTA files consist of a
// number of named sequences that may be interrupted by newlines.  For example:
//
// >chr7 A viral sequence
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// The header of a record is the text after '>' with surrounding whitespace
// removed.  Its ID is the stretch of characters up to the first whitespace,
// e.g. '>chr7 A viral sequence' has the ID 'chr7'.
package fasta

import (
	"bufio"
	"bytes"
	"hash"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

const (
	recordMarker = '>'
	maxLineSize  = 1024 * 1024 * 300 // 300 MB
)

var (
	// ErrNotFasta is returned when the input does not start with a header line.
	ErrNotFasta = errors.New(`input does not seem to be in fasta format (expected ">" as first character)`)
	// ErrStaleLines is returned by a Lines cursor that is used after its
	// Reader moved on to the next record.
	ErrStaleLines = errors.New("fasta: sequence lines used after the next record was requested")
)

// Opts configures a Reader.  The zero value is a valid configuration.
type Opts struct {
	// Validate, if set, is called for every parsed sequence line.  A returned
	// error stops the Reader; it is annotated with the record header and the
	// 1-based line number within the record (see SymbolError and LineError).
	Validate func(line []byte) error
	// Digest creates the hash used by Digests and Describe.  Defaults to MD5.
	Digest func() hash.Hash
}

// Reader streams the records of a FASTA file.  A Reader reads its input
// line by line and never holds more than one line of it; the sequence of the
// current record is available through Lines.  Readers are not threadsafe.
//
// Consecutive header lines yield one record each; all but the last of them
// have an empty sequence.  A header on the last line of the input is a record
// too, with an empty sequence, so ">a\nAC\n>b\n" holds the records a and b.
type Reader struct {
	sc      *bufio.Scanner
	opts    Opts
	err     error
	started bool

	line     []byte // lookahead, valid while haveLine is set
	haveLine bool

	header string
	gen    uint64
	cur    *Lines
}

// NewReader creates a Reader for the FASTA data in r.
func NewReader(r io.Reader, opts Opts) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineSize)
	return &Reader{sc: sc, opts: opts}
}

// NewNucleotideReader creates a Reader that fails on any sequence symbol
// outside of NucleotideAlphabet.
func NewNucleotideReader(r io.Reader) *Reader {
	return NewReader(r, Opts{Validate: NucleotideAlphabet.Validate})
}

func isHeader(line []byte) bool {
	return len(line) > 0 && line[0] == recordMarker
}

func (r *Reader) readLine() bool {
	if r.sc.Scan() {
		r.line, r.haveLine = r.sc.Bytes(), true
		return true
	}
	r.line, r.haveLine = nil, false
	if err := r.sc.Err(); err != nil {
		r.err = errors.Wrap(err, "couldn't read FASTA data")
	}
	return false
}

// Scan advances to the next record.  It returns false at the end of the
// input or on error; Err tells the two apart.  Sequence lines of the previous
// record that were not consumed are skipped, and its Lines cursor becomes
// invalid.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	r.gen++
	r.cur = nil
	if !r.started {
		r.started = true
		if !r.readLine() {
			return false
		}
		if !isHeader(r.line) {
			r.err = errors.Wrapf(ErrNotFasta, "first line %q", r.line)
			return false
		}
	}
	for r.haveLine && !isHeader(r.line) {
		r.readLine()
	}
	if !r.haveLine {
		return false
	}
	r.header = string(bytes.TrimSpace(r.line[1:]))
	r.readLine()
	r.cur = &Lines{r: r, gen: r.gen}
	return true
}

// Header returns the header of the current record, without the leading '>'.
func (r *Reader) Header() string { return r.header }

// ID returns the header of the current record up to the first whitespace.
func (r *Reader) ID() string { return HeaderID(r.header) }

// HeaderID returns header up to its first whitespace.
func HeaderID(header string) string {
	if i := strings.IndexFunc(header, unicode.IsSpace); i >= 0 {
		return header[:i]
	}
	return header
}

// Lines returns the cursor over the sequence lines of the current record.
//
// REQUIRES: Scan() has been called and its last call returned true.
func (r *Reader) Lines() *Lines { return r.cur }

// Err returns the error that stopped the Reader, if any.
func (r *Reader) Err() error { return r.err }

// Lines iterates over the sequence lines of one record.  Each line is
// stripped of surrounding whitespace and internal blanks.  A Lines cursor is
// only valid until the next call to Reader.Scan; afterwards Scan returns false
// and Err returns ErrStaleLines.
type Lines struct {
	r   *Reader
	gen uint64
	n   int
	buf []byte
	err error
}

// Scan advances to the next sequence line of the record.
func (l *Lines) Scan() bool {
	if l.err != nil {
		return false
	}
	r := l.r
	if l.gen != r.gen {
		l.err = ErrStaleLines
		return false
	}
	if r.err != nil || !r.haveLine || isHeader(r.line) {
		return false
	}
	l.n++
	l.buf = parseSequenceLine(l.buf[:0], r.line)
	if r.opts.Validate != nil {
		if err := r.opts.Validate(l.buf); err != nil {
			err = annotate(err, r.header, l.n)
			r.err, l.err = err, err
			return false
		}
	}
	r.readLine()
	return true
}

// Bytes returns the current line.  The slice is overwritten by the next call
// to Scan.
func (l *Lines) Bytes() []byte { return l.buf }

// Text returns the current line as a string.
func (l *Lines) Text() string { return string(l.buf) }

// N returns the 1-based number of the current line within the record.
func (l *Lines) N() int { return l.n }

// Err returns the error that stopped the cursor, if any.
func (l *Lines) Err() error {
	if l.err != nil {
		return l.err
	}
	if l.gen == l.r.gen {
		return l.r.err
	}
	return nil
}

func parseSequenceLine(dst, line []byte) []byte {
	for _, c := range bytes.TrimSpace(line) {
		if c != ' ' {
			dst = append(dst, c)
		}
	}
	return dst
}
