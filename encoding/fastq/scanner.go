// Package fastq reads and writes FASTQ-formatted sequencing reads.
//
// The parser is lenient: sequences and quality strings may be wrapped over
// any number of lines and blank lines may appear between records.  Only the
// record structure is checked; neither the sequence nor the quality alphabet
// is validated.
package fastq

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("incomplete FASTQ record")
	// ErrInvalid is returned when a title line does not start with '@'.
	ErrInvalid = errors.New("invalid FASTQ file: title line not starting with @")
	// ErrNoSequence is returned for a record with an empty sequence.
	ErrNoSequence = errors.New("invalid FASTQ file: record without sequence")
	// ErrLengthMismatch is returned when a quality string is longer than the
	// sequence it belongs to.
	ErrLengthMismatch = errors.New("invalid FASTQ file: inconsistent lengths of sequence and quality")
	// ErrDiscordant is returned when two underlying FASTQ files are discordant.
	ErrDiscordant = errors.New("discordant FASTQ pairs")
)

const (
	titleMarker = '@'
	sepMarker   = '+'

	maxLineSize = 64 * 1024 * 1024
)

// A Read is a FASTQ read, comprising an ID, a sequence and a quality string.
// ID is the title line without the leading '@' and without trailing
// whitespace; it may contain a description after the first blank.
type Read struct {
	ID, Seq, Qual string
}

var errEOF = errors.New("eof")

// Scanner provides a convenient interface for reading FASTQ read
// data. The Scan method returns the next read, returning a boolean
// indicating whether the read succeeded. Scanners are not
// threadsafe.
//
// Scanner performs some validation: it requires title lines to begin with
// "@", each record to have a non-empty sequence terminated by a line
// beginning with "+", and the quality string to be exactly as long as the
// sequence.  Any violation stops the scan; the stream cannot be resumed.
type Scanner struct {
	b      *bufio.Scanner
	err    error
	fields Field
	nlines int

	seq, qual []byte
}

// Field enumerates FASTQ fields. It is used to specify fields to read in
// NewScanner.
type Field uint

const (
	// ID causes the Read.ID field to be filled
	ID Field = 1 << iota
	// Seq causes the Read.Seq field to be filled
	Seq
	// Qual causes the Read.Qual field to be filled
	Qual
	// All equals ID|Seq|Qual.
	All = ID | Seq | Qual
)

// NewScanner constructs a new Scanner that reads raw FASTQ data from the
// provided reader. Fields is a bitset of the fields to read. A typical value
// would be All.
func NewScanner(r io.Reader, fields Field) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, maxLineSize)
	return &Scanner{b: b, fields: fields}
}

// Scan the next read into the provided read. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again. Upon completion, the user should check
// the Err method to determine whether scanning stopped because of an
// error or because the end of the stream was reached.
//
// The provided read serves as the current-record buffer: its fields are
// overwritten by every call, so callers that retain a read across calls must
// copy it first.
func (f *Scanner) Scan(read *Read) bool {
	if f.err != nil {
		return false
	}
	// Await the title line, tolerating blank lines between records.
	var title []byte
	for {
		if !f.b.Scan() {
			if f.err = f.b.Err(); f.err == nil {
				f.err = errEOF
			}
			return false
		}
		f.nlines++
		line := f.b.Bytes()
		if len(line) > 0 && line[0] == titleMarker {
			title = bytes.TrimRightFunc(line[1:], isSpace)
			break
		}
		if len(bytes.TrimRightFunc(line, isSpace)) != 0 {
			f.err = errors.Wrapf(ErrInvalid, "line %d: %q", f.nlines, line)
			return false
		}
	}
	id := string(title)
	if f.fields&ID != 0 {
		read.ID = id
	}

	// Await the separator line, accumulating sequence lines.
	f.seq = f.seq[:0]
	for {
		if !f.scan(id) {
			return false
		}
		line := f.b.Bytes()
		if len(line) > 0 && line[0] == sepMarker {
			break
		}
		f.seq = append(f.seq, bytes.TrimRightFunc(line, isSpace)...)
	}
	if len(f.seq) == 0 {
		f.err = errors.Wrapf(ErrNoSequence, "record %s", id)
		return false
	}

	// Accumulate quality lines until they cover the sequence.
	f.qual = f.qual[:0]
	for len(f.qual) < len(f.seq) {
		if !f.b.Scan() {
			if f.err = f.b.Err(); f.err != nil {
				return false
			}
			// A quality string that ends early is reported as a length
			// mismatch; a record without any quality as truncated.
			if len(f.qual) == 0 {
				f.err = errors.Wrapf(ErrShort, "record %s", id)
			} else {
				f.err = f.lengthMismatch(id)
			}
			return false
		}
		f.nlines++
		f.qual = append(f.qual, bytes.TrimRightFunc(f.b.Bytes(), isSpace)...)
	}
	if len(f.qual) > len(f.seq) {
		f.err = f.lengthMismatch(id)
		return false
	}
	if f.fields&Seq != 0 {
		read.Seq = string(f.seq)
	}
	if f.fields&Qual != 0 {
		read.Qual = string(f.qual)
	}
	return true
}

// scan advances to the next line of the record identified by id.  Running
// out of input here means the record is incomplete.
func (f *Scanner) scan(id string) bool {
	ok := f.b.Scan()
	if !ok {
		if f.err = f.b.Err(); f.err == nil {
			f.err = errors.Wrapf(ErrShort, "record %s", id)
		}
		return false
	}
	f.nlines++
	return ok
}

func (f *Scanner) lengthMismatch(id string) error {
	return errors.Wrapf(ErrLengthMismatch, "record %s: sequence length %d, quality length %d",
		id, len(f.seq), len(f.qual))
}

// Err returns the scanning error, if any.
func (f *Scanner) Err() error {
	if f.err == errEOF {
		return nil
	}
	return f.err
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// PairScanner composes a pair of scanners to scan a pair of FASTQ
// streams.
type PairScanner struct {
	r1, r2 *Scanner
	err    error
}

// NewPairScanner creates a new FASTQ pair scanner from the provided
// R1 and R2 readers.
func NewPairScanner(r1, r2 io.Reader, fields Field) *PairScanner {
	return &PairScanner{
		r1: NewScanner(r1, fields),
		r2: NewScanner(r2, fields),
	}
}

// Scan scans the next read pair into r1, r2. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again. Upon completion, the user should check
// the Err method to determine whether scanning stopped because of an
// error or because the end of the stream was reached.
func (p *PairScanner) Scan(r1, r2 *Read) bool {
	if p.err != nil {
		return false
	}
	ok1 := p.r1.Scan(r1)
	ok2 := p.r2.Scan(r2)
	if ok1 != ok2 {
		p.err = ErrDiscordant
	}
	return ok1 && ok2
}

// Err returns the scanning error, if any. It should be checked
// after Scan returns false.
func (p *PairScanner) Err() error {
	if err := p.r1.Err(); err != nil {
		return err
	}
	if err := p.r2.Err(); err != nil {
		return err
	}
	return p.err
}
