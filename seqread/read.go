// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package seqread provides a uniform view of sequencing reads, whether they
// come from FASTQ records or from SAM/BAM alignment records, and groups
// name-sorted reads into the segments of their sequencing templates.
package seqread

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/grailbio/hts/sam"
	"github.com/wm75/mimodd-lib/seqtransform"
)

// Tag is a key/value annotation of a read, e.g. a SAM auxiliary field.
type Tag struct {
	Key   string
	Value interface{}
}

// Read is a sequencing read.  The interface is closed: *SimpleRead and
// *RecordRead are its only implementations.
//
// Reverse, Complement and ReverseComplement modify the read in place.
// Complementation only affects the sequence; reversal affects sequence and
// quality alike.
type Read interface {
	// FullTitle returns the complete title of the read, i.e. the ID
	// optionally followed by whitespace and a description.
	FullTitle() string
	// ID returns FullTitle up to its first whitespace.
	ID() string
	// Description returns FullTitle after the first run of whitespace.
	Description() string
	Seq() []byte
	// Qual returns the Phred+33 encoded qualities, or nil if the read has none.
	Qual() []byte
	// Data returns title, sequence and quality at once.
	Data() (title string, seq, qual []byte)
	Flags() sam.Flags
	Tags() []Tag
	// ReadGroup returns the value of the first RG tag of the read.
	ReadGroup() (string, bool)
	Reverse()
	Complement()
	ReverseComplement()
	// Len returns the length of the sequence.
	Len() int
	String() string

	isRead()
}

var (
	_ Read = (*SimpleRead)(nil)
	_ Read = (*RecordRead)(nil)
)

// splitTitle splits title into ID and description on the first run of
// whitespace.  Leading whitespace is ignored.
func splitTitle(title string) (id, desc string) {
	title = strings.TrimLeftFunc(title, unicode.IsSpace)
	i := strings.IndexFunc(title, unicode.IsSpace)
	if i < 0 {
		return title, ""
	}
	return title[:i], strings.TrimLeftFunc(title[i:], unicode.IsSpace)
}

func format(r Read) string {
	title, seq, qual := r.Data()
	return title + "\n" + string(seq) + "\n" + string(qual)
}

// SimpleRead is a self-contained read.  Simple reads are always unmapped and
// carry neither tags nor a read group.  The zero value is an empty DNA read.
type SimpleRead struct {
	Title    string
	Sequence []byte
	// Quality holds Phred+33 encoded qualities.
	Quality  []byte
	Molecule seqtransform.Molecule
}

func (r *SimpleRead) isRead() {}

// FullTitle implements Read.
func (r *SimpleRead) FullTitle() string { return r.Title }

// ID implements Read.
func (r *SimpleRead) ID() string {
	id, _ := splitTitle(r.Title)
	return id
}

// Description implements Read.
func (r *SimpleRead) Description() string {
	_, desc := splitTitle(r.Title)
	return desc
}

// Seq implements Read.
func (r *SimpleRead) Seq() []byte { return r.Sequence }

// Qual implements Read.
func (r *SimpleRead) Qual() []byte { return r.Quality }

// Data implements Read.
func (r *SimpleRead) Data() (string, []byte, []byte) { return r.Title, r.Sequence, r.Quality }

// Flags implements Read.  It always returns sam.Unmapped.
func (r *SimpleRead) Flags() sam.Flags { return sam.Unmapped }

// Tags implements Read.
func (r *SimpleRead) Tags() []Tag { return nil }

// ReadGroup implements Read.
func (r *SimpleRead) ReadGroup() (string, bool) { return "", false }

// Reverse implements Read.
func (r *SimpleRead) Reverse() {
	seqtransform.ReverseInplace(r.Sequence)
	seqtransform.ReverseInplace(r.Quality)
}

// Complement implements Read.
func (r *SimpleRead) Complement() {
	seqtransform.ComplementInplace(r.Sequence, r.Molecule)
}

// ReverseComplement implements Read.
func (r *SimpleRead) ReverseComplement() {
	r.Reverse()
	r.Complement()
}

// Len implements Read.
func (r *SimpleRead) Len() int { return len(r.Sequence) }

// String returns title, sequence and quality on separate lines.
func (r *SimpleRead) String() string { return format(r) }

// Record is the set of capabilities a RecordRead needs from the record that
// stores it.  SAMRecord adapts *sam.Record.
type Record interface {
	Name() string
	SetName(string)
	Seq() []byte
	SetSeq([]byte)
	// Qual returns Phred+33 encoded qualities, or nil if there are none.
	Qual() []byte
	SetQual([]byte)
	Flags() sam.Flags
	Tags() []Tag
}

// RecordRead is a Read stored in an externally owned Record.  Changes made
// through the Read are written back to the Record.
type RecordRead struct {
	Record   Record
	Molecule seqtransform.Molecule
}

// NewRecordRead creates a read backed by rec.  A nil rec is replaced by a
// fresh unaligned SAM record, yielding an empty read.
func NewRecordRead(rec Record, m seqtransform.Molecule) *RecordRead {
	if rec == nil {
		rec = NewUnalignedRecord()
	}
	return &RecordRead{Record: rec, Molecule: m}
}

func (r *RecordRead) isRead() {}

// FullTitle implements Read.
func (r *RecordRead) FullTitle() string { return r.Record.Name() }

// ID implements Read.
func (r *RecordRead) ID() string {
	id, _ := splitTitle(r.Record.Name())
	return id
}

// Description implements Read.
func (r *RecordRead) Description() string {
	_, desc := splitTitle(r.Record.Name())
	return desc
}

// Seq implements Read.
func (r *RecordRead) Seq() []byte { return r.Record.Seq() }

// Qual implements Read.
func (r *RecordRead) Qual() []byte { return r.Record.Qual() }

// Data implements Read.
func (r *RecordRead) Data() (string, []byte, []byte) {
	return r.Record.Name(), r.Record.Seq(), r.Record.Qual()
}

// Flags implements Read.
func (r *RecordRead) Flags() sam.Flags { return r.Record.Flags() }

// Tags implements Read.
func (r *RecordRead) Tags() []Tag { return r.Record.Tags() }

// ReadGroup implements Read.
func (r *RecordRead) ReadGroup() (string, bool) {
	for _, t := range r.Record.Tags() {
		if t.Key != "RG" {
			continue
		}
		if s, ok := t.Value.(string); ok {
			return s, true
		}
		return fmt.Sprint(t.Value), true
	}
	return "", false
}

// Reverse implements Read.
func (r *RecordRead) Reverse() {
	seq := r.Record.Seq()
	seqtransform.ReverseInplace(seq)
	r.Record.SetSeq(seq)
	if qual := r.Record.Qual(); qual != nil {
		seqtransform.ReverseInplace(qual)
		r.Record.SetQual(qual)
	}
}

// Complement implements Read.
func (r *RecordRead) Complement() {
	seq := r.Record.Seq()
	seqtransform.ComplementInplace(seq, r.Molecule)
	r.Record.SetSeq(seq)
}

// ReverseComplement implements Read.
func (r *RecordRead) ReverseComplement() {
	r.Reverse()
	r.Complement()
}

// Len implements Read.
func (r *RecordRead) Len() int { return len(r.Record.Seq()) }

// String returns title, sequence and quality on separate lines.
func (r *RecordRead) String() string { return format(r) }

// Copy returns a deep copy of r that shares no memory with it.  The record
// of a *RecordRead is cloned if it is a *SAMRecord; any other record is
// copied into an in-memory record that keeps its name, sequence, qualities,
// flags and tags.
func Copy(r Read) Read {
	switch r := r.(type) {
	case *SimpleRead:
		return &SimpleRead{
			Title:    r.Title,
			Sequence: append([]byte(nil), r.Sequence...),
			Quality:  append([]byte(nil), r.Quality...),
			Molecule: r.Molecule,
		}
	case *RecordRead:
		if rec, ok := r.Record.(*SAMRecord); ok {
			return &RecordRead{Record: rec.Clone(), Molecule: r.Molecule}
		}
		return &RecordRead{Record: copyRecord(r.Record), Molecule: r.Molecule}
	}
	panic(fmt.Sprintf("seqread: unknown read type %T", r))
}

// memRecord is a Record held in memory.
type memRecord struct {
	name      string
	seq, qual []byte
	flags     sam.Flags
	tags      []Tag
}

func copyRecord(rec Record) *memRecord {
	m := &memRecord{
		name:  rec.Name(),
		seq:   append([]byte(nil), rec.Seq()...),
		flags: rec.Flags(),
	}
	if qual := rec.Qual(); qual != nil {
		m.qual = append([]byte(nil), qual...)
	}
	if tags := rec.Tags(); len(tags) > 0 {
		m.tags = make([]Tag, len(tags))
		for i, t := range tags {
			if b, ok := t.Value.([]byte); ok {
				t.Value = append([]byte(nil), b...)
			}
			m.tags[i] = t
		}
	}
	return m
}

func (m *memRecord) Name() string { return m.name }
func (m *memRecord) SetName(name string) { m.name = name }
func (m *memRecord) Seq() []byte { return m.seq }
func (m *memRecord) SetSeq(seq []byte) { m.seq = seq }

func (m *memRecord) Qual() []byte {
	if len(m.qual) == 0 {
		return nil
	}
	return m.qual
}

func (m *memRecord) SetQual(qual []byte) { m.qual = qual }
func (m *memRecord) Flags() sam.Flags { return m.flags }
func (m *memRecord) Tags() []Tag { return m.tags }
