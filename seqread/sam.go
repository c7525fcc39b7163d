// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqread

import (
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
	"github.com/wm75/mimodd-lib/seqtransform"
)

const (
	phredOffset = 33
	// missingQual marks absent base qualities in a sam.Record.
	missingQual = 0xff
)

var (
	rgTag = sam.Tag{'R', 'G'}
	smTag = sam.Tag{'S', 'M'}
)

// SAMRecord adapts a *sam.Record to the Record interface.  Sequences are
// stored 4-bit encoded, so lower-case bases read back in upper case and
// symbols outside of "=ACMGRSVTWYHKDBN" read back as N.
type SAMRecord struct {
	R *sam.Record
}

var _ Record = (*SAMRecord)(nil)

// NewUnalignedRecord returns an unmapped record without reference, position
// or mapping quality.
func NewUnalignedRecord() *SAMRecord {
	return &SAMRecord{R: &sam.Record{
		Pos:     -1,
		MatePos: -1,
		MapQ:    255,
		Flags:   sam.Unmapped,
	}}
}

// NewUnalignedPair returns the two reads of an unmapped read pair, flagged
// as first and second segment with unmapped mates (flags 77 and 141).
func NewUnalignedPair() (r1, r2 *RecordRead) {
	rec1, rec2 := NewUnalignedRecord(), NewUnalignedRecord()
	rec1.R.Flags |= sam.Paired | sam.Read1 | sam.MateUnmapped
	rec2.R.Flags |= sam.Paired | sam.Read2 | sam.MateUnmapped
	return &RecordRead{Record: rec1}, &RecordRead{Record: rec2}
}

// Name implements Record.
func (s *SAMRecord) Name() string { return s.R.Name }

// SetName implements Record.
func (s *SAMRecord) SetName(name string) { s.R.Name = name }

// Seq implements Record.  It returns a new slice.
func (s *SAMRecord) Seq() []byte { return s.R.Seq.Expand() }

// SetSeq implements Record.
func (s *SAMRecord) SetSeq(seq []byte) {
	s.R.Seq = sam.NewSeq(seq)
	if !hasQual(s.R.Qual) {
		s.R.Qual = missing(len(seq))
	}
}

// Qual implements Record.  It returns a new slice.
func (s *SAMRecord) Qual() []byte {
	if !hasQual(s.R.Qual) {
		return nil
	}
	qual := make([]byte, len(s.R.Qual))
	for i, q := range s.R.Qual {
		qual[i] = q + phredOffset
	}
	return qual
}

// SetQual implements Record.  An empty qual marks the qualities as absent.
// Characters below '!' are stored as quality 0.
func (s *SAMRecord) SetQual(qual []byte) {
	if len(qual) == 0 {
		s.R.Qual = missing(s.R.Seq.Length)
		return
	}
	raw := make([]byte, len(qual))
	for i, q := range qual {
		if q > phredOffset {
			raw[i] = q - phredOffset
		}
	}
	s.R.Qual = raw
}

// Flags implements Record.
func (s *SAMRecord) Flags() sam.Flags { return s.R.Flags }

// Tags implements Record.
func (s *SAMRecord) Tags() []Tag {
	if len(s.R.AuxFields) == 0 {
		return nil
	}
	tags := make([]Tag, len(s.R.AuxFields))
	for i, aux := range s.R.AuxFields {
		tags[i] = Tag{Key: aux.Tag().String(), Value: aux.Value()}
	}
	return tags
}

// SetTag sets the auxiliary field key to value, replacing an existing field
// with the same key.
func (s *SAMRecord) SetTag(key string, value interface{}) error {
	aux, err := sam.NewAux(sam.NewTag(key), value)
	if err != nil {
		return errors.E(errors.Invalid, err, "tag", key)
	}
	t := aux.Tag()
	for i, a := range s.R.AuxFields {
		if a.Tag() == t {
			s.R.AuxFields[i] = aux
			return nil
		}
	}
	s.R.AuxFields = append(s.R.AuxFields, aux)
	return nil
}

// Clone returns a deep copy of s.
func (s *SAMRecord) Clone() *SAMRecord {
	c := *s.R
	c.Cigar = append(sam.Cigar(nil), s.R.Cigar...)
	c.Seq.Seq = append([]sam.Doublet(nil), s.R.Seq.Seq...)
	c.Qual = append([]byte(nil), s.R.Qual...)
	c.AuxFields = make(sam.AuxFields, len(s.R.AuxFields))
	for i, aux := range s.R.AuxFields {
		c.AuxFields[i] = append(sam.Aux(nil), aux...)
	}
	return &SAMRecord{R: &c}
}

func hasQual(q []byte) bool {
	return len(q) > 0 && q[0] != missingQual
}

func missing(n int) []byte {
	q := make([]byte, n)
	for i := range q {
		q[i] = missingQual
	}
	return q
}

// Header describes the read groups expected in an input.  The "RG" key maps
// to one entry per read group; each entry has at least an "ID" field.
type Header map[string][]map[string]string

// HeaderFromSAM converts the read groups of a SAM header.  The result always
// has an "RG" key, which is empty if h declares no read groups.  A nil h
// yields a nil Header.
func HeaderFromSAM(h *sam.Header) Header {
	if h == nil {
		return nil
	}
	rgs := []map[string]string{}
	for _, rg := range h.RGs() {
		entry := map[string]string{"ID": rg.Name()}
		if lb := rg.Library(); lb != "" {
			entry["LB"] = lb
		}
		if sm := rg.Get(smTag); sm != "" {
			entry["SM"] = sm
		}
		rgs = append(rgs, entry)
	}
	return Header{"RG": rgs}
}

// RecordSource is a stream of SAM records, e.g. a *sam.Reader or a
// *bam.Reader.  Read returns io.EOF at the end of the stream.
type RecordSource interface {
	Read() (*sam.Record, error)
}

type samIterator struct {
	src  RecordSource
	m    seqtransform.Molecule
	read *RecordRead
	err  error
	done bool
}

// NewSAMIterator returns an Iterator over the records of src.  Each read
// wraps its own record.
func NewSAMIterator(src RecordSource, m seqtransform.Molecule) Iterator {
	return &samIterator{src: src, m: m}
}

func (it *samIterator) Scan() bool {
	if it.done {
		return false
	}
	rec, err := it.src.Read()
	if err != nil {
		it.done = true
		if err != io.EOF {
			it.err = errors.E(err, "reading SAM/BAM record")
		}
		return false
	}
	it.read = &RecordRead{Record: &SAMRecord{R: rec}, Molecule: it.m}
	return true
}

func (it *samIterator) Read() Read { return it.read }

func (it *samIterator) Err() error { return it.err }
