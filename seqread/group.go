// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqread

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
)

// ErrNoReads is returned by a Splitter whose input holds no primary reads.
var ErrNoReads = errors.New("no reads in input")

const nonPrimary = sam.Secondary | sam.Supplementary

func isPrimary(r Read) bool { return r.Flags()&nonPrimary == 0 }

func readGroup(r Read) string {
	rg, _ := r.ReadGroup()
	return rg
}

// Group holds the primary reads of one sequencing template.
type Group struct {
	// ReadGroup is the read group shared by all reads, or "" if they do not
	// declare one.
	ReadGroup string
	Reads     []Read
}

// Grouper yields consecutive primary reads that share their ID and read
// group.  Secondary and supplementary reads are dropped.  The input must be
// sorted, or at least grouped, by read name; otherwise the segments of a
// template end up in separate groups.
type Grouper struct {
	src   Iterator
	next  Read
	eof   bool
	group Group
	err   error
}

// GroupByName returns a Grouper over the reads of src.
func GroupByName(src Iterator) *Grouper {
	return &Grouper{src: src}
}

func (g *Grouper) advance() (Read, bool) {
	if g.eof {
		return nil, false
	}
	if !g.src.Scan() {
		g.eof = true
		g.err = g.src.Err()
		return nil, false
	}
	return g.src.Read(), true
}

// Scan advances to the next group.  It returns false at the end of the input
// or on error.
func (g *Grouper) Scan() bool {
	if g.err != nil {
		return false
	}
	anchor := g.next
	g.next = nil
	for anchor == nil || !isPrimary(anchor) {
		if anchor != nil {
			log.Debug.Printf("skipping non-primary read %s (flags %d)", anchor.ID(), anchor.Flags())
		}
		var ok bool
		if anchor, ok = g.advance(); !ok {
			return false
		}
	}
	id, rg := anchor.ID(), readGroup(anchor)
	reads := []Read{anchor}
	for {
		r, ok := g.advance()
		if !ok {
			if g.err != nil {
				return false
			}
			break
		}
		if r.ID() != id || readGroup(r) != rg {
			g.next = r
			break
		}
		if isPrimary(r) {
			reads = append(reads, r)
		}
	}
	g.group = Group{ReadGroup: rg, Reads: reads}
	return true
}

// Group returns the current group.
func (g *Grouper) Group() Group { return g.group }

// Err returns the error of the underlying Iterator, if any.
func (g *Grouper) Err() error { return g.err }

// ReadGroupError reports a read whose read group was not expected.
type ReadGroupError struct {
	// Missing is set if the read declares no read group.
	Missing bool
	// ReadGroup is the read group of the read.
	ReadGroup string
	// Name is the ID of the read.
	Name string
}

func (e *ReadGroupError) Error() string {
	if e.Missing {
		return fmt.Sprintf(`missing "RG" tag for read %s from an input with declared read groups`, e.Name)
	}
	return fmt.Sprintf(`unknown "RG" tag %q for read %s`, e.ReadGroup, e.Name)
}

// Splitter groups reads like Grouper and checks their read groups.
type Splitter struct {
	g         *Grouper
	rgs       map[string]bool
	defaultRG string
	started   bool
	group     Group
	err       error
}

// NewSplitter returns a Splitter over the reads of src.
//
// If header is nil, read groups are not checked.  Otherwise header must have
// an "RG" key.  If it lists any read groups, every group of reads must
// belong to one of them.  If it lists none, every group must belong to the
// read group of the first one.
//
// A non-empty defaultRG is used as the read group of reads that declare
// none, before any check.  It cannot be combined with declared read groups.
func NewSplitter(src Iterator, header Header, defaultRG string) (*Splitter, error) {
	s := &Splitter{g: GroupByName(src), defaultRG: defaultRG}
	if header == nil {
		return s, nil
	}
	entries, ok := header["RG"]
	if !ok {
		return nil, errors.E(errors.Invalid, `header needs to provide an "RG" key`)
	}
	s.rgs = make(map[string]bool, len(entries))
	for i, entry := range entries {
		id, ok := entry["ID"]
		if !ok {
			return nil, errors.E(errors.Invalid, fmt.Sprintf(`read group entry %d has no "ID" field`, i))
		}
		s.rgs[id] = true
	}
	if len(s.rgs) > 0 && defaultRG != "" {
		return nil, errors.E(errors.Invalid, "cannot use a default read group when read groups are declared in the header")
	}
	return s, nil
}

// Scan advances to the next group.  It returns false at the end of the input
// or on error; an input without any primary read is an error (ErrNoReads).
func (s *Splitter) Scan() bool {
	if s.err != nil {
		return false
	}
	if !s.g.Scan() {
		s.err = s.g.Err()
		if s.err == nil && !s.started {
			s.err = ErrNoReads
		}
		return false
	}
	grp := s.g.Group()
	if grp.ReadGroup == "" {
		grp.ReadGroup = s.defaultRG
	}
	if !s.started {
		s.started = true
		if s.rgs != nil && len(s.rgs) == 0 {
			log.Debug.Printf("no read groups declared, expecting all reads in read group %q", grp.ReadGroup)
			s.rgs[grp.ReadGroup] = true
		}
	}
	if s.rgs != nil && !s.rgs[grp.ReadGroup] {
		s.err = &ReadGroupError{
			Missing:   grp.ReadGroup == "",
			ReadGroup: grp.ReadGroup,
			Name:      grp.Reads[0].ID(),
		}
		return false
	}
	s.group = grp
	return true
}

// Group returns the current group.  Its ReadGroup has the default read group
// substituted.
func (s *Splitter) Group() Group { return s.group }

// Err returns the error that stopped the Splitter, if any.
func (s *Splitter) Err() error { return s.err }
