package seqread

import (
	"github.com/wm75/mimodd-lib/encoding/fastq"
	"github.com/wm75/mimodd-lib/seqtransform"
)

// Iterator is a stream of reads.  A read returned by Read stays valid after
// the next call to Scan.
type Iterator interface {
	// Scan advances to the next read and reports whether there is one.
	Scan() bool
	Read() Read
	// Err returns the error that ended the stream, or nil at its regular end.
	Err() error
}

type sliceIterator struct {
	reads []Read
	cur   Read
}

// NewSliceIterator returns an Iterator over reads.
func NewSliceIterator(reads ...Read) Iterator {
	return &sliceIterator{reads: reads}
}

func (it *sliceIterator) Scan() bool {
	if len(it.reads) == 0 {
		return false
	}
	it.cur, it.reads = it.reads[0], it.reads[1:]
	return true
}

func (it *sliceIterator) Read() Read { return it.cur }

func (it *sliceIterator) Err() error { return nil }

type fastqIterator struct {
	s   *fastq.Scanner
	m   seqtransform.Molecule
	buf fastq.Read
	cur *SimpleRead
}

// NewFastqIterator returns an Iterator over the records of s.  Every read is
// a copy owned by the caller.
func NewFastqIterator(s *fastq.Scanner, m seqtransform.Molecule) Iterator {
	return &fastqIterator{s: s, m: m}
}

func (it *fastqIterator) Scan() bool {
	if !it.s.Scan(&it.buf) {
		return false
	}
	it.cur = &SimpleRead{
		Title:    it.buf.ID,
		Sequence: []byte(it.buf.Seq),
		Quality:  []byte(it.buf.Qual),
		Molecule: it.m,
	}
	return true
}

func (it *fastqIterator) Read() Read { return it.cur }

func (it *fastqIterator) Err() error { return it.s.Err() }
