// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package seqtransform

import (
	"github.com/grailbio/base/simd"
)

// Molecule selects the translation table used for complementation.
type Molecule uint8

const (
	// DNA complements T to A and vice versa.
	DNA Molecule = iota
	// RNA complements U to A and vice versa.
	RNA
)

// String implements fmt.Stringer.
func (m Molecule) String() string {
	if m == RNA {
		return "RNA"
	}
	return "DNA"
}

const (
	// IUPACDNA lists the IUPAC nucleotide codes for DNA, ordered such that
	// the reversed string lists the respective complements.
	IUPACDNA = "AGRMHBSNWVDKYCT"
	// IUPACRNA is IUPACDNA with U in place of T.
	IUPACRNA = "AGRMHBSNWVDKYCU"
)

var (
	dnaTable = newTable(IUPACDNA)
	rnaTable = newTable(IUPACRNA)
)

// newTable builds a 256-entry substitution table that maps symbols[i] to
// symbols[len-1-i], for both cases, and every other byte to itself.
func newTable(symbols string) *[256]byte {
	t := new([256]byte)
	for i := range t {
		t[i] = byte(i)
	}
	n := len(symbols)
	for i := 0; i < n; i++ {
		from, to := symbols[i], symbols[n-1-i]
		t[from] = to
		t[from|0x20] = to | 0x20
	}
	return t
}

func table(m Molecule) *[256]byte {
	if m == RNA {
		return rnaTable
	}
	return dnaTable
}

// Reverse returns a new slice holding seq in reverse order.
func Reverse(seq []byte) []byte {
	dst := make([]byte, len(seq))
	simd.Reverse8(dst, seq)
	return dst
}

// ReverseInplace reverses seq.
func ReverseInplace(seq []byte) {
	simd.Reverse8Inplace(seq)
}

// Complement returns a new slice holding the complement of seq.
func Complement(seq []byte, m Molecule) []byte {
	t := table(m)
	dst := make([]byte, len(seq))
	for i, c := range seq {
		dst[i] = t[c]
	}
	return dst
}

// ComplementInplace complements seq.
func ComplementInplace(seq []byte, m Molecule) {
	t := table(m)
	for i, c := range seq {
		seq[i] = t[c]
	}
}

// ReverseComplement returns a new slice holding the reverse-complement of
// seq.  The result is identical to Reverse(Complement(seq, m)).
func ReverseComplement(seq []byte, m Molecule) []byte {
	t := table(m)
	nByte := len(seq)
	dst := make([]byte, nByte)
	for idx, invIdx := 0, nByte-1; idx != nByte; idx, invIdx = idx+1, invIdx-1 {
		dst[idx] = t[seq[invIdx]]
	}
	return dst
}

// ReverseComplementInplace reverse-complements seq.
func ReverseComplementInplace(seq []byte, m Molecule) {
	t := table(m)
	nByte := len(seq)
	nByteDiv2 := nByte >> 1
	for idx, invIdx := 0, nByte-1; idx != nByteDiv2; idx, invIdx = idx+1, invIdx-1 {
		seq[idx], seq[invIdx] = t[seq[invIdx]], t[seq[idx]]
	}
	if nByte&1 == 1 {
		seq[nByteDiv2] = t[seq[nByteDiv2]]
	}
}

// ComplementString is the string version of Complement.
func ComplementString(s string, m Molecule) string {
	return string(Complement([]byte(s), m))
}

// ReverseComplementString is the string version of ReverseComplement.
func ReverseComplementString(s string, m Molecule) string {
	return string(ReverseComplement([]byte(s), m))
}
