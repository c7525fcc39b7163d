package fasta

import (
	"crypto/md5"
	"encoding/hex"
	"hash"

	"github.com/minio/highwayhash"
)

// Summary describes one FASTA record.
type Summary struct {
	Header string
	Length int
	// Digest is the hex digest of the upper-cased sequence, or "" if the
	// sequence is empty.
	Digest string
}

// highwayKey is the fixed key used by HighwayDigest.  Digests are only
// comparable between runs that use the same key.
var highwayKey = []byte("mimodd-fasta-sequence-digest-key")

// HighwayDigest returns a 256-bit HighwayHash.  It can be used as Opts.Digest
// where MD5 compatibility with SAM @SQ M5 fields is not required.
func HighwayDigest() hash.Hash {
	h, err := highwayhash.New(highwayKey)
	if err != nil {
		panic(err)
	}
	return h
}

func (r *Reader) newDigest() hash.Hash {
	if r.opts.Digest != nil {
		return r.opts.Digest()
	}
	return md5.New()
}

// Identifiers calls fn with the header of every remaining record.  Sequence
// lines are skipped without being parsed or validated.
func (r *Reader) Identifiers(fn func(header string) error) error {
	for r.Scan() {
		if err := fn(r.Header()); err != nil {
			return err
		}
	}
	return r.Err()
}

// Sequences calls fn with the header and the concatenated sequence of every
// remaining record.  The seq slice is reused across calls.
func (r *Reader) Sequences(fn func(header string, seq []byte) error) error {
	var seq []byte
	for r.Scan() {
		seq = seq[:0]
		lines := r.Lines()
		for lines.Scan() {
			seq = append(seq, lines.Bytes()...)
		}
		if err := lines.Err(); err != nil {
			return err
		}
		if err := fn(r.Header(), seq); err != nil {
			return err
		}
	}
	return r.Err()
}

// SeqLens calls fn with the header and the sequence length of every remaining
// record.
func (r *Reader) SeqLens(fn func(header string, n int) error) error {
	return r.Describe(func(s Summary) error { return fn(s.Header, s.Length) })
}

// Digests calls fn with the header and the sequence digest of every remaining
// record.  The digest is "" for records without sequence.
func (r *Reader) Digests(fn func(header, digest string) error) error {
	return r.Describe(func(s Summary) error { return fn(s.Header, s.Digest) })
}

// Describe calls fn with a Summary of every remaining record.
func (r *Reader) Describe(fn func(Summary) error) error {
	h := r.newDigest()
	for r.Scan() {
		h.Reset()
		s := Summary{Header: r.Header()}
		lines := r.Lines()
		for lines.Scan() {
			line := lines.Bytes()
			upperInplace(line)
			h.Write(line) // nolint: errcheck
			s.Length += len(line)
		}
		if err := lines.Err(); err != nil {
			return err
		}
		if s.Length > 0 {
			s.Digest = hex.EncodeToString(h.Sum(nil))
		}
		if err := fn(s); err != nil {
			return err
		}
	}
	return r.Err()
}

func upperInplace(b []byte) {
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
}
