package main

import (
	"context"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/wm75/mimodd-lib/encoding/fasta"
)

type describeOpts struct {
	sanitize    bool
	replacement string
	digest      string
	nucleotide  bool
}

func describe(ctx context.Context, inPath, outPath string, opts describeOpts) error {
	in, err := openInput(ctx, inPath)
	if err != nil {
		return err
	}
	out, err := createOutput(ctx, outPath)
	if err != nil {
		in.close(ctx, &errors.Once{})
		return err
	}
	once := errors.Once{}
	once.Set(writeDescription(in.r, out.w, opts))
	in.close(ctx, &once)
	out.close(ctx, &once)
	return once.Err()
}

// writeDescription writes one line per FASTA record of r to w: the record
// ID, its sequence length and its digest ("*" for an empty sequence).
func writeDescription(r io.Reader, w io.Writer, opts describeOpts) error {
	var fopts fasta.Opts
	switch opts.digest {
	case "", "md5":
	case "highway":
		fopts.Digest = fasta.HighwayDigest
	default:
		return errors.E(errors.Invalid, "unknown digest", opts.digest)
	}
	if opts.nucleotide {
		fopts.Validate = fasta.NucleotideAlphabet.Validate
	}
	tw := tsv.NewWriter(w)
	tw.WriteString("#ID\tLENGTH\tDIGEST")
	if err := tw.EndLine(); err != nil {
		return err
	}
	n, unsafe := 0, 0
	err := fasta.NewReader(r, fopts).Describe(func(s fasta.Summary) error {
		id := fasta.HeaderID(s.Header)
		if !fasta.IsSafeID(id) {
			unsafe++
			if opts.sanitize {
				id = fasta.SanitizeID(id, opts.replacement)
			}
		}
		digest := s.Digest
		if digest == "" {
			digest = "*"
		}
		tw.WriteString(id)
		tw.WriteString(strconv.Itoa(s.Length))
		tw.WriteString(digest)
		n++
		return tw.EndLine()
	})
	if err != nil {
		return err
	}
	if unsafe > 0 && !opts.sanitize {
		log.Error.Printf("%d sequence identifiers contain characters that are unsafe in SAM/VCF headers, consider -sanitize", unsafe)
	}
	log.Printf("described %d sequences", n)
	return tw.Flush()
}
