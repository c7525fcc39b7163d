package main

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/wm75/mimodd-lib/encoding/fastq"
	"github.com/wm75/mimodd-lib/seqread"
	"github.com/wm75/mimodd-lib/seqtransform"
)

func revcompFile(ctx context.Context, inPath, outPath string, m seqtransform.Molecule) error {
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
	once.Set(revcomp(in.r, out.w, m))
	in.close(ctx, &once)
	out.close(ctx, &once)
	return once.Err()
}

// revcomp writes the reverse-complement of every FASTQ read of r to w.
func revcomp(r io.Reader, w io.Writer, m seqtransform.Molecule) error {
	it := seqread.NewFastqIterator(fastq.NewScanner(r, fastq.All), m)
	fw := fastq.NewWriter(w)
	n := 0
	for it.Scan() {
		read := it.Read()
		read.ReverseComplement()
		title, seq, qual := read.Data()
		if err := fw.Write(&fastq.Read{ID: title, Seq: string(seq), Qual: string(qual)}); err != nil {
			return errors.E(err, "writing FASTQ")
		}
		n++
	}
	if err := it.Err(); err != nil {
		return err
	}
	log.Printf("reverse-complemented %d %s reads", n, m)
	return nil
}
