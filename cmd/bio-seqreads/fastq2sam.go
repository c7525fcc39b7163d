package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
	"github.com/wm75/mimodd-lib/encoding/fastq"
	"github.com/wm75/mimodd-lib/seqread"
)

func fastqToSAMFile(ctx context.Context, r1Path, r2Path, outPath, rg string) error {
	in1, err := openInput(ctx, r1Path)
	if err != nil {
		return err
	}
	in2, err := openInput(ctx, r2Path)
	if err != nil {
		in1.close(ctx, &errors.Once{})
		return err
	}
	out, err := createOutput(ctx, outPath)
	if err != nil {
		in1.close(ctx, &errors.Once{})
		in2.close(ctx, &errors.Once{})
		return err
	}
	once := errors.Once{}
	once.Set(fastqToSAM(in1.r, in2.r, out.w, rg))
	in1.close(ctx, &once)
	in2.close(ctx, &once)
	out.close(ctx, &once)
	return once.Err()
}

// templateName strips the segment suffix, if any, from a FASTQ read ID.
func templateName(id string) string {
	if strings.HasSuffix(id, "/1") || strings.HasSuffix(id, "/2") {
		return id[:len(id)-2]
	}
	return id
}

// fastqToSAM writes the read pairs of the FASTQ streams r1 and r2 as
// unaligned SAM records to w.  If rg is not empty, it is declared in the
// header and assigned to every read.
func fastqToSAM(r1, r2 io.Reader, w io.Writer, rg string) error {
	text := "@HD\tVN:1.4\tSO:unsorted\n"
	if rg != "" {
		text += fmt.Sprintf("@RG\tID:%s\n", rg)
	}
	h, err := sam.NewHeader([]byte(text), nil)
	if err != nil {
		return errors.E(errors.Invalid, err, "read group", rg)
	}
	sw, err := sam.NewWriter(w, h, sam.FlagDecimal)
	if err != nil {
		return errors.E(err, "writing SAM header")
	}
	var (
		s      = fastq.NewPairScanner(r1, r2, fastq.All)
		f1, f2 fastq.Read
		n      int
	)
	for s.Scan(&f1, &f2) {
		reads := [2]*seqread.SimpleRead{
			{Title: f1.ID, Sequence: []byte(f1.Seq), Quality: []byte(f1.Qual)},
			{Title: f2.ID, Sequence: []byte(f2.Seq), Quality: []byte(f2.Qual)},
		}
		name := templateName(reads[0].ID())
		if name2 := templateName(reads[1].ID()); name != name2 {
			return errors.E(errors.Invalid, fmt.Sprintf("discordant read names %s and %s", f1.ID, f2.ID))
		}
		p1, p2 := seqread.NewUnalignedPair()
		for i, p := range [2]*seqread.RecordRead{p1, p2} {
			rec := p.Record.(*seqread.SAMRecord)
			rec.SetName(name)
			rec.SetSeq(reads[i].Seq())
			rec.SetQual(reads[i].Qual())
			if rg != "" {
				if err := rec.SetTag("RG", rg); err != nil {
					return err
				}
			}
			if err := sw.Write(rec.R); err != nil {
				return errors.E(err, "writing SAM record", name)
			}
		}
		n++
	}
	if err := s.Err(); err != nil {
		return err
	}
	log.Printf("converted %d read pairs", n)
	return nil
}
