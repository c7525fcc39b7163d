package main

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/wm75/mimodd-lib/seqread"
	"github.com/wm75/mimodd-lib/seqtransform"
)

func groupsFile(ctx context.Context, inPath, outPath, defaultRG string) error {
	in, err := openInput(ctx, inPath)
	if err != nil {
		return err
	}
	var (
		src    seqread.RecordSource
		header *sam.Header
	)
	if strings.HasSuffix(inPath, ".bam") {
		br, err := bam.NewReader(in.r, 1)
		if err != nil {
			in.close(ctx, &errors.Once{})
			return errors.E(err, "read BAM header", inPath)
		}
		defer br.Close() // nolint: errcheck
		src, header = br, br.Header()
	} else {
		sr, err := sam.NewReader(in.r)
		if err != nil {
			in.close(ctx, &errors.Once{})
			return errors.E(err, "read SAM header", inPath)
		}
		src, header = sr, sr.Header()
	}
	out, err := createOutput(ctx, outPath)
	if err != nil {
		in.close(ctx, &errors.Once{})
		return err
	}
	once := errors.Once{}
	once.Set(writeGroups(src, header, out.w, defaultRG))
	in.close(ctx, &once)
	out.close(ctx, &once)
	return once.Err()
}

// writeGroups writes the read group, the name and the number of primary
// segments of every template of the name-sorted src to w.
func writeGroups(src seqread.RecordSource, header *sam.Header, w io.Writer, defaultRG string) error {
	s, err := seqread.NewSplitter(seqread.NewSAMIterator(src, seqtransform.DNA), seqread.HeaderFromSAM(header), defaultRG)
	if err != nil {
		return err
	}
	tw := tsv.NewWriter(w)
	tw.WriteString("#RG\tQNAME\tSEGMENTS")
	if err := tw.EndLine(); err != nil {
		return err
	}
	n := 0
	for s.Scan() {
		g := s.Group()
		tw.WriteString(g.ReadGroup)
		tw.WriteString(g.Reads[0].ID())
		tw.WriteString(strconv.Itoa(len(g.Reads)))
		if err := tw.EndLine(); err != nil {
			return err
		}
		n++
	}
	if err := s.Err(); err != nil {
		return err
	}
	log.Printf("listed %d templates", n)
	return tw.Flush()
}
