package main

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/wm75/mimodd-lib/encoding/fastq"
)

func downsampleFiles(ctx context.Context, rate float64, r1Path, r2Path, r1OutPath, r2OutPath string) error {
	var (
		ins  []*input
		outs []*output
		once errors.Once
	)
	for _, path := range []string{r1Path, r2Path} {
		in, err := openInput(ctx, path)
		if err != nil {
			once.Set(err)
			break
		}
		ins = append(ins, in)
	}
	if once.Err() == nil {
		for _, path := range []string{r1OutPath, r2OutPath} {
			out, err := createOutput(ctx, path)
			if err != nil {
				once.Set(err)
				break
			}
			outs = append(outs, out)
		}
	}
	if once.Err() == nil {
		once.Set(fastq.Downsample(rate, ins[0].r, ins[1].r, outs[0].w, outs[1].w))
	}
	for _, in := range ins {
		in.close(ctx, &once)
	}
	for _, out := range outs {
		out.close(ctx, &once)
	}
	return once.Err()
}
