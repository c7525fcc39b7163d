package main

import (
	"bufio"
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// input is an opened input file.
type input struct {
	f file.File
	r io.Reader
}

func openInput(ctx context.Context, path string) (*input, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	return &input{f: f, r: f.Reader(ctx)}, nil
}

func (in *input) close(ctx context.Context, once *errors.Once) {
	once.Set(in.f.Close(ctx))
}

// output is a buffered output file.
type output struct {
	f file.File
	w *bufio.Writer
}

func createOutput(ctx context.Context, path string) (*output, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	return &output{f: f, w: bufio.NewWriter(f.Writer(ctx))}, nil
}

// close flushes and closes the file.  Errors are recorded in once, which
// keeps the first one.
func (out *output) close(ctx context.Context, once *errors.Once) {
	once.Set(out.w.Flush())
	once.Set(out.f.Close(ctx))
}
