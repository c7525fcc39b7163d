package fastq

import (
	"io"
	"math/rand"

	"github.com/pkg/errors"
)

// Downsample writes read pairs from r1In and r2In to r1Out and r2Out. Read pairs will be randomly
// selected for inclusion in the output at the given sampling rate. The selection is
// deterministic for a given input.
func Downsample(rate float64, r1In, r2In io.Reader, r1Out, r2Out io.Writer) error {
	if rate < 0.0 || rate > 1.0 {
		return errors.New("rate must be between 0 and 1 (inclusive)")
	}
	var (
		random = rand.New(rand.NewSource(0))
		s      = NewPairScanner(r1In, r2In, All)
		w1     = NewWriter(r1Out)
		w2     = NewWriter(r2Out)
		r1, r2 Read
	)
	for s.Scan(&r1, &r2) {
		if random.Float64() >= rate {
			continue
		}
		if err := w1.Write(&r1); err != nil {
			return errors.Wrap(err, "error writing R1 output")
		}
		if err := w2.Write(&r2); err != nil {
			return errors.Wrap(err, "error writing R2 output")
		}
	}
	return errors.Wrap(s.Err(), "error reading FASTQ pairs")
}
