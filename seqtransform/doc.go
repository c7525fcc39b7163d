// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package seqtransform provides reversal, complementation and
// reverse-complementation of nucleotide sequences stored as ASCII bytes.
//
// Complementation maps every IUPAC nucleotide code to its complement and
// preserves case, e.g. 'A'<->'T', 'r'<->'y', 'N'->'N'.  Bytes outside the
// alphabet are passed through unchanged; the functions in this package never
// fail.  Applying Complement twice always yields the input.
package seqtransform
