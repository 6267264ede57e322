// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package flank parses and transforms Illumina probe-design flank sequences.
// A flank sequence anchors a polymorphism between two stretches of fixed
// sequence, e.g.
//
//   ACGTTGCA[A/G]TTGCAAGT
//   ACGTTGCA[-/TG]TTGCAAGT
//
// The text left of '[' is the left flank, the text between '[' and '/' is
// allele A, the text between '/' and ']' is allele B, and the text after ']'
// is the right flank. An allele A of "-" denotes a deletion relative to
// allele B.
package flank

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMalformed is returned when a flank sequence does not contain exactly
	// one '[', '/' and ']', in that order.
	ErrMalformed = errors.New("flank sequence is malformed")
	// ErrAlleleTooLong is returned by ReverseComplement when allele A is
	// longer than MaxAlleleALen.
	ErrAlleleTooLong = errors.New("cannot swap alleles in flank sequence")
	// ErrInvalidNucleotide is returned when a character has no defined
	// complement.
	ErrInvalidNucleotide = errors.New("invalid nucleotide")
)

// Flank is an immutable view over a flank sequence. The zero value is not a
// valid Flank; use Parse.
type Flank struct {
	text string
	// Byte offsets of '[', '/' and ']' in text.
	open, slash, close int
}

// Parse validates text and returns the corresponding Flank. It fails with
// ErrMalformed unless text has exactly one '[', '/' and ']', in that order.
func Parse(text string) (Flank, error) {
	f := Flank{
		text:  text,
		open:  strings.IndexByte(text, '['),
		slash: strings.IndexByte(text, '/'),
		close: strings.IndexByte(text, ']'),
	}
	if f.open < 0 || f.slash < 0 || f.close < 0 ||
		f.open > f.slash || f.slash > f.close ||
		strings.Count(text, "[") != 1 || strings.Count(text, "/") != 1 || strings.Count(text, "]") != 1 {
		return Flank{}, errors.Wrapf(ErrMalformed, "%q", text)
	}
	return f, nil
}

// MustParse is like Parse, but panics on error.
func MustParse(text string) Flank {
	f, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return f
}

// String returns the flank sequence text.
func (f Flank) String() string { return f.text }

// Left returns the sequence before '['.
func (f Flank) Left() string { return f.text[:f.open] }

// AlleleA returns the text between '[' and '/'.
func (f Flank) AlleleA() string { return f.text[f.open+1 : f.slash] }

// AlleleB returns the text between '/' and ']'.
func (f Flank) AlleleB() string { return f.text[f.slash+1 : f.close] }

// Right returns the sequence after ']'.
func (f Flank) Right() string { return f.text[f.close+1:] }

// IsDeletion reports whether allele A is a deletion relative to allele B,
// i.e. whether '/' is immediately preceded by '-'.
func (f Flank) IsDeletion() bool {
	return f.slash > 0 && f.text[f.slash-1] == '-'
}

// HasGap reports whether a '-' appears anywhere in the flank sequence. Probe
// position arithmetic treats any such flank as an indel design.
func (f Flank) HasGap() bool {
	return strings.IndexByte(f.text, '-') >= 0
}

// MateQueries returns the two query sequences designed for the probe: mate 1
// carries allele A and mate 2 carries allele B, both embedded between the
// flanks. A deleted allele A contributes no bases to mate 1.
func MateQueries(f Flank) [2]string {
	var q [2]string
	if f.IsDeletion() {
		q[0] = f.Left() + f.Right()
	} else {
		q[0] = f.Left() + f.AlleleA() + f.Right()
	}
	q[1] = f.Left() + f.AlleleB() + f.Right()
	return q
}
