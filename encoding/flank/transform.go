// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package flank

import (
	"strings"

	"github.com/pkg/errors"
)

// MaxAlleleALen is the longest allele A that ReverseComplement will swap.
const MaxAlleleALen = 8

// complementTable maps each IUPAC nucleotide code, the gap symbol and the
// flank delimiters to their complement. Brackets swap so that a reversed
// flank stays well-formed.
var complementTable = map[byte]byte{
	'A': 'T', 'T': 'A',
	'C': 'G', 'G': 'C',
	'R': 'Y', 'Y': 'R',
	'S': 'S', 'W': 'W',
	'K': 'M', 'M': 'K',
	'B': 'V', 'V': 'B',
	'D': 'H', 'H': 'D',
	'N': 'N',
	'-': '-',
	'/': '/',
	'[': ']', ']': '[',
}

// Complement returns the complement of the IUPAC code c. It fails with
// ErrInvalidNucleotide for characters outside the table.
func Complement(c byte) (byte, error) {
	if r, ok := complementTable[c]; ok {
		return r, nil
	}
	return 0, errors.Wrapf(ErrInvalidNucleotide, "%q", c)
}

// ReverseComplement returns the flank as designed on the opposite strand.
// Allele A remains in the allele A slot (so "[-/TG]" becomes "[-/CA]"); this
// requires allele A to be at most MaxAlleleALen bases long.
//
// ReverseComplement(ReverseComplement(f)) == f for every flank it accepts.
func ReverseComplement(f Flank) (Flank, error) {
	if len(f.AlleleA()) > MaxAlleleALen {
		return Flank{}, errors.Wrapf(ErrAlleleTooLong, "%s", f.text)
	}
	// Swap the alleles first; reversing the text swaps them back.
	swapped := f.Left() + "[" + f.AlleleB() + "/" + f.AlleleA() + "]" + f.Right()
	n := len(swapped)
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		c, err := Complement(swapped[n-1-i])
		if err != nil {
			return Flank{}, errors.Wrapf(err, "flank %s", f.text)
		}
		buf[i] = c
	}
	return Parse(string(buf))
}

// LeftShift moves the bracketed alleles leftward for as long as the bases
// immediately left of '[' spell allele B, carrying each matched copy of allele
// B over to the start of the right flank. This is the way Illumina left-aligns
// indels in its probe designs, e.g.
//
//   GATGAT[-/GAT]C  ->  [-/GAT]GATGATC
//
// The result is a fixed point: LeftShift(LeftShift(f)) == LeftShift(f).
func LeftShift(f Flank) Flank {
	b := f.AlleleB()
	n := len(b)
	if n == 0 {
		return f
	}
	left := f.Left()
	shifts := 0
	for len(left) >= n && left[len(left)-n:] == b {
		left = left[:len(left)-n]
		shifts++
	}
	if shifts == 0 {
		return f
	}
	var sb strings.Builder
	sb.Grow(len(f.text))
	sb.WriteString(left)
	sb.WriteString(f.text[f.open : f.close+1])
	for i := 0; i < shifts; i++ {
		sb.WriteString(b)
	}
	sb.WriteString(f.Right())
	shifted := Flank{
		text:  sb.String(),
		open:  f.open - shifts*n,
		slash: f.slash - shifts*n,
		close: f.close - shifts*n,
	}
	return shifted
}
