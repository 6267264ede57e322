// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package probe

import (
	"github.com/grailbio/flank2vcf/encoding/flank"
	"github.com/pkg/errors"
)

// IndelClass tells which allele of an indel probe the reference carries.
type IndelClass int

const (
	// ComplexIndel means neither the insertion nor the deletion reading of
	// the flank matches the reference cleanly. The alleles are reported as
	// the symbols "I" and "D".
	ComplexIndel IndelClass = iota
	// RefIsAlleleA means the reference carries allele A.
	RefIsAlleleA
	// RefIsAlleleB means the reference carries allele B.
	RefIsAlleleB
)

func (c IndelClass) String() string {
	switch c {
	case RefIsAlleleA:
		return "RefIsAlleleA"
	case RefIsAlleleB:
		return "RefIsAlleleB"
	default:
		return "ComplexIndel"
	}
}

// IndelResolution is the result of ResolveIndel.
type IndelResolution struct {
	Class IndelClass
	// RefLacksIndel is set when the reference lacks the indel sequence,
	// i.e. the reference matches the flank with allele B removed.
	RefLacksIndel bool
	// Pos is the 0-based reference position of RefBase, the anchor base
	// preceding the indel (or the base at the probe position for a complex
	// indel).
	Pos     int
	RefBase byte
	// AlleleA and AlleleB are literal sequences starting with RefBase, or
	// the symbols "I"/"D" for a complex indel.
	AlleleA, AlleleB string
}

// baseAt returns s[i], or 0 if i is out of range. 0 never matches a base.
func baseAt(s string, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

// commonSuffixLen returns the number of matching bytes walking backwards from
// a[i] and b[j], up to n.
func commonSuffixLen(a string, i int, b string, j int, n int) int {
	k := 0
	for k < n {
		c := baseAt(a, i-k)
		if c == 0 || c != baseAt(b, j-k) {
			break
		}
		k++
	}
	return k
}

// commonPrefixLen returns the number of matching bytes walking forwards from
// a[i] and b[j], up to n.
func commonPrefixLen(a string, i int, b string, j int, n int) int {
	k := 0
	for k < n {
		c := baseAt(a, i+k)
		if c == 0 || c != baseAt(b, j+k) {
			break
		}
		k++
	}
	return k
}

// ResolveIndel decides whether the reference around the 0-based position pos
// carries the indel sequence (allele B of f) or not, and returns the anchored
// VCF-style alleles. bIsDeletion tells which designed allele is the deletion:
// when set, allele B is the short allele and allele A carries the indel
// sequence.
//
// Under the deletion reading the left flank ends at pos and the right flank
// starts at pos+1; under the insertion reading the left flank ends at pos-1,
// allele B spans [pos, pos+len(B)) and the right flank follows. The deletion
// reading wins when both its flank matches are at least as long as the
// insertion reading's. A reading whose left or right flank match is empty (or,
// for insertions, whose allele B does not match) is rejected, yielding
// ComplexIndel.
func ResolveIndel(f flank.Flank, ref Reference, chrom string, pos int, bIsDeletion bool) (IndelResolution, error) {
	text := f.String()
	left, b, right := f.Left(), f.AlleleB(), f.Right()
	nl, nb, nr := len(left), len(b), len(right)

	start := pos - nl
	window, err := ref.Fetch(chrom, start, pos-1+nb+nr)
	if err != nil {
		return IndelResolution{}, errors.Wrapf(err, "flank %s at %s:%d", text, chrom, pos+1)
	}
	rightOff := len(text) - nr

	var (
		delLeft  = commonSuffixLen(text, nl-1, window, nl, nl)
		delRight = commonPrefixLen(text, rightOff, window, nl+1, nr)
		insMatch = nl+nb <= len(window) && window[nl:nl+nb] == b
		insLeft  = commonSuffixLen(text, nl-1, window, nl-1, nl)
		insRight = commonPrefixLen(text, rightOff, window, nl+nb, nr)
	)
	refLacksIndel := delLeft >= insLeft && delRight >= insRight
	if (refLacksIndel && (delLeft == 0 || delRight == 0)) ||
		(!refLacksIndel && (!insMatch || insLeft == 0 || insRight == 0)) {
		res := IndelResolution{
			Class:   ComplexIndel,
			Pos:     pos,
			RefBase: baseAt(window, nl),
			AlleleA: "D",
			AlleleB: "I",
		}
		if res.RefBase == 0 {
			res.RefBase = 'N'
		}
		if bIsDeletion {
			res.AlleleA, res.AlleleB = "I", "D"
		}
		return res, nil
	}

	offset, run := 0, ""
	if refLacksIndel {
		offset, run = 1, b
	} else {
		run = window[nl : nl+nb]
	}
	res := IndelResolution{
		RefLacksIndel: refLacksIndel,
		Pos:           pos - 1 + offset,
		RefBase:       window[nl-1+offset],
	}
	res.AlleleA = string(res.RefBase)
	res.AlleleB = string(res.RefBase)
	if bIsDeletion {
		res.AlleleA += run
	} else {
		res.AlleleB += run
	}
	// The allele without the indel sequence is the reference when the
	// reference lacks it.
	if refLacksIndel == bIsDeletion {
		res.Class = RefIsAlleleB
	} else {
		res.Class = RefIsAlleleA
	}
	return res, nil
}
