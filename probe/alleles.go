// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package probe

import "github.com/pkg/errors"

// NoCall is the allele placeholder for a designed allele that is absent.
const NoCall = "."

func firstByte(s string) byte {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// ClassifyAlleles returns the index of allele B in the ordered allele list of
// a site whose reference base is ref:
//
//   1  allele A is the reference (also for symbolic D/I indel alleles)
//   0  allele B is the reference
//   2  the reference matches neither allele
//
// A no-call allele (one starting with ".") is replaced by the reference base,
// and the possibly rewritten alleles are returned. Only the first base of each
// allele is compared.
func ClassifyAlleles(ref byte, a, b string) (idx int, alleleA, alleleB string) {
	fa, fb := firstByte(a), firstByte(b)
	switch {
	case fa == 'D', fa == 'I', fb == 'D', fb == 'I':
		return 1, a, b
	case fa == ref:
		return 1, a, b
	case fb == ref:
		return 0, a, b
	case fa == NoCall[0]:
		return 1, string(ref), b
	case fb == NoCall[0]:
		return 0, a, string(ref)
	}
	return 2, a, b
}

// AlleleAIndex maps the index of allele B (as returned by ClassifyAlleles) to
// the index of allele A, or -1 if allele A is not emitted.
func AlleleAIndex(bIdx int) int {
	switch bIdx {
	case 0, 2:
		return 1
	case 1:
		return 0
	}
	return -1
}

// OrderAlleles returns the VCF allele list, reference first, for the allele B
// index idx. idx -1 denotes a monomorphic site and yields just ref. A no-call
// allele in the alternate slot is omitted.
func OrderAlleles(ref, a, b string, idx int) ([]string, error) {
	switch idx {
	case -1:
		return []string{ref}, nil
	case 0:
		if firstByte(a) == NoCall[0] {
			return []string{b}, nil
		}
		return []string{b, a}, nil
	case 1:
		if firstByte(b) == NoCall[0] {
			return []string{a}, nil
		}
		return []string{a, b}, nil
	case 2:
		return []string{ref, a, b}, nil
	}
	return nil, errors.Wrapf(ErrAlleleIndex, "%d", idx)
}
