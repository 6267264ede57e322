// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package probe

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/flank2vcf/encoding/bamprovider"
	"github.com/grailbio/flank2vcf/encoding/flank"
	"github.com/grailbio/hts/sam"
	"github.com/pkg/errors"
)

// Strand is the genomic strand a probe was designed on.
type Strand int

const (
	// StrandUnknown is reported for unmapped or unresolved probes.
	StrandUnknown Strand = iota - 1
	// StrandForward means the flank sequence reads along the reference.
	StrandForward
	// StrandReverse means the flank sequence is reverse-complemented
	// relative to the reference.
	StrandReverse
)

// String returns "+", "-" or ".".
func (s Strand) String() string {
	switch s {
	case StrandForward:
		return "+"
	case StrandReverse:
		return "-"
	default:
		return "."
	}
}

// unmappedChrom is the chromosome reported for a mate without a reference.
const unmappedChrom = "---"

// Locus is the genomic location of a probe's polymorphic site.
type Locus struct {
	Chrom string
	// Pos is the 1-based position of the site, or 0 if it could not be
	// determined.
	Pos    int
	Strand Strand
	// Mate is the index (0 for ":1", 1 for ":2") of the authoritative
	// alignment, or -1 if the locus is unresolved.
	Mate int
}

// Resolved reports whether the position of the locus is known.
func (l Locus) Resolved() bool { return l.Pos != 0 }

// mateObservation is the alignment result of one mate.
type mateObservation struct {
	seen   bool
	chrom  string
	pos    int
	strand Strand
	score  int64
}

// mateIndex validates qname against the marker name and returns 0 for a ":1"
// suffix or 1 for ":2".
func mateIndex(name, qname string) (int, error) {
	if len(qname) < 2 || qname[:len(qname)-2] != name {
		return -1, errors.Wrapf(ErrIdentifierMismatch, "query ID %s found but %s expected", qname, name)
	}
	switch qname[len(qname)-1] {
	case '1':
		return 0, nil
	case '2':
		return 1, nil
	}
	return -1, errors.Wrapf(ErrMateSuffix, "%s", qname)
}

var asTag = sam.NewTag("AS")

// alignmentScore returns the value of the AS aux tag, or 0 if absent.
func alignmentScore(r *sam.Record) int64 {
	aux := r.AuxFields.Get(asTag)
	if aux == nil {
		return 0
	}
	switch v := aux.Value().(type) {
	case int8:
		return int64(v)
	case uint8:
		return int64(v)
	case int16:
		return int64(v)
	case uint16:
		return int64(v)
	case int32:
		return int64(v)
	case uint32:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	}
	return 0
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// sitePosition walks the alignment of mate to the reference coordinate of the
// probe's polymorphic site. It returns the 1-based position, or 0 if the
// aligner placed the site inside an insertion or clip.
func sitePosition(r *sam.Record, f flank.Flank, mate int, leftShift bool) int {
	reverse := r.Flags&sam.Reverse != 0
	text := f.String()
	left, b := f.Left(), f.AlleleB()
	gap := f.HasGap()

	// Number of query bases up to and including the site.
	var qlen int
	if reverse {
		qlen = len(f.Right()) + 1
	} else {
		qlen = len(left) + 1
	}
	if n := len(b); leftShift && gap && n > 0 {
		// Repeats of allele B adjacent to the site let the aligner place the
		// indel anywhere along the run; count back to its leftmost copy.
		if reverse {
			for p := len(text) - len(f.Right()); p+n <= len(text) && text[p:p+n] == b; p += n {
				qlen -= n
			}
		} else {
			for p := len(left) - n; p >= 0 && text[p:p+n] == b; p -= n {
				qlen -= n
			}
		}
	}
	if gap && mate == 0 {
		qlen--
	}

	pos := r.Pos
	for _, co := range r.Cigar {
		if qlen <= 1 {
			break
		}
		n := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			pos += minInt(n, qlen)
			qlen -= n
		case sam.CigarInsertion, sam.CigarSoftClipped:
			qlen -= n
			if qlen <= 0 {
				// The base to localize is not aligned to the reference.
				pos = 0
			}
		case sam.CigarDeletion, sam.CigarSkipped:
			pos += n
		case sam.CigarHardClipped, sam.CigarPadded:
			// do nothing
		}
	}
	if qlen == 1 {
		pos++
	}
	return pos
}

func observe(r *sam.Record, f flank.Flank, mate int, leftShift bool) mateObservation {
	obs := mateObservation{
		seen:   true,
		chrom:  unmappedChrom,
		strand: StrandUnknown,
		score:  alignmentScore(r),
	}
	if r.Ref != nil {
		obs.chrom = r.Ref.Name()
	}
	if r.Flags&sam.Unmapped == 0 {
		obs.strand = StrandForward
		if r.Flags&sam.Reverse != 0 {
			obs.strand = StrandReverse
		}
		obs.pos = sitePosition(r, f, mate, leftShift)
	}
	return obs
}

// ResolveLocus reads the alignments of the two mate queries of marker name
// from iter and returns the locus of the polymorphic site. Reading stops once
// both mates have been seen or iter is exhausted; secondary and supplementary
// alignments are skipped.
//
// The mate with the higher alignment score determines the locus. If both
// mates score the same but place the site at different nonzero positions, the
// locus is unresolved. A record that belongs to another marker is a fatal
// error.
//
// If leftShift is set, indel sites are located at the leftmost copy of a
// repeated allele B, matching flanks normalized with flank.LeftShift.
func ResolveLocus(name string, f flank.Flank, iter bamprovider.Iterator, leftShift bool) (Locus, error) {
	var mates [2]mateObservation
	for i := range mates {
		mates[i].strand = StrandUnknown
	}
	for !(mates[0].seen && mates[1].seen) && iter.Scan() {
		r := iter.Record()
		if r.Flags&(sam.Secondary|sam.Supplementary) != 0 {
			continue
		}
		idx, err := mateIndex(name, r.Name)
		if err != nil {
			return Locus{}, err
		}
		mates[idx] = observe(r, f, idx, leftShift)
		log.Debug.Printf("ResolveLocus: %s mate %d at %s:%d (%s) AS=%d",
			name, idx+1, mates[idx].chrom, mates[idx].pos, mates[idx].strand, mates[idx].score)
	}
	if err := iter.Err(); err != nil {
		return Locus{}, errors.Wrapf(err, "reading alignments of %s", name)
	}
	return chooseMate(name, mates), nil
}

// chooseMate applies the tie-break rules to the two mate observations.
func chooseMate(name string, mates [2]mateObservation) Locus {
	m0, m1 := mates[0], mates[1]
	locus := Locus{Strand: StrandUnknown, Mate: -1}
	if m0.score == m1.score && m0.pos != m1.pos && m0.pos != 0 && m1.pos != 0 {
		log.Error.Printf("unable to determine position for marker %s: mates tie at %s:%d and %s:%d",
			name, m0.chrom, m0.pos, m1.chrom, m1.pos)
		return locus
	}
	idx := 0
	if m1.score > m0.score {
		idx = 1
	}
	m := mates[idx]
	if m.pos == 0 {
		log.Error.Printf("unable to determine position for marker %s", name)
		return locus
	}
	return Locus{Chrom: m.chrom, Pos: m.pos, Strand: m.strand, Mate: idx}
}
