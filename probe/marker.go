// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package probe

import (
	"runtime"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/flank2vcf/encoding/bamprovider"
	"github.com/grailbio/flank2vcf/encoding/flank"
	"github.com/pkg/errors"
)

type Opts struct {
	// LeftShift normalizes indel flanks with flank.LeftShift and places indel
	// sites at the leftmost copy of a repeated allele B.
	LeftShift bool
	// Parallelism bounds the number of markers whose alleles are resolved
	// concurrently by ResolveAll. 0 means runtime.NumCPU().
	Parallelism int
}

var DefaultOpts = Opts{
	LeftShift:   false,
	Parallelism: 0,
}

// Marker is one row of a probe manifest.
type Marker struct {
	Name  string
	Flank flank.Flank
	// Chrom, Pos (1-based) and Strand are the manifest coordinates, used when
	// no alignments are available. Pos is 0 if unknown.
	Chrom  string
	Pos    int
	Strand Strand
	// Alleles is the design allele column, e.g. "[A/G]" or "[I/D]". It may be
	// empty; for indels it tells which allele is the deletion.
	Alleles string
}

// IsIndel reports whether m describes an insertion/deletion.
func (m Marker) IsIndel() bool {
	return m.Flank.IsDeletion() || m.Alleles == "[D/I]" || m.Alleles == "[I/D]"
}

// bIsDeletion reports whether allele B of an indel marker is the deletion.
// Without a design allele column, a flank of the form [-/X] makes allele B
// the insertion.
func (m Marker) bIsDeletion() bool {
	if len(m.Alleles) == 5 && m.Alleles[0] == '[' && m.Alleles[2] == '/' {
		return m.Alleles[3] == 'D'
	}
	return false
}

// Result is the genome-anchored representation of a marker.
type Result struct {
	Name string
	Locus
	Indel bool
	// Class is meaningful only for indels.
	Class IndelClass
	// Alleles lists the VCF alleles, reference first. It is empty when the
	// locus is unresolved.
	Alleles []string
	// AlleleAIndex and AlleleBIndex are the positions of the designed alleles
	// in Alleles, or -1.
	AlleleAIndex, AlleleBIndex int
}

// contigNamer is implemented by references that map chromosome aliases to
// their own contig names.
type contigNamer interface {
	Contig(name string) (string, bool)
}

// Resolver turns markers into Results against a reference.
type Resolver struct {
	ref  Reference
	opts Opts
}

// NewResolver creates a Resolver.
func NewResolver(ref Reference, opts Opts) *Resolver {
	return &Resolver{ref: ref, opts: opts}
}

// Locate returns the locus of m. If iter is nil the manifest coordinates are
// used; otherwise the next alignments of iter are read, which must be those of
// m's mate queries.
func (r *Resolver) Locate(m Marker, iter bamprovider.Iterator) (Locus, error) {
	if iter == nil {
		if m.Pos <= 0 || m.Chrom == "" {
			log.Error.Printf("unable to determine position for marker %s", m.Name)
			return Locus{Strand: StrandUnknown, Mate: -1}, nil
		}
		return Locus{Chrom: m.Chrom, Pos: m.Pos, Strand: m.Strand, Mate: -1}, nil
	}
	return ResolveLocus(m.Name, m.Flank, iter, r.opts.LeftShift)
}

// Alleles computes the reference-ordered alleles of m at locus. The chromosome
// of the result is renamed to the reference's contig name when the reference
// knows it.
func (r *Resolver) Alleles(m Marker, locus Locus) (Result, error) {
	res := Result{
		Name:         m.Name,
		Locus:        locus,
		Indel:        m.IsIndel(),
		AlleleAIndex: -1,
		AlleleBIndex: -1,
	}
	if !locus.Resolved() {
		return res, nil
	}
	if c, ok := r.ref.(contigNamer); ok {
		if name, ok := c.Contig(res.Chrom); ok {
			res.Chrom = name
		}
	}
	var err error
	if res.Indel {
		err = r.indelAlleles(m, &res)
	} else {
		err = r.snvAlleles(m, &res)
	}
	if err != nil {
		return res, errors.Wrapf(err, "marker %s", m.Name)
	}
	res.AlleleAIndex = AlleleAIndex(res.AlleleBIndex)
	return res, nil
}

func (r *Resolver) snvAlleles(m Marker, res *Result) error {
	a, b := m.Flank.AlleleA(), m.Flank.AlleleB()
	if res.Strand == StrandReverse {
		var err error
		if a, err = complementAllele(a); err != nil {
			return err
		}
		if b, err = complementAllele(b); err != nil {
			return err
		}
	}
	base, err := RefBase(r.ref, res.Chrom, res.Pos-1)
	if err != nil {
		return err
	}
	idx, a, b := ClassifyAlleles(base, a, b)
	if res.Alleles, err = OrderAlleles(string(base), a, b, idx); err != nil {
		return err
	}
	res.AlleleBIndex = idx
	return nil
}

func (r *Resolver) indelAlleles(m Marker, res *Result) error {
	f := m.Flank
	if res.Strand == StrandReverse {
		var err error
		if f, err = flank.ReverseComplement(f); err != nil {
			return err
		}
	}
	if r.opts.LeftShift {
		f = flank.LeftShift(f)
	}
	ind, err := ResolveIndel(f, r.ref, res.Chrom, res.Pos-1, m.bIsDeletion())
	if err != nil {
		return err
	}
	res.Class = ind.Class
	res.Pos = ind.Pos + 1
	var idx int
	switch ind.Class {
	case RefIsAlleleA:
		idx = 1
	case RefIsAlleleB:
		idx = 0
	default:
		idx, _, _ = ClassifyAlleles(ind.RefBase, ind.AlleleA, ind.AlleleB)
	}
	if res.Alleles, err = OrderAlleles(string(ind.RefBase), ind.AlleleA, ind.AlleleB, idx); err != nil {
		return err
	}
	res.AlleleBIndex = idx
	return nil
}

func complementAllele(s string) (string, error) {
	buf := []byte(s)
	for i := range buf {
		c, err := flank.Complement(buf[i])
		if err != nil {
			return "", err
		}
		buf[i] = c
	}
	return string(buf), nil
}

// Resolve locates m and computes its alleles.
func (r *Resolver) Resolve(m Marker, iter bamprovider.Iterator) (Result, error) {
	locus, err := r.Locate(m, iter)
	if err != nil {
		return Result{}, err
	}
	return r.Alleles(m, locus)
}

// ResolveAll resolves markers in manifest order. Loci are read sequentially
// from iter (which may be nil), then alleles are computed in parallel.
func (r *Resolver) ResolveAll(markers []Marker, iter bamprovider.Iterator) ([]Result, error) {
	loci := make([]Locus, len(markers))
	nUnresolved := 0
	for i, m := range markers {
		var err error
		if loci[i], err = r.Locate(m, iter); err != nil {
			return nil, err
		}
		if !loci[i].Resolved() {
			nUnresolved++
		}
	}
	log.Printf("ResolveAll: located %d markers, %d unresolved", len(markers), nUnresolved)

	parallelism := r.opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(markers) {
		parallelism = len(markers)
	}
	results := make([]Result, len(markers))
	err := traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(markers)) / parallelism
		endIdx := ((jobIdx + 1) * len(markers)) / parallelism
		for i := startIdx; i < endIdx; i++ {
			var err error
			if results[i], err = r.Alleles(markers[i], loci[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
