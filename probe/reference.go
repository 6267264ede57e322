// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package probe

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/flank2vcf/encoding/fasta"
	"github.com/pkg/errors"
)

// Reference gives random access to reference bases.
type Reference interface {
	// Fetch returns the uppercased bases of chrom in the 0-based closed
	// interval [start, end]. An interval running past the end of the contig
	// is truncated.
	Fetch(chrom string, start, end int) (string, error)
}

// RefBase returns the reference base at 0-based position pos.
func RefBase(ref Reference, chrom string, pos int) (byte, error) {
	s, err := ref.Fetch(chrom, pos, pos)
	if err != nil {
		return 0, err
	}
	if len(s) != 1 {
		return 0, errors.Wrapf(ErrReferenceFetch, "%s:%d", chrom, pos+1)
	}
	return s[0], nil
}

// FastaReference implements Reference on top of a fasta.Fasta. Contig names
// are mapped through a ContigResolver, so manifest-style names such as "1" or
// "MT" find "chr1" or "chrM" in a UCSC-style reference.
type FastaReference struct {
	fa      fasta.Fasta
	contigs *ContigResolver
	in      file.File // nil unless the reference is read lazily from a file
}

// NewReference wraps fa.
func NewReference(fa fasta.Fasta) *FastaReference {
	return &FastaReference{fa: fa, contigs: NewContigResolver(fa.SeqNames())}
}

// Contig returns the reference contig that name resolves to.
func (r *FastaReference) Contig(name string) (string, bool) {
	return r.contigs.Resolve(name)
}

// Fetch implements Reference.
func (r *FastaReference) Fetch(chrom string, start, end int) (string, error) {
	contig, ok := r.contigs.Resolve(chrom)
	if !ok {
		return "", errors.Wrapf(ErrReferenceFetch, "contig %s not in reference", chrom)
	}
	if start < 0 || end < start {
		return "", errors.Wrapf(ErrReferenceFetch, "invalid interval %s:%d-%d", chrom, start+1, end+1)
	}
	n, err := r.fa.Len(contig)
	if err != nil {
		return "", errors.Wrapf(ErrReferenceFetch, "%v", err)
	}
	if uint64(start) >= n {
		return "", errors.Wrapf(ErrReferenceFetch, "%s:%d is past the end of %s", chrom, start+1, contig)
	}
	limit := uint64(end) + 1
	if limit > n {
		limit = n
	}
	s, err := r.fa.Get(contig, uint64(start), limit)
	if err != nil {
		return "", errors.Wrapf(ErrReferenceFetch, "%s:%d-%d: %v", chrom, start+1, end+1, err)
	}
	return strings.ToUpper(s), nil
}

// Close releases the underlying file, if any.
func (r *FastaReference) Close(ctx context.Context) error {
	if r.in == nil {
		return nil
	}
	return r.in.Close(ctx)
}

// LoadReference opens the FASTA file at path. Uncompressed files are read on
// demand through an index: path.fai if it exists, otherwise one generated
// from the file. Compressed files are loaded into memory.
func LoadReference(ctx context.Context, path string) (ref *FastaReference, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, errors.Wrapf(err, "open reference %s", path)
	}
	var index bytes.Buffer
	if idx, e := file.Open(ctx, path+".fai"); e == nil {
		_, err = io.Copy(&index, idx.Reader(ctx))
		if e := idx.Close(ctx); e != nil && err == nil {
			err = e
		}
		if err != nil {
			_ = in.Close(ctx)
			return nil, errors.Wrapf(err, "read index %s.fai", path)
		}
		log.Debug.Printf("LoadReference: using index %s.fai", path)
	} else if reader, compressed := compress.NewReader(in.Reader(ctx)); compressed {
		defer file.CloseAndReport(ctx, in, &err)
		defer func() {
			if e := reader.Close(); e != nil && err == nil {
				err = e
			}
		}()
		var fa fasta.Fasta
		if fa, err = fasta.New(reader); err != nil {
			return nil, errors.Wrapf(err, "read reference %s", path)
		}
		log.Printf("LoadReference: loaded %d contigs from %s", len(fa.SeqNames()), path)
		return NewReference(fa), nil
	} else {
		if _, err = in.Reader(ctx).Seek(0, io.SeekStart); err == nil {
			err = fasta.GenerateIndex(&index, in.Reader(ctx))
		}
		if err != nil {
			_ = in.Close(ctx)
			return nil, errors.Wrapf(err, "index reference %s", path)
		}
		log.Printf("LoadReference: generated index for %s", path)
	}
	var fa fasta.Fasta
	if fa, err = fasta.NewIndexed(in.Reader(ctx), &index); err != nil {
		_ = in.Close(ctx)
		return nil, errors.Wrapf(err, "read index of %s", path)
	}
	ref = NewReference(fa)
	ref.in = in
	return ref, nil
}
