// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/flank2vcf/encoding/bamprovider"
	"github.com/grailbio/flank2vcf/encoding/fastq"
	"github.com/grailbio/flank2vcf/encoding/flank"
	"github.com/grailbio/flank2vcf/encoding/manifest"
	"github.com/grailbio/flank2vcf/probe"
	"github.com/klauspost/compress/gzip"
)

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// createOutput creates path for writing, gzip-compressing the data if path
// ends in ".gz". Path "-" writes to stdout. The returned function must be
// called to finish the file.
func createOutput(ctx context.Context, path string) (io.Writer, func() error, error) {
	if path == "-" {
		return stdout, func() error { return nil }, nil
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "create", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		return out.Writer(ctx), func() error { return out.Close(ctx) }, nil
	}
	gz := gzip.NewWriter(out.Writer(ctx))
	return gz, func() error {
		err := gz.Close()
		if e := out.Close(ctx); e != nil && err == nil {
			err = e
		}
		return err
	}, nil
}

// writeQueries writes the two mate queries of every marker in the manifest
// as FASTQ records, ready to be aligned to the reference.
func writeQueries(ctx context.Context, manifestPath, outPath string) (err error) {
	markers, err := manifest.ReadFile(ctx, manifestPath)
	if err != nil {
		return err
	}
	out, finish, err := createOutput(ctx, outPath)
	if err != nil {
		return err
	}
	defer func() {
		if e := finish(); e != nil && err == nil {
			err = e
		}
	}()
	w := fastq.NewWriter(out)
	for _, m := range markers {
		queries := flank.MateQueries(m.Flank)
		for i, q := range queries {
			suffix := ":1"
			if i == 1 {
				suffix = ":2"
			}
			if err = w.Write(fastq.NewQuery(m.Name+suffix, q)); err != nil {
				return errors.E(err, "write", outPath)
			}
		}
	}
	if err = w.Flush(); err != nil {
		return errors.E(err, "write", outPath)
	}
	log.Printf("writeQueries: wrote %d queries to %s", w.Count(), outPath)
	return nil
}

type resolveOpts struct {
	probe.Opts
	ManifestPath  string
	ReferencePath string
	// AlignmentPath is the SAM/BAM of the aligned mate queries, in manifest
	// order, or "-" for stdin. If empty, the manifest coordinates are used.
	AlignmentPath string
	// AlignmentType is "sam" or "bam". If empty, the type is guessed from
	// AlignmentPath, and stdin is read as SAM.
	AlignmentType string
	OutPath       string
}

// resolve computes the genome-anchored alleles of every marker in the
// manifest and writes them as a TSV.
func resolve(ctx context.Context, opts resolveOpts) (err error) {
	markers, err := manifest.ReadFile(ctx, opts.ManifestPath)
	if err != nil {
		return err
	}
	ref, err := probe.LoadReference(ctx, opts.ReferencePath)
	if err != nil {
		return err
	}
	defer func() {
		if e := ref.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()

	var iter bamprovider.Iterator
	if opts.AlignmentPath != "" {
		if iter, err = openAlignments(ctx, opts.AlignmentPath, opts.AlignmentType); err != nil {
			return err
		}
		defer func() {
			if e := iter.Close(); e != nil && err == nil {
				err = e
			}
		}()
	}
	results, err := probe.NewResolver(ref, opts.Opts).ResolveAll(markers, iter)
	if err != nil {
		return err
	}

	out, finish, err := createOutput(ctx, opts.OutPath)
	if err != nil {
		return err
	}
	defer func() {
		if e := finish(); e != nil && err == nil {
			err = e
		}
	}()
	if err = writeResults(out, results); err != nil {
		return errors.E(err, "write", opts.OutPath)
	}
	log.Printf("resolve: wrote %d markers to %s", len(results), opts.OutPath)
	return nil
}

func openAlignments(ctx context.Context, path, typ string) (bamprovider.Iterator, error) {
	ft := bamprovider.Unknown
	if typ != "" {
		if ft = bamprovider.ParseFileType(typ); ft == bamprovider.Unknown {
			return nil, errors.E(errors.Invalid, "unknown alignment type", typ)
		}
	}
	if path != "-" {
		return bamprovider.NewIterator(ctx, path, ft), nil
	}
	iter, err := bamprovider.NewStreamIterator(stdin, ft)
	if err != nil {
		return nil, errors.E(err, "read alignment header from stdin")
	}
	return iter, nil
}

const resultsHeader = "#NAME\tCHROM\tPOS\tSTRAND\tREF\tALT\tALLELE_A_IDX\tALLELE_B_IDX\tTYPE"

func resultType(r probe.Result) string {
	switch {
	case !r.Resolved():
		return "UNRESOLVED"
	case !r.Indel:
		return "SNV"
	case r.Class == probe.ComplexIndel:
		return "COMPLEX_INDEL"
	}
	return "INDEL"
}

// writeResults writes one line per result. Unresolved markers have "." in
// every coordinate and allele column.
func writeResults(w io.Writer, results []probe.Result) error {
	tsvw := tsv.NewWriter(w)
	tsvw.WriteString(resultsHeader)
	if err := tsvw.EndLine(); err != nil {
		return err
	}
	for _, r := range results {
		tsvw.WriteString(r.Name)
		if !r.Resolved() || len(r.Alleles) == 0 {
			tsvw.WriteString(".\t.\t.\t.\t.\t.\t.")
		} else {
			tsvw.WriteString(r.Chrom)
			tsvw.WriteInt64(int64(r.Pos))
			tsvw.WriteString(r.Strand.String())
			tsvw.WriteString(r.Alleles[0])
			if len(r.Alleles) > 1 {
				tsvw.WriteString(strings.Join(r.Alleles[1:], ","))
			} else {
				tsvw.WriteByte('.')
			}
			tsvw.WriteInt64(int64(r.AlleleAIndex))
			tsvw.WriteInt64(int64(r.AlleleBIndex))
		}
		tsvw.WriteString(resultType(r))
		if err := tsvw.EndLine(); err != nil {
			return err
		}
	}
	return tsvw.Flush()
}
