// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package manifest reads probe manifests: tab-separated files with a header
// row naming at least the columns
//
//   Name  Chr  MapInfo  RefStrand  SNP  Flank
//
// Name is the marker identifier, Chr/MapInfo the design coordinates (1-based;
// 0 if unknown), RefStrand "+" or "-" (or empty), SNP the design alleles such
// as "[A/G]" or "[D/I]", and Flank the flank sequence. Lines starting with '#'
// are ignored.
package manifest

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/flank2vcf/encoding/flank"
	"github.com/grailbio/flank2vcf/probe"
	"github.com/klauspost/compress/gzip"
)

// Row is one manifest line.
type Row struct {
	Name      string `tsv:"Name"`
	Chr       string `tsv:"Chr"`
	MapInfo   int    `tsv:"MapInfo"`
	RefStrand string `tsv:"RefStrand"`
	SNP       string `tsv:"SNP"`
	Flank     string `tsv:"Flank"`
}

// Marker converts r. Malformed flank sequences are reported as errors.
func (r Row) Marker() (probe.Marker, error) {
	f, err := flank.Parse(r.Flank)
	if err != nil {
		return probe.Marker{}, errors.E(err, "marker", r.Name)
	}
	m := probe.Marker{
		Name:    r.Name,
		Flank:   f,
		Chrom:   r.Chr,
		Pos:     r.MapInfo,
		Strand:  probe.StrandUnknown,
		Alleles: r.SNP,
	}
	switch r.RefStrand {
	case "+":
		m.Strand = probe.StrandForward
	case "-":
		m.Strand = probe.StrandReverse
	case "", ".":
	default:
		return probe.Marker{}, errors.E(errors.Invalid, "marker", r.Name, "RefStrand", r.RefStrand)
	}
	if m.Chrom == "0" {
		m.Chrom = ""
	}
	return m, nil
}

// Read parses a manifest from in.
func Read(in io.Reader) ([]probe.Marker, error) {
	r := tsv.NewReader(in)
	r.HasHeaderRow = true
	r.UseHeaderNames = true
	r.Comment = '#'

	var markers []probe.Marker
	for {
		var row Row
		if err := r.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		m, err := row.Marker()
		if err != nil {
			return nil, err
		}
		markers = append(markers, m)
	}
	return markers, nil
}

// ReadFile reads the manifest at path, which may be gzip-compressed if it
// ends in ".gz".
func ReadFile(ctx context.Context, path string) (markers []probe.Marker, err error) {
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, errors.E(err, "open manifest", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	reader := io.Reader(in.Reader(ctx))
	if strings.HasSuffix(path, ".gz") {
		if reader, err = gzip.NewReader(reader); err != nil {
			return nil, errors.E(err, "read manifest", path)
		}
	}
	if markers, err = Read(reader); err != nil {
		return nil, errors.E(err, "read manifest", path)
	}
	log.Printf("manifest.ReadFile: read %d markers from %s", len(markers), path)
	return markers, nil
}
