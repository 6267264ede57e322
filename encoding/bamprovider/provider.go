// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bamprovider

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"v.io/x/lib/vlog"
)

// Iterator iterates over sam.Records in file order. Thread compatible.
type Iterator interface {
	// Scan reports whether there are any records remaining and, if so,
	// advances to the next record. Scan returns false at the end of the
	// input or on error; the error can be retrieved by calling Err().
	Scan() bool

	// Record returns the current record. It must be called only after a call
	// to Scan() returns true.
	Record() *sam.Record

	// Err returns the error encountered during iteration, or nil. io.EOF is
	// translated to nil.
	Err() error

	// Close must be called exactly once. It returns the value of Err().
	Close() error
}

// FileType represents the type of an alignment file.
type FileType int

const (
	// Unknown is a sentinel.
	Unknown FileType = iota
	// SAM text file
	SAM
	// BAM file
	BAM
)

// ParseFileType parses the file type string. "bam" returns bamprovider.BAM,
// for example. On error, it returns Unknown.
func ParseFileType(name string) FileType {
	switch strings.ToLower(name) {
	case "sam":
		return SAM
	case "bam":
		return BAM
	default:
		return Unknown
	}
}

// GuessFileType returns the file type from the pathname. Returns Unknown if
// the extension is not recognized.
func GuessFileType(path string) FileType {
	switch {
	case strings.HasSuffix(path, ".bam"):
		return BAM
	case strings.HasSuffix(path, ".sam"):
		return SAM
	}
	vlog.VI(1).Infof("%v: could not detect file type.", path)
	return Unknown
}

type recordReader interface {
	Read() (*sam.Record, error)
}

type streamIterator struct {
	ctx    context.Context
	in     file.File
	r      recordReader
	closer io.Closer
	rec    *sam.Record
	err    error
}

// NewIterator opens path and returns an Iterator over its records. If typ is
// Unknown, the file type is detected from the path; files whose type cannot be
// detected are read as SAM.
func NewIterator(ctx context.Context, path string, typ FileType) Iterator {
	in, err := file.Open(ctx, path)
	if err != nil {
		return NewErrorIterator(errors.E(err, "open alignments", path))
	}
	if typ == Unknown {
		typ = GuessFileType(path)
	}
	s, err := newStreamIterator(in.Reader(ctx), typ)
	if err != nil {
		_ = in.Close(ctx)
		return NewErrorIterator(errors.E(err, "read alignment header", path))
	}
	s.ctx, s.in = ctx, in
	return s
}

// NewStreamIterator returns an Iterator over the records in r, such as
// alignments piped on standard input. Streams of Unknown type are read as SAM.
func NewStreamIterator(r io.Reader, typ FileType) (Iterator, error) {
	s, err := newStreamIterator(r, typ)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newStreamIterator(r io.Reader, typ FileType) (*streamIterator, error) {
	s := &streamIterator{}
	switch typ {
	case BAM:
		br, err := bam.NewReader(r, 1)
		if err != nil {
			return nil, err
		}
		s.r, s.closer = br, br
	default:
		sr, err := sam.NewReader(r)
		if err != nil {
			return nil, err
		}
		s.r = sr
	}
	return s, nil
}

// Scan implements Iterator.
func (s *streamIterator) Scan() bool {
	if s.err != nil {
		return false
	}
	s.rec, s.err = s.r.Read()
	return s.err == nil
}

// Record implements Iterator.
func (s *streamIterator) Record() *sam.Record { return s.rec }

// Err implements Iterator.
func (s *streamIterator) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}

// Close implements Iterator.
func (s *streamIterator) Close() error {
	err := s.Err()
	if s.closer != nil {
		if e := s.closer.Close(); e != nil && err == nil {
			err = e
		}
	}
	if s.in != nil {
		if e := s.in.Close(s.ctx); e != nil && err == nil {
			err = e
		}
	}
	return err
}
