// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fasta reads (optionally indexed) FASTA files. See
// http://www.htslib.org/doc/faidx.html. A FASTA file holds named sequences,
// each possibly wrapped over several lines:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// A sequence name is the text after '>' up to the first space, so
// '>chr1 A viral sequence' is named 'chr1'.
package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Fasta is a set of named sequences.
type Fasta interface {
	// Get returns the bases of seqName in the 0-based half-open interval
	// [start, end). Get is thread-safe.
	Get(seqName string, start, end uint64) (string, error)

	// Len returns the length of seqName.
	Len(seqName string) (uint64, error)

	// SeqNames returns the sequence names in file order.
	SeqNames() []string
}

type fasta struct {
	seqs     map[string]string
	seqNames []string
}

// New reads all of r into memory.
func New(r io.Reader) (Fasta, error) {
	f := &fasta{seqs: make(map[string]string)}
	br := bufio.NewReaderSize(r, 1<<20)
	var (
		name    string
		started bool
		seq     strings.Builder
	)
	flush := func() error {
		if !started {
			if seq.Len() != 0 {
				return errors.New("malformed FASTA file: sequence data before the first header")
			}
			return nil
		}
		if _, ok := f.seqs[name]; ok {
			return errors.Errorf("duplicate sequence name: %s", name)
		}
		f.seqs[name] = seq.String()
		f.seqNames = append(f.seqNames, name)
		seq.Reset()
		return nil
	}
	for {
		line, err := br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "couldn't read FASTA data")
		}
		line = bytes.TrimRight(line, "\r\n")
		if len(line) > 0 {
			if line[0] == '>' {
				if e := flush(); e != nil {
					return nil, e
				}
				name = strings.SplitN(string(line[1:]), " ", 2)[0]
				started = true
			} else {
				seq.Write(line)
			}
		}
		if err == io.EOF {
			break
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return f, nil
}

func checkRange(seqName string, start, end, length uint64) error {
	if end <= start {
		return errors.New("start must be less than end")
	}
	if end > length {
		return errors.Errorf("end is past end of sequence %s: %d", seqName, length)
	}
	return nil
}

// Get implements Fasta.Get().
func (f *fasta) Get(seqName string, start, end uint64) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found: %s", seqName)
	}
	if err := checkRange(seqName, start, end, uint64(len(s))); err != nil {
		return "", err
	}
	return s[start:end], nil
}

// Len implements Fasta.Len().
func (f *fasta) Len(seqName string) (uint64, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found: %s", seqName)
	}
	return uint64(len(s)), nil
}

// SeqNames implements Fasta.SeqNames().
func (f *fasta) SeqNames() []string {
	return f.seqNames
}
