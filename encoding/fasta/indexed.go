// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"io"
	"sync"

	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// faiEntry is one line of a .fai index: "<name>\t<length>\t<byte
// offset>\t<bases per line>\t<bytes per line>", e.g. "chr3\t12345\t9000\t80\t81".
type faiEntry struct {
	Name      string
	Length    uint64
	Offset    uint64
	LineBases uint64
	LineWidth uint64
}

// byteOffset returns the file offset of the base at pos.
func (e *faiEntry) byteOffset(pos uint64) uint64 {
	return e.Offset + (pos/e.LineBases)*e.LineWidth + pos%e.LineBases
}

type indexedFasta struct {
	seqs     map[string]*faiEntry
	seqNames []string

	mu  sync.Mutex
	r   io.ReadSeeker
	buf []byte
}

// NewIndexed returns a Fasta that reads sequences from r on demand, using the
// .fai index read from index. r must stay open while the Fasta is in use.
func NewIndexed(r io.ReadSeeker, index io.Reader) (Fasta, error) {
	f := &indexedFasta{seqs: make(map[string]*faiEntry), r: r}
	tr := tsv.NewReader(index)
	for {
		e := &faiEntry{}
		if err := tr.Read(e); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "invalid FASTA index")
		}
		if e.LineBases == 0 || e.LineWidth < e.LineBases {
			return nil, errors.Errorf("invalid FASTA index line for %s", e.Name)
		}
		f.seqs[e.Name] = e
		f.seqNames = append(f.seqNames, e.Name)
	}
	return f, nil
}

// Get implements Fasta.Get().
func (f *indexedFasta) Get(seqName string, start, end uint64) (string, error) {
	e, ok := f.seqs[seqName]
	if !ok {
		return "", errors.Errorf("sequence not found in index: %s", seqName)
	}
	if err := checkRange(seqName, start, end, e.Length); err != nil {
		return "", err
	}
	off := e.byteOffset(start)
	n := int(e.byteOffset(end-1) - off + 1)

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.r.Seek(int64(off), io.SeekStart); err != nil {
		return "", errors.Wrapf(err, "seek to %d", off)
	}
	if cap(f.buf) < n {
		f.buf = make([]byte, n)
	}
	f.buf = f.buf[:n]
	if _, err := io.ReadFull(f.r, f.buf); err != nil {
		return "", errors.Wrap(err, "unexpected end of FASTA file (bad index?)")
	}
	seq := make([]byte, 0, end-start)
	linePos := (off - e.Offset) % e.LineWidth
	for _, c := range f.buf {
		if linePos < e.LineBases {
			seq = append(seq, c)
		}
		if linePos++; linePos == e.LineWidth {
			linePos = 0
		}
	}
	return string(seq), nil
}

// Len implements Fasta.Len().
func (f *indexedFasta) Len(seqName string) (uint64, error) {
	e, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.Errorf("sequence not found in index: %s", seqName)
	}
	return e.Length, nil
}

// SeqNames implements Fasta.SeqNames().
func (f *indexedFasta) SeqNames() []string {
	return f.seqNames
}
