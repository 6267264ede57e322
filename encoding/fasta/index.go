// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// GenerateIndex writes the .fai index of the FASTA data read from in, in the
// format defined by "samtools faidx" (http://www.htslib.org/doc/faidx.html).
// The index can be passed to NewIndexed.
func GenerateIndex(out io.Writer, in io.Reader) error {
	var (
		w      = tsv.NewWriter(out)
		r      = bufio.NewReader(in)
		cur    *faiEntry
		nBytes uint64
	)
	emit := func() error {
		if cur == nil {
			return nil
		}
		w.WriteString(cur.Name)
		w.WriteInt64(int64(cur.Length))
		w.WriteInt64(int64(cur.Offset))
		w.WriteInt64(int64(cur.LineBases))
		w.WriteInt64(int64(cur.LineWidth))
		return w.EndLine()
	}
	for {
		raw, err := r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return err
		}
		nBytes += uint64(len(raw))
		line := bytes.TrimRight(raw, "\r\n")
		switch {
		case len(line) == 0:
		case line[0] == '>':
			if e := emit(); e != nil {
				return e
			}
			cur = &faiEntry{
				Name:   strings.SplitN(string(line[1:]), " ", 2)[0],
				Offset: nBytes,
			}
		case cur == nil:
			return errors.E("malformed FASTA file")
		default:
			if cur.LineWidth == 0 {
				cur.LineWidth = uint64(len(raw))
				cur.LineBases = uint64(len(line))
			}
			cur.Length += uint64(len(line))
		}
		if err == io.EOF {
			break
		}
	}
	if nBytes == 0 {
		return errors.E("empty FASTA file")
	}
	if err := emit(); err != nil {
		return err
	}
	return w.Flush()
}
