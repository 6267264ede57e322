// Package fastq writes FASTQ records, in particular the synthetic mate
// queries generated from probe flank sequences.
package fastq

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalid is returned when a read cannot be written as a valid FASTQ
// record.
var ErrInvalid = errors.New("invalid FASTQ read")

// A Read is a FASTQ read, comprising an ID, sequence, line 3
// ("unknown"), and a quality string.
type Read struct {
	ID, Seq, Unk, Qual string
}

// QueryQual is the base quality given to every base of a synthetic query.
const QueryQual = 'I'

// NewQuery returns the read for a synthetic query sequence named name.
func NewQuery(name, seq string) *Read {
	return &Read{
		ID:   "@" + name,
		Seq:  seq,
		Unk:  "+",
		Qual: strings.Repeat(string(QueryQual), len(seq)),
	}
}

// Writer is a FASTQ file writer. Output is buffered; call Flush when done.
type Writer struct {
	w   *bufio.Writer
	n   int
	err error
}

// NewWriter constructs a new FASTQ writer
// that writes reads to the underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes the read r in FASTQ format. The ID must start with '@',
// line 3 with '+', and the sequence and quality must have equal length.
func (w *Writer) Write(r *Read) error {
	if w.err != nil {
		return w.err
	}
	if !strings.HasPrefix(r.ID, "@") || !strings.HasPrefix(r.Unk, "+") || len(r.Seq) != len(r.Qual) {
		return errors.Wrapf(ErrInvalid, "%s", r.ID)
	}
	for _, line := range [...]string{r.ID, r.Seq, r.Unk, r.Qual} {
		w.w.WriteString(line) // nolint: errcheck
		w.err = w.w.WriteByte('\n')
	}
	if w.err == nil {
		w.n++
	}
	return w.err
}

// Count returns the number of reads written so far.
func (w *Writer) Count() int { return w.n }

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}
