package fastq_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/grailbio/flank2vcf/encoding/fastq"
	perrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := fastq.NewWriter(&buf)
	require.NoError(t, w.Write(fastq.NewQuery("rs1:1", "ACGTA")))
	require.NoError(t, w.Write(&fastq.Read{ID: "@rs1:2", Seq: "ACG", Unk: "+rs1:2", Qual: "#AB"}))
	assert.Equal(t, 2, w.Count())
	// Nothing reaches the underlying writer before Flush.
	assert.Equal(t, 0, buf.Len())
	require.NoError(t, w.Flush())
	assert.Equal(t, "@rs1:1\nACGTA\n+\nIIIII\n@rs1:2\nACG\n+rs1:2\n#AB\n", buf.String())
}

func TestWriterInvalid(t *testing.T) {
	var buf bytes.Buffer
	w := fastq.NewWriter(&buf)
	for _, r := range []*fastq.Read{
		{ID: "rs1:1", Seq: "A", Unk: "+", Qual: "I"},
		{ID: "@rs1:1", Seq: "A", Unk: "", Qual: "I"},
		{ID: "@rs1:1", Seq: "AC", Unk: "+", Qual: "I"},
	} {
		assert.Equal(t, fastq.ErrInvalid, perrors.Cause(w.Write(r)))
	}
	assert.Equal(t, 0, w.Count())
}

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterError(t *testing.T) {
	w := fastq.NewWriter(failWriter{})
	require.NoError(t, w.Write(fastq.NewQuery("q", "A")))
	assert.EqualError(t, w.Flush(), "disk full")
	assert.EqualError(t, w.Write(fastq.NewQuery("q", "A")), "disk full")
}
