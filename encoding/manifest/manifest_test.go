// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package manifest_test

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/flank2vcf/encoding/flank"
	"github.com/grailbio/flank2vcf/encoding/manifest"
	"github.com/grailbio/flank2vcf/probe"
	"github.com/grailbio/testutil"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifestText = "# test manifest\n" +
	"Name\tChr\tMapInfo\tRefStrand\tSNP\tFlank\n" +
	"rs1\t1\t9\t+\t[A/G]\tACGT[A/G]TTGG\n" +
	"rs2\t0\t0\t\t[T/C]\tCCAA[T/C]ACGT\n" +
	"indel1\tchr1\t8\t-\t[D/I]\tAACC[-/CA]ACGT\n"

func TestRead(t *testing.T) {
	markers, err := manifest.Read(strings.NewReader(manifestText))
	require.NoError(t, err)
	require.Len(t, markers, 3)
	assert.Equal(t, probe.Marker{
		Name:    "rs1",
		Flank:   flank.MustParse("ACGT[A/G]TTGG"),
		Chrom:   "1",
		Pos:     9,
		Strand:  probe.StrandForward,
		Alleles: "[A/G]",
	}, markers[0])
	assert.Equal(t, "", markers[1].Chrom)
	assert.Equal(t, probe.StrandUnknown, markers[1].Strand)
	assert.Equal(t, probe.StrandReverse, markers[2].Strand)
	assert.True(t, markers[2].IsIndel())
}

func TestReadErrors(t *testing.T) {
	header := "Name\tChr\tMapInfo\tRefStrand\tSNP\tFlank\n"
	_, err := manifest.Read(strings.NewReader(header + "rs1\t1\t9\t+\t[A/G]\tACGTA/G]TTGG\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), flank.ErrMalformed.Error())

	_, err = manifest.Read(strings.NewReader(header + "rs1\t1\t9\tx\t[A/G]\tACGT[A/G]TTGG\n"))
	assert.Error(t, err)

	_, err = manifest.Read(strings.NewReader(header + "rs1\t1\tnine\t+\t[A/G]\tACGT[A/G]TTGG\n"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	ctx := vcontext.Background()
	tmpdir, cleanup := testutil.TempDir(t, "", "manifest")
	defer cleanup()

	plain := filepath.Join(tmpdir, "manifest.tsv")
	require.NoError(t, ioutil.WriteFile(plain, []byte(manifestText), 0644))
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(manifestText))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	zipped := filepath.Join(tmpdir, "manifest.tsv.gz")
	require.NoError(t, ioutil.WriteFile(zipped, buf.Bytes(), 0644))

	for _, path := range []string{plain, zipped} {
		markers, err := manifest.ReadFile(ctx, path)
		require.NoError(t, err, path)
		assert.Len(t, markers, 3)
	}
	_, err = manifest.ReadFile(ctx, filepath.Join(tmpdir, "missing.tsv"))
	assert.Error(t, err)
}
