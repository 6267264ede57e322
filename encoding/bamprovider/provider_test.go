// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bamprovider_test

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/flank2vcf/encoding/bamprovider"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samText = "@HD\tVN:1.0\tSO:unsorted\n" +
	"@SQ\tSN:chr1\tLN:1000\n" +
	"rs1:1\t0\tchr1\t10\t60\t9M\t*\t0\t0\tACGTATTGG\t*\tAS:i:9\n" +
	"rs1:2\t16\tchr1\t10\t60\t9M\t*\t0\t0\tACGTGTTGG\t*\tAS:i:7\n" +
	"rs2:1\t4\t*\t0\t0\t*\t*\t0\t0\tACGTTTGG\t*\n"

func scanNames(t *testing.T, it bamprovider.Iterator) []string {
	var names []string
	for it.Scan() {
		names = append(names, it.Record().Name)
	}
	require.NoError(t, it.Close())
	return names
}

func TestStreamIterator(t *testing.T) {
	it, err := bamprovider.NewStreamIterator(strings.NewReader(samText), bamprovider.SAM)
	require.NoError(t, err)
	assert.True(t, it.Scan())
	r := it.Record()
	assert.Equal(t, "rs1:1", r.Name)
	assert.Equal(t, "chr1", r.Ref.Name())
	assert.Equal(t, 9, r.Pos)
	assert.Equal(t, sam.Flags(0), r.Flags&sam.Reverse)
	assert.Equal(t, []string{"rs1:2", "rs2:1"}, scanNames(t, it))
}

func TestNewIterator(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "bamprovider")
	defer cleanup()
	path := filepath.Join(tempDir, "probes.sam")
	require.NoError(t, ioutil.WriteFile(path, []byte(samText), 0644))

	ctx := vcontext.Background()
	assert.Equal(t, []string{"rs1:1", "rs1:2", "rs2:1"}, scanNames(t, bamprovider.NewIterator(ctx, path, bamprovider.Unknown)))

	// An explicit type overrides the path extension.
	txtPath := filepath.Join(tempDir, "probes.txt")
	require.NoError(t, ioutil.WriteFile(txtPath, []byte(samText), 0644))
	assert.Equal(t, []string{"rs1:1", "rs1:2", "rs2:1"},
		scanNames(t, bamprovider.NewIterator(ctx, txtPath, bamprovider.ParseFileType("sam"))))
	it := bamprovider.NewIterator(ctx, path, bamprovider.BAM)
	assert.False(t, it.Scan())
	assert.Error(t, it.Close())

	it = bamprovider.NewIterator(ctx, filepath.Join(tempDir, "missing.sam"), bamprovider.Unknown)
	assert.False(t, it.Scan())
	assert.Error(t, it.Err())
	assert.Error(t, it.Close())
}

func TestFileType(t *testing.T) {
	assert.Equal(t, bamprovider.BAM, bamprovider.GuessFileType("/tmp/x.bam"))
	assert.Equal(t, bamprovider.SAM, bamprovider.GuessFileType("s3://bucket/x.sam"))
	assert.Equal(t, bamprovider.Unknown, bamprovider.GuessFileType("x.cram"))
	assert.Equal(t, bamprovider.BAM, bamprovider.ParseFileType("BAM"))
	assert.Equal(t, bamprovider.SAM, bamprovider.ParseFileType("sam"))
	assert.Equal(t, bamprovider.Unknown, bamprovider.ParseFileType("pam"))
}

func TestFakeAndErrorIterators(t *testing.T) {
	orig := &sam.Record{Name: "rs9:1"}
	it := bamprovider.NewFakeIterator([]*sam.Record{orig})
	require.True(t, it.Scan())
	it.Record().Name = "changed"
	assert.Equal(t, "rs9:1", orig.Name)
	assert.False(t, it.Scan())
	assert.NoError(t, it.Close())

	want := errors.New("boom")
	eit := bamprovider.NewErrorIterator(want)
	assert.False(t, eit.Scan())
	assert.Equal(t, want, eit.Err())
	assert.Equal(t, want, eit.Close())
}
