// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package flank_test

import (
	"testing"

	"github.com/grailbio/flank2vcf/encoding/flank"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		text                          string
		left, alleleA, alleleB, right string
		deletion                      bool
	}{
		{"ACGT[A/G]TTGG", "ACGT", "A", "G", "TTGG", false},
		{"ACGT[-/TG]TTGG", "ACGT", "-", "TG", "TTGG", true},
		{"[A/C]", "", "A", "C", "", false},
		{"AC[/]GT", "AC", "", "", "GT", false},
	}
	for _, tt := range tests {
		f, err := flank.Parse(tt.text)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.text, f.String())
		assert.Equal(t, tt.left, f.Left(), tt.text)
		assert.Equal(t, tt.alleleA, f.AlleleA(), tt.text)
		assert.Equal(t, tt.alleleB, f.AlleleB(), tt.text)
		assert.Equal(t, tt.right, f.Right(), tt.text)
		assert.Equal(t, tt.deletion, f.IsDeletion(), tt.text)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, text := range []string{
		"ACGT[AG]TTGG",
		"ACGTA/G]TTGG",
		"ACGT[A/GTTGG",
		"ACGT]A/G[TTGG",
		"ACGT[A]G/TTGG",
		"AC[GT[A/G]TTGG",
		"ACGT[A/G/C]TTGG",
		"",
	} {
		_, err := flank.Parse(text)
		require.Error(t, err, text)
		assert.Equal(t, flank.ErrMalformed, errors.Cause(err), text)
	}
}

func TestMateQueries(t *testing.T) {
	q := flank.MateQueries(flank.MustParse("ACGT[A/G]TTGG"))
	assert.Equal(t, [2]string{"ACGTATTGG", "ACGTGTTGG"}, q)

	q = flank.MateQueries(flank.MustParse("ACGT[-/TG]TTGG"))
	assert.Equal(t, [2]string{"ACGTTTGG", "ACGTTGTTGG"}, q)
}

func TestHasGap(t *testing.T) {
	assert.False(t, flank.MustParse("ACGT[A/G]TTGG").HasGap())
	assert.True(t, flank.MustParse("ACGT[-/G]TTGG").HasGap())
}
