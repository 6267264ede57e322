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

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ACGT[A/G]TTGG", "CCAA[T/C]ACGT"},
		{"AACC[-/TG]GGTT", "AACC[-/CA]GGTT"},
		{"RYSW[K/M]BDHVN", "NBDHV[M/K]WSRY"},
		{"[A/C]", "[T/G]"},
		{"GATTACA[AAAAAAAA/C]G", "C[TTTTTTTT/G]TGTAATC"},
	}
	for _, tt := range tests {
		got, err := flank.ReverseComplement(flank.MustParse(tt.in))
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.String(), tt.in)
	}
}

func TestReverseComplementInvolution(t *testing.T) {
	for _, text := range []string{
		"ACGT[A/G]TTGG",
		"AACC[-/TG]GGTT",
		"TTTTT[-/TTT]CGNNA",
		"CAGT[RR/Y]",
		"[ACGTACGT/-]",
		"[/]",
	} {
		f := flank.MustParse(text)
		once, err := flank.ReverseComplement(f)
		require.NoError(t, err, text)
		twice, err := flank.ReverseComplement(once)
		require.NoError(t, err, text)
		assert.Equal(t, text, twice.String())
		assert.Equal(t, f.AlleleA(), twice.AlleleA())
	}
}

func TestReverseComplementErrors(t *testing.T) {
	_, err := flank.ReverseComplement(flank.MustParse("AC[ACGTACGTA/-]GT"))
	assert.Equal(t, flank.ErrAlleleTooLong, errors.Cause(err))

	_, err = flank.ReverseComplement(flank.MustParse("AC[A/G]GXT"))
	assert.Equal(t, flank.ErrInvalidNucleotide, errors.Cause(err))

	_, err = flank.ReverseComplement(flank.MustParse("ac[A/G]GT"))
	assert.Equal(t, flank.ErrInvalidNucleotide, errors.Cause(err))
}

func TestComplement(t *testing.T) {
	for in, want := range map[byte]byte{
		'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A',
		'R': 'Y', 'Y': 'R', 'S': 'S', 'W': 'W', 'K': 'M', 'M': 'K',
		'B': 'V', 'V': 'B', 'D': 'H', 'H': 'D', 'N': 'N',
		'-': '-', '/': '/', '[': ']', ']': '[',
	} {
		got, err := flank.Complement(in)
		assert.NoError(t, err)
		assert.Equal(t, want, got, "%c", in)
	}
	for _, c := range []byte{'U', 'X', 'a', '0', ' ', 0} {
		_, err := flank.Complement(c)
		assert.Error(t, err, "%q", c)
	}
}

func TestLeftShift(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ACGT[A/G]TTGG", "ACGT[A/G]TTGG"},
		{"ACGT[-/T]TTGG", "ACG[-/T]TTTGG"},
		{"GATGAT[-/GAT]C", "[-/GAT]GATGATC"},
		{"CGATGAT[-/GAT]C", "C[-/GAT]GATGATC"},
		{"AAAA[-/AA]C", "[-/AA]AAAAC"},
		{"AAA[-/AA]C", "A[-/AA]AAC"},
		{"ACGT[-/]TTGG", "ACGT[-/]TTGG"},
	}
	for _, tt := range tests {
		got := flank.LeftShift(flank.MustParse(tt.in))
		assert.Equal(t, tt.want, got.String(), tt.in)
		assert.Equal(t, len(tt.in), len(got.String()))

		reparsed := flank.MustParse(got.String())
		assert.Equal(t, reparsed.Left(), got.Left())
		assert.Equal(t, reparsed.AlleleA(), got.AlleleA())
		assert.Equal(t, reparsed.AlleleB(), got.AlleleB())
		assert.Equal(t, reparsed.Right(), got.Right())

		again := flank.LeftShift(got)
		assert.Equal(t, got.String(), again.String(), "not idempotent: %s", tt.in)
	}
}
