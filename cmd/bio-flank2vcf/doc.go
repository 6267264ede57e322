// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
bio-flank2vcf converts the flank sequences of a genotyping array manifest into
genome-anchored REF/ALT alleles.

It runs in two steps. First, the two mate queries of every marker (the flank
with allele A, and the flank with allele B) are written as FASTQ:

bio-flank2vcf -mode=queries manifest.tsv queries.fq

The queries are aligned to the reference with any short-read aligner that
reports the AS tag, keeping the input order, e.g.

bwa mem -M ref.fa queries.fq > queries.sam

A path of "-" writes the queries to stdout, so they can be piped straight into
the aligner, and -sam=- reads the alignments from stdin (set -sam-type=bam for
BAM input):

bio-flank2vcf -mode=queries manifest.tsv - | bwa mem -M ref.fa - |
	bio-flank2vcf -mode=resolve -sam - -out markers.tsv manifest.tsv ref.fa

Then the alignments locate every marker, and the reference decides the allele
order:

bio-flank2vcf -mode=resolve -sam queries.sam -out markers.tsv.gz manifest.tsv ref.fa

Without -sam, the Chr/MapInfo/RefStrand columns of the manifest are used.
Markers whose position cannot be determined are reported with TYPE
UNRESOLVED. ALLELE_A_IDX and ALLELE_B_IDX are the indices of the designed
alleles in the REF,ALT list.

If ref.fa is uncompressed and has no ref.fa.fai, an index is generated in
memory and bases are read on demand.
*/
package main
