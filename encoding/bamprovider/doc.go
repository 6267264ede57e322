// Package bamprovider streams alignment records out of a SAM or BAM file.
//
// Records are yielded in file order. Probe alignments are expected to be in
// the order the queries were written (i.e. not coordinate-sorted), so that
// both mates of a probe are adjacent and probes appear in manifest order.
package bamprovider
