// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package probe

import (
	"strconv"
)

// ContigResolver maps the chromosome names used by array manifests ("1",
// "XY", "MT", ...) onto the names present in a reference.
type ContigResolver struct {
	names map[string]bool
}

// NewContigResolver creates a resolver for the given reference contig names.
func NewContigResolver(names []string) *ContigResolver {
	c := &ContigResolver{names: make(map[string]bool, len(names))}
	for _, n := range names {
		c.names[n] = true
	}
	return c
}

// leadingInt parses the decimal digits at the start of s, returning 0 if
// there are none.
func leadingInt(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, _ := strconv.Atoi(s[:i])
	return n
}

// Resolve returns the reference contig corresponding to name. Names present in
// the reference resolve to themselves. Otherwise autosomes 1-22 resolve to
// their UCSC "chrN" form, "X"/"XY"/"XX" to "X" or "chrX", "Y" to "chrY" and
// "MT" to "chrM". The second result is false if no contig matches.
func (c *ContigResolver) Resolve(name string) (string, bool) {
	if c.names[name] {
		return name, true
	}
	var candidates []string
	switch n := leadingInt(name); {
	case n > 22:
	case n > 0:
		candidates = []string{"chr" + strconv.Itoa(n)}
	case name == "X", name == "XY", name == "XX":
		candidates = []string{"X", "chrX"}
	case name == "Y":
		candidates = []string{"chrY"}
	case name == "MT":
		candidates = []string{"chrM"}
	}
	for _, cand := range candidates {
		if c.names[cand] {
			return cand, true
		}
	}
	return "", false
}
