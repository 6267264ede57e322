// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bamprovider

import (
	"github.com/grailbio/hts/sam"
)

// fakeIterator is mainly for unittests. It yields the given records.
type fakeIterator struct {
	recs []*sam.Record
	rec  *sam.Record
}

// NewFakeIterator creates an Iterator that yields recs in order.
func NewFakeIterator(recs []*sam.Record) Iterator {
	return &fakeIterator{recs: recs}
}

func (i *fakeIterator) Scan() bool {
	if len(i.recs) == 0 {
		return false
	}
	i.rec, i.recs = i.recs[0], i.recs[1:]
	return true
}

func (i *fakeIterator) Record() *sam.Record {
	// Return a copy so that the code under test cannot alter the
	// original test input data.
	c := *i.rec
	return &c
}

func (i *fakeIterator) Err() error   { return nil }
func (i *fakeIterator) Close() error { return nil }
