// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package probe

import "github.com/pkg/errors"

// Error kinds returned (wrapped) by this package. Use errors.Cause to compare.
var (
	// ErrIdentifierMismatch means an alignment record belongs to a different
	// probe than the one being resolved; the alignment stream is out of sync
	// with the manifest.
	ErrIdentifierMismatch = errors.New("query ID does not match marker")
	// ErrMateSuffix means an alignment query ID does not end with :1 or :2.
	ErrMateSuffix = errors.New("query ID does not end with :1 or :2")
	// ErrReferenceFetch means the reference bases could not be retrieved.
	ErrReferenceFetch = errors.New("reference fetch failed")
	// ErrAlleleIndex means an allele index outside {-1, 0, 1, 2} was passed
	// to OrderAlleles.
	ErrAlleleIndex = errors.New("invalid allele index")
)
