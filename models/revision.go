// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "strings"

// Revision is the server-assigned cursor marking "everything up to here has
// been seen" for one entity type. It is opaque to the terminal apart from its
// ordering.
type Revision string

// IsZero reports whether r is the empty revision, meaning "nothing seen yet".
func (r Revision) IsZero() bool {
	return r == ""
}

// String implements fmt.Stringer.
func (r Revision) String() string {
	return string(r)
}

// Compare returns -1, 0 or +1 as r sorts before, equal to or after other.
//
// The empty revision sorts first, then decimal revisions by value (of any
// length), then every other form in byte order. Decimal revisions of equal
// value but different spelling ("007", "7") are ordered by their text, so
// Compare reports 0 only for identical revisions.
func (r Revision) Compare(other Revision) int {
	switch {
	case r == other:
		return 0
	case r.IsZero():
		return -1
	case other.IsZero():
		return 1
	}

	a, b := string(r), string(other)
	aDec, bDec := isDecimal(a), isDecimal(b)
	switch {
	case aDec && !bDec:
		return -1
	case !aDec && bDec:
		return 1
	case aDec && bDec:
		if c := compareDecimal(a, b); c != 0 {
			return c
		}
	}

	return strings.Compare(a, b)
}

func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// compareDecimal orders two unsigned decimal strings by value without
// parsing them.
func compareDecimal(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// After reports whether r sorts strictly after other.
func (r Revision) After(other Revision) bool {
	return r.Compare(other) > 0
}

// MaxRevision returns the greater of a and b.
func MaxRevision(a, b Revision) Revision {
	if b.After(a) {
		return b
	}
	return a
}
