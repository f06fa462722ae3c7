// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Item is one element of an update stream: either a [Record] carrying a full
// payload or a [Tombstone] announcing a deletion. The set of implementations
// is closed.
type Item interface {
	// ItemRevision returns the revision the server assigned to the change.
	ItemRevision() Revision

	isItem()
}

// Fields holds the raw payload of a record exactly as received on the wire,
// keyed by field name. The revision is never part of it.
type Fields map[string]string

// Record is a full upsert notice for one entity.
type Record struct {
	Revision Revision
	Fields   Fields
}

// ItemRevision implements [Item].
func (r Record) ItemRevision() Revision { return r.Revision }

func (Record) isItem() {}

// Tombstone is a deletion notice. It carries no payload.
type Tombstone struct {
	ID       string
	Revision Revision
}

// ItemRevision implements [Item].
func (t Tombstone) ItemRevision() Revision { return t.Revision }

func (Tombstone) isItem() {}

// String returns the trimmed value of name, or "" when it is absent.
func (f Fields) String(name string) string {
	return strings.TrimSpace(f[name])
}

// Require returns the trimmed value of name and fails when it is absent or
// blank.
func (f Fields) Require(name string) (string, error) {
	v := f.String(name)
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, name)
	}
	return v, nil
}

// Int parses name as a base-10 integer. An absent field yields 0.
func (f Fields) Int(name string) (int, error) {
	v := f.String(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidField, name, err)
	}
	return n, nil
}

// Bool parses name as a boolean ("1", "true", "Y" and friends). An absent
// field yields false.
func (f Fields) Bool(name string) (bool, error) {
	v := strings.ToLower(f.String(name))
	switch v {
	case "":
		return false, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalidField, name, err)
	}
	return b, nil
}

// Time parses name as RFC 3339. An absent field yields the zero time.
func (f Fields) Time(name string) (time.Time, error) {
	v := f.String(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidField, name, err)
	}
	return t, nil
}
