// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strings"
)

// EntityType names one replicated reference-data table. The value doubles as
// the manifest token the server uses to flag pending changes and as the key
// of the persisted revision watermark.
type EntityType string

const (
	// Employees holds the terminal's employee roster.
	Employees EntityType = "employees"

	// EmployeeInfo holds opaque per-employee blobs (photos, messages,
	// enrolment data) keyed by their own id.
	EmployeeInfo EntityType = "employee_info"

	// Schedules holds shift schedules assigned to employees.
	Schedules EntityType = "schedules"

	// JobCodes holds the job codes an employee may punch against.
	JobCodes EntityType = "job_codes"

	// JobCategories groups job codes.
	JobCategories EntityType = "job_categories"
)

// AllEntityTypes returns every entity type known to the terminal in the
// order a sync cycle processes them. Categories come before codes so that a
// freshly synced code can always resolve its category.
func AllEntityTypes() []EntityType {
	return []EntityType{Employees, EmployeeInfo, Schedules, JobCategories, JobCodes}
}

// String implements fmt.Stringer.
func (t EntityType) String() string {
	return string(t)
}

// ParseEntityType maps a manifest token to a known [EntityType]. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseEntityType(raw string) (EntityType, error) {
	v := EntityType(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range AllEntityTypes() {
		if t == v {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownEntityType, raw)
}

// Manifest is the server's set of entity types with pending changes,
// consumed once per orchestration cycle.
type Manifest map[EntityType]struct{}

// NewManifest builds a manifest from the given types.
func NewManifest(types ...EntityType) Manifest {
	m := make(Manifest, len(types))
	for _, t := range types {
		m[t] = struct{}{}
	}
	return m
}

// Has reports whether t is flagged in the manifest.
func (m Manifest) Has(t EntityType) bool {
	_, ok := m[t]
	return ok
}
