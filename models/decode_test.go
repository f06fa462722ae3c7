// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmployee(t *testing.T) {
	e, err := DecodeEmployee(Fields{
		"EmployeeID":  "E1",
		"FirstName":   "Ann",
		"LastName":    "Lee",
		"BadgeNumber": "0042",
		"Supervisor":  "Y",
	})
	require.NoError(t, err)
	assert.Equal(t, Employee{EmployeeID: "E1", FirstName: "Ann", LastName: "Lee", BadgeNumber: "0042", Supervisor: true}, e)

	_, err = DecodeEmployee(Fields{"FirstName": "Ann"})
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = DecodeEmployee(Fields{"EmployeeID": "E1", "Supervisor": "sometimes"})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestDecodeEmployeeInfo_RequiresOwner(t *testing.T) {
	_, err := DecodeEmployeeInfo(Fields{"InfoID": "I1"})
	assert.ErrorIs(t, err, ErrMissingField)

	info, err := DecodeEmployeeInfo(Fields{"InfoID": "I1", "EmployeeID": "E1", "Kind": "photo", "Data": "AAEC"})
	require.NoError(t, err)
	assert.Equal(t, "photo", info.Kind)
}

func TestDecodeSchedule_RejectsInvertedShift(t *testing.T) {
	_, err := DecodeSchedule(Fields{
		"ScheduleID": "S1",
		"EmployeeID": "E1",
		"Start":      "2026-01-02T10:00:00Z",
		"End":        "2026-01-02T09:00:00Z",
	})
	assert.ErrorIs(t, err, ErrInvalidField)

	s, err := DecodeSchedule(Fields{
		"ScheduleID": "S1",
		"EmployeeID": "E1",
		"Start":      "2026-01-02T09:00:00Z",
		"End":        "2026-01-02T17:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, 8.0, s.End.Sub(s.Start).Hours())
}

func TestDecodeJobs(t *testing.T) {
	jc, err := DecodeJobCode(Fields{"Code": "100", "CategoryID": "C1", "SortOrder": "3"})
	require.NoError(t, err)
	assert.Equal(t, 3, jc.SortOrder)

	_, err = DecodeJobCode(Fields{"Code": "100", "SortOrder": "third"})
	assert.ErrorIs(t, err, ErrInvalidField)

	cat, err := DecodeJobCategory(Fields{"CategoryID": "C1", "Name": "Kitchen"})
	require.NoError(t, err)
	assert.Equal(t, JobCategory{CategoryID: "C1", Name: "Kitchen"}, cat)
}
