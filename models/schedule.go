// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"time"
)

// Schedule is one shift assigned to an employee.
type Schedule struct {
	ScheduleID string    `json:"schedule_id"`
	EmployeeID string    `json:"employee_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	JobCode    string    `json:"job_code,omitempty"`
}

// DecodeSchedule builds a [Schedule] from wire fields. End must not precede
// Start.
func DecodeSchedule(f Fields) (Schedule, error) {
	id, err := f.Require("ScheduleID")
	if err != nil {
		return Schedule{}, err
	}
	employeeID, err := f.Require("EmployeeID")
	if err != nil {
		return Schedule{}, fmt.Errorf("schedule %s: %w", id, err)
	}
	start, err := f.Time("Start")
	if err != nil {
		return Schedule{}, fmt.Errorf("schedule %s: %w", id, err)
	}
	end, err := f.Time("End")
	if err != nil {
		return Schedule{}, fmt.Errorf("schedule %s: %w", id, err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return Schedule{}, fmt.Errorf("schedule %s: %w: end before start", id, ErrInvalidField)
	}

	return Schedule{
		ScheduleID: id,
		EmployeeID: employeeID,
		Start:      start,
		End:        end,
		JobCode:    f.String("JobCode"),
	}, nil
}
