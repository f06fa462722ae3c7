// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// Employee is a roster entry as stored on the terminal.
type Employee struct {
	EmployeeID  string `json:"employee_id"`
	BadgeNumber string `json:"badge_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PIN         string `json:"pin,omitempty"`
	Status      string `json:"status"`
	Supervisor  bool   `json:"supervisor"`
	Language    string `json:"language,omitempty"`
}

// DecodeEmployee builds an [Employee] from wire fields.
func DecodeEmployee(f Fields) (Employee, error) {
	id, err := f.Require("EmployeeID")
	if err != nil {
		return Employee{}, err
	}
	supervisor, err := f.Bool("Supervisor")
	if err != nil {
		return Employee{}, fmt.Errorf("employee %s: %w", id, err)
	}

	return Employee{
		EmployeeID:  id,
		BadgeNumber: f.String("BadgeNumber"),
		FirstName:   f.String("FirstName"),
		LastName:    f.String("LastName"),
		PIN:         f.String("PIN"),
		Status:      f.String("Status"),
		Supervisor:  supervisor,
		Language:    f.String("Language"),
	}, nil
}

// EmployeeInfoBlob is an opaque per-employee payload. Kind tells the consumer
// how to interpret Data (for example "photo" or "message").
type EmployeeInfoBlob struct {
	InfoID     string `json:"info_id"`
	EmployeeID string `json:"employee_id"`
	Kind       string `json:"kind"`
	Data       string `json:"data"`
}

// DecodeEmployeeInfo builds an [EmployeeInfoBlob] from wire fields.
func DecodeEmployeeInfo(f Fields) (EmployeeInfoBlob, error) {
	id, err := f.Require("InfoID")
	if err != nil {
		return EmployeeInfoBlob{}, err
	}
	employeeID, err := f.Require("EmployeeID")
	if err != nil {
		return EmployeeInfoBlob{}, fmt.Errorf("employee info %s: %w", id, err)
	}

	return EmployeeInfoBlob{
		InfoID:     id,
		EmployeeID: employeeID,
		Kind:       f.String("Kind"),
		Data:       f.String("Data"),
	}, nil
}
