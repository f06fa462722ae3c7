// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// JobCode is a code an employee may punch against.
type JobCode struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	CategoryID  string `json:"category_id,omitempty"`
	SortOrder   int    `json:"sort_order"`
}

func DecodeJobCode(f Fields) (JobCode, error) {
	code, err := f.Require("Code")
	if err != nil {
		return JobCode{}, err
	}
	order, err := f.Int("SortOrder")
	if err != nil {
		return JobCode{}, fmt.Errorf("job code %s: %w", code, err)
	}

	return JobCode{
		Code:        code,
		Description: f.String("Description"),
		CategoryID:  f.String("CategoryID"),
		SortOrder:   order,
	}, nil
}

// JobCategory groups job codes.
type JobCategory struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

func DecodeJobCategory(f Fields) (JobCategory, error) {
	id, err := f.Require("CategoryID")
	if err != nil {
		return JobCategory{}, err
	}
	return JobCategory{CategoryID: id, Name: f.String("Name")}, nil
}
