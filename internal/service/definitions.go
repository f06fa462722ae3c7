package service

import (
	"github.com/MKhiriev/refsync/internal/store"
	"github.com/MKhiriev/refsync/models"
)

var (
	EmployeeDefinition = EntityDefinition[models.Employee]{
		Type:       models.Employees,
		Endpoint:   "/employees",
		IDEndpoint: "/employees/ids",
		IDField:    "EmployeeID",
		Decode:     models.DecodeEmployee,
	}

	EmployeeInfoDefinition = EntityDefinition[models.EmployeeInfoBlob]{
		Type:       models.EmployeeInfo,
		Endpoint:   "/employee-info",
		IDEndpoint: "/employee-info/ids",
		IDField:    "InfoID",
		Decode:     models.DecodeEmployeeInfo,
	}

	ScheduleDefinition = EntityDefinition[models.Schedule]{
		Type:       models.Schedules,
		Endpoint:   "/schedules",
		IDEndpoint: "/schedules/ids",
		IDField:    "ScheduleID",
		Decode:     models.DecodeSchedule,
	}

	JobCategoryDefinition = EntityDefinition[models.JobCategory]{
		Type:       models.JobCategories,
		Endpoint:   "/job-categories",
		IDEndpoint: "/job-categories/ids",
		IDField:    "CategoryID",
		Decode:     models.DecodeJobCategory,
	}

	JobCodeDefinition = EntityDefinition[models.JobCode]{
		Type:       models.JobCodes,
		Endpoint:   "/job-codes",
		IDEndpoint: "/job-codes/ids",
		IDField:    "Code",
		Decode:     models.DecodeJobCode,
	}
)

// EntitySpecs holds the typed specs of every replicated entity type.
type EntitySpecs struct {
	Employees     *TypedSpec[models.Employee]
	EmployeeInfo  *TypedSpec[models.EmployeeInfoBlob]
	Schedules     *TypedSpec[models.Schedule]
	JobCategories *TypedSpec[models.JobCategory]
	JobCodes      *TypedSpec[models.JobCode]
}

// NewEntitySpecs binds every definition to repo.
func NewEntitySpecs(repo store.EntityRepository) *EntitySpecs {
	return &EntitySpecs{
		Employees:     NewTypedSpec(EmployeeDefinition, repo),
		EmployeeInfo:  NewTypedSpec(EmployeeInfoDefinition, repo),
		Schedules:     NewTypedSpec(ScheduleDefinition, repo),
		JobCategories: NewTypedSpec(JobCategoryDefinition, repo),
		JobCodes:      NewTypedSpec(JobCodeDefinition, repo),
	}
}

// All returns the specs in the order a cycle processes them, matching
// [models.AllEntityTypes].
func (s *EntitySpecs) All() []EntitySpec {
	return []EntitySpec{s.Employees, s.EmployeeInfo, s.Schedules, s.JobCategories, s.JobCodes}
}
