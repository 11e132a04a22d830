package jobposting

import (
	"shenanigigs/common/jsonld"
)

const (
	SchemaContext = "http://schema.org/"
	SchemaType    = "JobPosting"

	// DateLayout is the only accepted format for datePosted and validThrough.
	DateLayout = "2006-01-02"
)

type UnitText string

const (
	UnitHour  UnitText = "HOUR"
	UnitDay   UnitText = "DAY"
	UnitWeek  UnitText = "WEEK"
	UnitMonth UnitText = "MONTH"
	UnitYear  UnitText = "YEAR"
)

var unitTexts = []UnitText{UnitHour, UnitDay, UnitWeek, UnitMonth, UnitYear}

func (u UnitText) Valid() bool {
	for _, v := range unitTexts {
		if u == v {
			return true
		}
	}
	return false
}

type EmploymentType string

const (
	FullTime   EmploymentType = "FULL_TIME"
	PartTime   EmploymentType = "PART_TIME"
	Contractor EmploymentType = "CONTRACTOR"
	Temporary  EmploymentType = "TEMPORARY"
	Intern     EmploymentType = "INTERN"
	Volunteer  EmploymentType = "VOLUNTEER"
	PerDiem    EmploymentType = "PER_DIEM"
	Other      EmploymentType = "OTHER"
)

var employmentTypes = []EmploymentType{FullTime, PartTime, Contractor, Temporary, Intern, Volunteer, PerDiem, Other}

// Valid is case-sensitive: "full_time" is not a member.
func (e EmploymentType) Valid() bool {
	for _, v := range employmentTypes {
		if e == v {
			return true
		}
	}
	return false
}

// Address is the PostalAddress of a job location.
type Address struct {
	StreetAddress   string
	AddressLocality string
	AddressRegion   string
	PostalCode      string
	AddressCountry  string
}

// Buildable is the set of operations that populate a JobPosting record.
type Buildable interface {
	SetBaseSalary(currency string, unitText UnitText, value float64) error
	SetBaseSalaryRange(currency string, unitText UnitText, minValue, maxValue float64) error
	SetDatePosted(datePosted string) error
	SetDescription(description string) error
	SetEmploymentType(employmentType EmploymentType) error
	SetEmploymentTypes(employmentTypes []EmploymentType) error
	SetHiringOrganization(name, sameAs, logo string) error
	SetIdentifier(name, value string) error
	SetJobLocation(address Address, telecommute bool) error
	SetTitle(title string) error
	SetValidThrough(validThrough string) error

	SetProperty(name string, value jsonld.Value) error
	GetProperty(name string) jsonld.Value
	HasProperty(name string) bool
	RemoveProperty(name string)
}

// Serializable renders a record for embedding in a page.
type Serializable interface {
	ToJSON() (string, error)
	ToScript() (string, error)
}

var (
	_ Buildable    = (*JobPosting)(nil)
	_ Serializable = (*JobPosting)(nil)
)
