package models

import (
	"time"
)

type CompensationPeriod string

const (
	PeriodUnknown CompensationPeriod = ""
	PeriodHourly  CompensationPeriod = "hourly"
	PeriodDaily   CompensationPeriod = "daily"
	PeriodWeekly  CompensationPeriod = "weekly"
	PeriodMonthly CompensationPeriod = "monthly"
	PeriodYearly  CompensationPeriod = "yearly"
)

type RemotePolicy string

const (
	RemoteUnknown RemotePolicy = "unknown"
	RemoteOnly    RemotePolicy = "remote"
	RemoteOnsite  RemotePolicy = "onsite"
)

type JobPosting struct {
	ID                   string
	SourceID             string
	Title                string
	Company              string
	CompanyURL           string
	Location             string
	Locality             string
	Region               string
	Country              string
	Description          string
	Technologies         []string
	ExperienceLevel      string
	EmploymentTypes      []string
	CompensationMin      float64
	CompensationMax      float64
	CompensationCurrency string
	CompensationPeriod   CompensationPeriod
	RemotePolicy         RemotePolicy
	Source               string
	PostedAt             time.Time
	RawData              string
}

func (p *JobPosting) HasCompensation() bool {
	return p.CompensationMin > 0 || p.CompensationMax > 0
}
