package jobposting

import (
	"math"
	"time"
	"unicode/utf8"

	"shenanigigs/common/errors"
	"shenanigigs/common/jsonld"
)

const (
	msgString   = "should be a valid string"
	msgNumber   = "should be a number"
	msgUnitText = "should be one of the HOUR, DAY, WEEK, MONTH or YEAR"
	msgDate     = "should be in ISO 8601 format like 2016-02-18"
)

func checkString(field, value string) *errors.FieldError {
	if !utf8.ValidString(value) {
		return errors.Field(field, msgString)
	}
	return nil
}

func checkNumber(field string, value float64) *errors.FieldError {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.Field(field, msgNumber)
	}
	return nil
}

// checkDate accepts only strings that survive a parse/format round trip with
// DateLayout, so "2016-2-18" and "2016-02-30" are both rejected.
func checkDate(field, value string) *errors.FieldError {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil || parsed.Format(DateLayout) != value {
		return errors.Field(field, msgDate)
	}
	return nil
}

func (p *JobPosting) checkSalary(currency string, unitText UnitText) error {
	var errs error
	errs = errors.Append(errs, checkString("currency", currency))
	if !unitText.Valid() {
		errs = errors.Append(errs, errors.Field("unitText", msgUnitText))
	}
	return errs
}

// SetBaseSalary sets a single salary amount per unitText.
func (p *JobPosting) SetBaseSalary(currency string, unitText UnitText, value float64) error {
	errs := p.checkSalary(currency, unitText)
	errs = errors.Append(errs, checkNumber("value", value))
	if errs != nil {
		return p.reject("baseSalary", errs)
	}

	quantity := jsonld.NewObject().
		Set("@type", jsonld.String("QuantitativeValue")).
		Set("value", jsonld.Number(value)).
		Set("unitText", jsonld.String(unitText))
	p.data.Set("baseSalary", monetaryAmount(currency, quantity))
	return nil
}

// SetBaseSalaryRange sets a salary range per unitText.
func (p *JobPosting) SetBaseSalaryRange(currency string, unitText UnitText, minValue, maxValue float64) error {
	errs := p.checkSalary(currency, unitText)
	errs = errors.Append(errs, checkNumber("value", minValue))
	errs = errors.Append(errs, checkNumber("maxValue", maxValue))
	if errs != nil {
		return p.reject("baseSalary", errs)
	}

	quantity := jsonld.NewObject().
		Set("@type", jsonld.String("QuantitativeValue")).
		Set("minValue", jsonld.Number(minValue)).
		Set("maxValue", jsonld.Number(maxValue)).
		Set("unitText", jsonld.String(unitText))
	p.data.Set("baseSalary", monetaryAmount(currency, quantity))
	return nil
}

func monetaryAmount(currency string, quantity *jsonld.Object) *jsonld.Object {
	return jsonld.NewObject().
		Set("@type", jsonld.String("MonetaryAmount")).
		Set("currency", jsonld.String(currency)).
		Set("value", quantity)
}

func (p *JobPosting) SetDatePosted(datePosted string) error {
	if fe := checkDate("datePosted", datePosted); fe != nil {
		return p.reject("datePosted", fe)
	}
	p.data.Set("datePosted", jsonld.String(datePosted))
	return nil
}

// SetDescription stores the full description. HTML is kept as given.
func (p *JobPosting) SetDescription(description string) error {
	if fe := checkString("description", description); fe != nil {
		return p.reject("description", fe)
	}
	p.data.Set("description", jsonld.String(description))
	return nil
}

func (p *JobPosting) SetEmploymentType(employmentType EmploymentType) error {
	if !employmentType.Valid() {
		return p.reject("employmentType", errors.Field("employmentType", "value is not valid"))
	}
	p.data.Set("employmentType", jsonld.String(employmentType))
	return nil
}

// SetEmploymentTypes stores several employment types as a list. Every
// element must be valid; each invalid one is reported separately.
func (p *JobPosting) SetEmploymentTypes(employmentTypes []EmploymentType) error {
	var errs error
	if len(employmentTypes) == 0 {
		errs = errors.Append(errs, errors.Field("employmentType", "values should not be empty"))
	}
	for _, t := range employmentTypes {
		if !t.Valid() {
			errs = errors.Append(errs, errors.Field("employmentType", "value "+string(t)+" is not valid"))
		}
	}
	if errs != nil {
		return p.reject("employmentType", errs)
	}

	list := make(jsonld.List, len(employmentTypes))
	for i, t := range employmentTypes {
		list[i] = jsonld.String(t)
	}
	p.data.Set("employmentType", list)
	return nil
}

// SetHiringOrganization describes the employer. An empty logo is left out.
func (p *JobPosting) SetHiringOrganization(name, sameAs, logo string) error {
	var errs error
	errs = errors.Append(errs, checkString("name", name))
	errs = errors.Append(errs, checkString("sameAs", sameAs))
	errs = errors.Append(errs, checkString("logo", logo))
	if errs != nil {
		return p.reject("hiringOrganization", errs)
	}

	org := jsonld.NewObject().
		Set("@type", jsonld.String("Organization")).
		Set("name", jsonld.String(name)).
		Set("sameAs", jsonld.String(sameAs))
	if logo != "" {
		org.Set("logo", jsonld.String(logo))
	}
	p.data.Set("hiringOrganization", org)
	return nil
}

// SetIdentifier sets the hiring organization's own identifier for the job.
func (p *JobPosting) SetIdentifier(name, value string) error {
	var errs error
	errs = errors.Append(errs, checkString("name", name))
	errs = errors.Append(errs, checkString("value", value))
	if errs != nil {
		return p.reject("identifier", errs)
	}

	p.data.Set("identifier", jsonld.NewObject().
		Set("@type", jsonld.String("PropertyValue")).
		Set("name", jsonld.String(name)).
		Set("value", jsonld.String(value)))
	return nil
}

// SetJobLocation sets where the employee will primarily work. telecommute
// marks the job as remote.
func (p *JobPosting) SetJobLocation(address Address, telecommute bool) error {
	var errs error
	errs = errors.Append(errs, checkString("streetAddress", address.StreetAddress))
	errs = errors.Append(errs, checkString("addressLocality", address.AddressLocality))
	errs = errors.Append(errs, checkString("addressRegion", address.AddressRegion))
	errs = errors.Append(errs, checkString("postalCode", address.PostalCode))
	errs = errors.Append(errs, checkString("addressCountry", address.AddressCountry))
	if errs != nil {
		return p.reject("jobLocation", errs)
	}

	place := jsonld.NewObject().
		Set("@type", jsonld.String("Place")).
		Set("address", jsonld.NewObject().
			Set("@type", jsonld.String("PostalAddress")).
			Set("streetAddress", jsonld.String(address.StreetAddress)).
			Set("addressLocality", jsonld.String(address.AddressLocality)).
			Set("addressRegion", jsonld.String(address.AddressRegion)).
			Set("postalCode", jsonld.String(address.PostalCode)).
			Set("addressCountry", jsonld.String(address.AddressCountry)))
	if telecommute {
		place.Set("additionalProperty", jsonld.NewObject().
			Set("@type", jsonld.String("PropertyValue")).
			Set("value", jsonld.String("TELECOMMUTE")))
	}
	p.data.Set("jobLocation", place)
	return nil
}

func (p *JobPosting) SetTitle(title string) error {
	if fe := checkString("title", title); fe != nil {
		return p.reject("title", fe)
	}
	p.data.Set("title", jsonld.String(title))
	return nil
}

// SetValidThrough sets the date the posting expires.
func (p *JobPosting) SetValidThrough(validThrough string) error {
	if fe := checkDate("validThrough", validThrough); fe != nil {
		return p.reject("validThrough", fe)
	}
	p.data.Set("validThrough", jsonld.String(validThrough))
	return nil
}
