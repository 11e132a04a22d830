// Package jobposting builds a schema.org JobPosting record, validates each
// field as it is set and renders the result as a JSON-LD script tag.
//
// Validation problems never panic or abort a program: a rejected setter
// reports every violated constraint to the record's Sink, leaves the record
// untouched and returns an INVALID_INPUT error. Missing required or
// recommended fields are reported when the script is rendered.
package jobposting

import (
	"fmt"

	"shenanigigs/common/errors"
	"shenanigigs/common/jsonld"

	"go.uber.org/zap"
)

const (
	keyContext = "@context"
	keyType    = "@type"
)

var (
	recommendedFields = []string{"baseSalary", "employmentType", "identifier"}
	requiredFields    = []string{"datePosted", "description", "hiringOrganization", "jobLocation", "title", "validThrough"}
)

// JobPosting is a single structured-data record. It is not safe for
// concurrent mutation.
type JobPosting struct {
	data *jsonld.Object
	sink Sink
}

type Option func(*JobPosting)

// WithSink routes diagnostics to sink. A nil sink discards them.
func WithSink(sink Sink) Option {
	return func(p *JobPosting) {
		if sink == nil {
			sink = NopSink{}
		}
		p.sink = sink
	}
}

// WithLogger routes diagnostics to logger. A nil logger discards them.
func WithLogger(logger *zap.Logger) Option {
	if logger == nil {
		return WithSink(nil)
	}
	return WithSink(NewZapSink(logger))
}

// New returns a record holding only @context and @type. Without options,
// diagnostics go to the global zap logger.
func New(opts ...Option) *JobPosting {
	p := &JobPosting{
		data: jsonld.NewObject().
			Set(keyContext, jsonld.String(SchemaContext)).
			Set(keyType, jsonld.String(SchemaType)),
		sink: NewZapSink(zap.L()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func isFixedKey(name string) bool {
	return name == keyContext || name == keyType
}

// SetProperty stores a copy of value under name, replacing whatever was there.
// The schema is not consulted. The fixed @context and @type keys, a nil value
// and non-finite numbers anywhere inside value are refused. Nested nils are
// kept and encode as null.
func (p *JobPosting) SetProperty(name string, value jsonld.Value) error {
	var errs error
	if isFixedKey(name) {
		errs = errors.Append(errs, errors.Field(name, "cannot be replaced"))
	}
	if jsonld.IsNil(value) {
		errs = errors.Append(errs, errors.Field(name, "should have a value"))
	}
	errs = checkNumbers(errs, name, value)
	if errs != nil {
		return p.reject(name, errs)
	}
	p.data.Set(name, jsonld.Clone(value))
	return nil
}

// checkNumbers reports every NaN or infinity inside v under its dotted path.
func checkNumbers(errs error, path string, v jsonld.Value) error {
	switch tv := v.(type) {
	case jsonld.Number:
		errs = errors.Append(errs, checkNumber(path, float64(tv)))
	case jsonld.List:
		for i, item := range tv {
			errs = checkNumbers(errs, fmt.Sprintf("%s[%d]", path, i), item)
		}
	case *jsonld.Object:
		if tv == nil {
			return errs
		}
		for _, key := range tv.Keys() {
			item, _ := tv.Get(key)
			errs = checkNumbers(errs, path+"."+key, item)
		}
	}
	return errs
}

// GetProperty returns a copy of the value stored under name, or nil after
// reporting an undefined-property notice that names the calling file and
// line. Changing the copy does not change the record.
func (p *JobPosting) GetProperty(name string) jsonld.Value {
	if v, ok := p.data.Get(name); ok {
		return jsonld.Clone(v)
	}

	msg := "Undefined property via GetProperty(): " + name
	if file, line, ok := errors.Caller(1); ok {
		msg = fmt.Sprintf("%s in %s on line %d", msg, file, line)
	}
	p.sink.Notice(Diagnostic{Severity: SeverityUndefined, Field: name, Message: msg})
	return nil
}

func (p *JobPosting) HasProperty(name string) bool {
	return p.data.Has(name)
}

// RemoveProperty deletes name if present. The fixed keys stay.
func (p *JobPosting) RemoveProperty(name string) {
	if isFixedKey(name) {
		return
	}
	p.data.Delete(name)
}

// Properties returns a deep copy of the record's fields in insertion order.
func (p *JobPosting) Properties() *jsonld.Object {
	return p.data.Clone()
}

// CheckRequirements reports every missing recommended field, then every
// missing required field. It never blocks serialization.
func (p *JobPosting) CheckRequirements() []Diagnostic {
	var out []Diagnostic
	for _, field := range recommendedFields {
		if !p.data.Has(field) {
			out = append(out, Diagnostic{Severity: SeverityRecommended, Field: field})
		}
	}
	for _, field := range requiredFields {
		if !p.data.Has(field) {
			out = append(out, Diagnostic{Severity: SeverityRequired, Field: field})
		}
	}
	for _, d := range out {
		p.sink.Notice(d)
	}
	return out
}

// MarshalJSON lets a record be passed to encoding/json. Note that
// encoding/json re-escapes HTML characters in the result; use ToJSON for the
// exact embeddable form.
func (p *JobPosting) MarshalJSON() ([]byte, error) {
	return jsonld.Marshal(p.data)
}

// ToJSON encodes the record compactly, keys in insertion order. Every value
// reachable through the setters encodes, so an error here means a bug.
func (p *JobPosting) ToJSON() (string, error) {
	b, err := jsonld.Marshal(p.data)
	if err != nil {
		return "", errors.Internal("encoding job posting", err)
	}
	return string(b), nil
}

// ToScript runs CheckRequirements and wraps the JSON in an
// application/ld+json script tag.
func (p *JobPosting) ToScript() (string, error) {
	p.CheckRequirements()
	body, err := p.ToJSON()
	if err != nil {
		return "", err
	}
	return `<script type="application/ld+json">` + body + `</script>`, nil
}

// reject reports each violation carried by errs and wraps them for the
// caller.
func (p *JobPosting) reject(field string, errs error) error {
	for _, fe := range errors.Fields(errs) {
		p.sink.Notice(Diagnostic{Severity: SeverityViolation, Field: fe.Field, Message: fe.Message})
	}
	return errors.InvalidInput(field, errs)
}
