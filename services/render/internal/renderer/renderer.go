package renderer

import (
	"context"
	"fmt"
	"time"

	"shenanigigs/common/errors"
	"shenanigigs/common/jobposting"
	"shenanigigs/common/jsonld"
	"shenanigigs/common/telemetry"
	"shenanigigs/services/render/internal/config"
	"shenanigigs/services/render/internal/models"
	"shenanigigs/services/render/internal/parser"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var unitTexts = map[models.CompensationPeriod]jobposting.UnitText{
	models.PeriodHourly:  jobposting.UnitHour,
	models.PeriodDaily:   jobposting.UnitDay,
	models.PeriodWeekly:  jobposting.UnitWeek,
	models.PeriodMonthly: jobposting.UnitMonth,
	models.PeriodYearly:  jobposting.UnitYear,
}

type Renderer struct {
	logger *zap.Logger
	tracer trace.Tracer
	config *config.Config
	now    func() time.Time
}

func NewRenderer(logger *zap.Logger, config *config.Config) *Renderer {
	tracer := telemetry.GetTracer("shenanigigs/render/renderer")
	return &Renderer{
		logger: logger,
		tracer: tracer,
		config: config,
		now:    time.Now,
	}
}

// teeSink hands every diagnostic to each of its sinks in order.
type teeSink []jobposting.Sink

func (t teeSink) Notice(d jobposting.Diagnostic) {
	for _, sink := range t {
		sink.Notice(d)
	}
}

// Render parses one raw posting and returns its JSON-LD script tag. In strict
// mode a rejected field or a missing required field fails the render.
func (r *Renderer) Render(ctx context.Context, rawData []byte) (string, error) {
	ctx, span := r.tracer.Start(ctx, "Render")
	defer span.End()

	posting, err := parser.ParseJobPosting(string(rawData))
	if err != nil {
		r.logger.Error("Failed to parse job posting", zap.Error(err))
		telemetry.Fail(span, err, "parse job posting")
		return "", fmt.Errorf("parse job posting: %w", err)
	}
	span.SetAttributes(telemetry.String("posting.source_id", posting.SourceID))

	record, recorder, err := r.Build(ctx, posting)
	if err != nil {
		return "", err
	}

	script, err := record.ToScript()
	if err != nil {
		r.logger.Error("Failed to encode job posting", zap.String("id", posting.ID), zap.Error(err))
		telemetry.Fail(span, err, "encode job posting")
		return "", err
	}

	violations := recorder.Count(jobposting.SeverityViolation)
	missing := recorder.Count(jobposting.SeverityRequired)
	span.SetAttributes(
		telemetry.Int("posting.violations", violations),
		telemetry.Int("posting.missing_required", missing),
		telemetry.Bool("posting.strict", r.config.Strict),
	)

	if r.config.Strict && violations+missing > 0 {
		err := strictFailure(posting.SourceID, recorder.Diagnostics())
		r.logger.Error("Job posting is incomplete",
			zap.String("id", posting.ID),
			zap.Int("violations", violations),
			zap.Int("missing_required", missing),
		)
		telemetry.Fail(span, err, "incomplete job posting")
		return "", err
	}

	r.logger.Info("Rendered job posting",
		zap.String("id", posting.ID),
		zap.String("source_id", posting.SourceID),
		zap.Int("violations", violations),
		zap.Int("missing_required", missing),
	)
	return script, nil
}

func strictFailure(sourceID string, diagnostics []jobposting.Diagnostic) error {
	var errs error
	for _, d := range diagnostics {
		switch d.Severity {
		case jobposting.SeverityViolation:
			errs = errors.Append(errs, errors.Field(d.Field, d.Message))
		case jobposting.SeverityRequired:
			errs = errors.Append(errs, errors.Field(d.Field, "is required"))
		}
	}
	return errors.InvalidInput(fmt.Sprintf("job posting %s is incomplete", sourceID), errs)
}

// Build maps a parsed posting onto a JSON-LD record. A rejected field is
// logged and skipped. The returned Recorder keeps receiving the record's
// diagnostics, so it also sees the audit run by a later ToScript.
func (r *Renderer) Build(ctx context.Context, posting *models.JobPosting) (*jobposting.JobPosting, *jobposting.Recorder, error) {
	_, span := r.tracer.Start(ctx, "Build")
	defer span.End()

	if posting == nil {
		return nil, nil, errors.InvalidInput("job posting is nil", nil)
	}

	recorder := &jobposting.Recorder{}
	logger := r.logger.With(zap.String("id", posting.ID))
	record := jobposting.New(jobposting.WithSink(teeSink{recorder, jobposting.NewZapSink(logger)}))

	apply := func(field string, err error) {
		if err != nil {
			logger.Debug("Skipping rejected field", zap.String("field", field), zap.Error(err))
		}
	}

	if posting.Title != "" {
		apply("title", record.SetTitle(posting.Title))
	}
	if posting.Description != "" {
		apply("description", record.SetDescription(posting.Description))
	}

	postedAt := posting.PostedAt
	if postedAt.IsZero() {
		postedAt = r.now()
		logger.Debug("Posting has no date, using current time")
	}
	postedAt = postedAt.UTC()
	apply("datePosted", record.SetDatePosted(postedAt.Format(jobposting.DateLayout)))
	apply("validThrough", record.SetValidThrough(postedAt.Add(r.config.PostingValidFor).Format(jobposting.DateLayout)))

	if posting.Company != "" {
		sameAs := posting.CompanyURL
		if sameAs == "" {
			sameAs = r.config.DefaultOrganizationURL
		}
		apply("hiringOrganization", record.SetHiringOrganization(posting.Company, sameAs, ""))
		apply("identifier", record.SetIdentifier(posting.Company, posting.ID))
	}

	country := posting.Country
	if country == "" {
		country = r.config.DefaultCountry
	}
	apply("jobLocation", record.SetJobLocation(jobposting.Address{
		AddressLocality: posting.Locality,
		AddressRegion:   posting.Region,
		AddressCountry:  country,
	}, posting.RemotePolicy == models.RemoteOnly))

	switch len(posting.EmploymentTypes) {
	case 0:
	case 1:
		apply("employmentType", record.SetEmploymentType(jobposting.EmploymentType(posting.EmploymentTypes[0])))
	default:
		types := make([]jobposting.EmploymentType, len(posting.EmploymentTypes))
		for i, t := range posting.EmploymentTypes {
			types[i] = jobposting.EmploymentType(t)
		}
		apply("employmentType", record.SetEmploymentTypes(types))
	}

	if posting.HasCompensation() {
		apply("baseSalary", r.setSalary(record, posting))
	}

	if len(posting.Technologies) > 0 {
		apply("skills", record.SetProperty("skills", jsonld.Strings(posting.Technologies...)))
	}
	if posting.ExperienceLevel != "" {
		apply("experienceRequirements", record.SetProperty("experienceRequirements", jsonld.String(posting.ExperienceLevel)))
	}

	span.SetAttributes(telemetry.Int("posting.violations", recorder.Count(jobposting.SeverityViolation)))
	return record, recorder, nil
}

func (r *Renderer) setSalary(record *jobposting.JobPosting, posting *models.JobPosting) error {
	currency := posting.CompensationCurrency
	if currency == "" {
		currency = r.config.DefaultCurrency
	}
	unit, ok := unitTexts[posting.CompensationPeriod]
	if !ok {
		unit = jobposting.UnitYear
	}

	lo, hi := posting.CompensationMin, posting.CompensationMax
	switch {
	case lo > 0 && hi > lo:
		return record.SetBaseSalaryRange(currency, unit, lo, hi)
	case lo > 0:
		return record.SetBaseSalary(currency, unit, lo)
	default:
		return record.SetBaseSalary(currency, unit, hi)
	}
}
