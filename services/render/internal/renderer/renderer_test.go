package renderer

import (
	"context"
	"strings"
	"testing"
	"time"

	"shenanigigs/common/errors"
	"shenanigigs/common/jobposting"
	"shenanigigs/services/render/internal/config"
	"shenanigigs/services/render/internal/models"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRenderer(strict bool) (*Renderer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRenderer(zap.New(core), &config.Config{
		DefaultCurrency:        "USD",
		DefaultCountry:         "US",
		DefaultOrganizationURL: "https://jobs.example",
		PostingValidFor:        720 * time.Hour,
		Strict:                 strict,
	})
	r.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return r, logs
}

func welderPosting() *models.JobPosting {
	return &models.JobPosting{
		ID:                   "id-1",
		SourceID:             "1",
		Title:                "Welder",
		Company:              "Acme",
		CompanyURL:           "https://acme.example",
		Locality:             "Detroit",
		Region:               "MI",
		Description:          "Weld things",
		Technologies:         []string{"tig"},
		ExperienceLevel:      "Senior",
		EmploymentTypes:      []string{"FULL_TIME"},
		CompensationMin:      20,
		CompensationMax:      25,
		CompensationCurrency: "USD",
		CompensationPeriod:   models.PeriodHourly,
		RemotePolicy:         models.RemoteOnsite,
		PostedAt:             time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC),
	}
}

func TestBuild_ExactShape(t *testing.T) {
	r, _ := newTestRenderer(false)

	record, recorder, err := r.Build(context.Background(), welderPosting())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got, err := record.ToJSON()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := `{"@context":"http://schema.org/","@type":"JobPosting",` +
		`"title":"Welder",` +
		`"description":"Weld things",` +
		`"datePosted":"2024-01-02",` +
		`"validThrough":"2024-02-01",` +
		`"hiringOrganization":{"@type":"Organization","name":"Acme","sameAs":"https://acme.example"},` +
		`"identifier":{"@type":"PropertyValue","name":"Acme","value":"id-1"},` +
		`"jobLocation":{"@type":"Place","address":{"@type":"PostalAddress","streetAddress":"","addressLocality":"Detroit","addressRegion":"MI","postalCode":"","addressCountry":"US"}},` +
		`"employmentType":"FULL_TIME",` +
		`"baseSalary":{"@type":"MonetaryAmount","currency":"USD","value":{"@type":"QuantitativeValue","minValue":20,"maxValue":25,"unitText":"HOUR"}},` +
		`"skills":["tig"],` +
		`"experienceRequirements":"Senior"}`
	if got != want {
		t.Fatalf("json mismatch\nexpected: %s\n     got: %s", want, got)
	}

	if _, err := record.ToScript(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if msgs := recorder.Messages(); len(msgs) != 0 {
		t.Fatalf("expected a complete record, got %v", msgs)
	}
}

func TestBuild_SkipsRejectedFields(t *testing.T) {
	r, logs := newTestRenderer(false)
	posting := welderPosting()
	posting.EmploymentTypes = []string{"FULL_TIME", "SEASONAL"}

	record, recorder, err := r.Build(context.Background(), posting)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if record.HasProperty("employmentType") {
		t.Fatalf("rejected employment types must not be stored")
	}
	if !record.HasProperty("title") || !record.HasProperty("baseSalary") {
		t.Fatalf("a rejected field must not stop the build")
	}
	if recorder.Count(jobposting.SeverityViolation) != 1 {
		t.Fatalf("expected one violation, got %v", recorder.Messages())
	}

	warned := logs.FilterMessage("employmentType value SEASONAL is not valid").AllUntimed()
	if len(warned) != 1 || warned[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected one warning, got %v", warned)
	}
	if warned[0].ContextMap()["id"] != "id-1" {
		t.Fatalf("expected posting id on the warning, got %v", warned[0].ContextMap())
	}
	if logs.FilterMessage("Skipping rejected field").Len() != 1 {
		t.Fatalf("expected the skip to be logged")
	}
}

func TestBuild_Defaults(t *testing.T) {
	r, _ := newTestRenderer(false)
	posting := &models.JobPosting{
		ID:                 "id-2",
		Title:              "Support engineer",
		Company:            "Widget Co",
		Description:        "Help customers",
		CompensationMax:    50000,
		CompensationPeriod: models.PeriodUnknown,
		RemotePolicy:       models.RemoteOnly,
		EmploymentTypes:    []string{"PART_TIME", "CONTRACTOR"},
	}

	record, _, err := r.Build(context.Background(), posting)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, err := record.ToJSON()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	for _, want := range []string{
		`"datePosted":"2024-03-01"`,
		`"validThrough":"2024-03-31"`,
		`"sameAs":"https://jobs.example"`,
		`"addressCountry":"US"`,
		`"additionalProperty":{"@type":"PropertyValue","value":"TELECOMMUTE"}`,
		`"employmentType":["PART_TIME","CONTRACTOR"]`,
		`"currency":"USD","value":{"@type":"QuantitativeValue","value":50000,"unitText":"YEAR"}`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %s in %s", want, got)
		}
	}
	if record.HasProperty("skills") || record.HasProperty("experienceRequirements") {
		t.Fatalf("did not expect extension properties: %s", got)
	}
}

func TestBuild_SingleSalaryAmount(t *testing.T) {
	r, _ := newTestRenderer(false)
	posting := welderPosting()
	posting.CompensationMin, posting.CompensationMax = 40, 40
	posting.CompensationCurrency = ""

	record, _, err := r.Build(context.Background(), posting)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, _ := record.ToJSON()
	want := `"baseSalary":{"@type":"MonetaryAmount","currency":"USD","value":{"@type":"QuantitativeValue","value":40,"unitText":"HOUR"}}`
	if !strings.Contains(got, want) {
		t.Fatalf("expected %s in %s", want, got)
	}
}

func TestBuild_NilPosting(t *testing.T) {
	r, _ := newTestRenderer(false)
	if _, _, err := r.Build(context.Background(), nil); !errors.IsType(err, errors.ErrTypeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

const rawHeaderPosting = `{"id":"38842977","description":"Acme Robotics | Detroit, MI | Senior Backend Engineer | Full-time | $120k - $150k<p>Tech stack: Go, PostgreSQL","posted_at":"2024-01-02T15:04:05Z"}`

func TestRender(t *testing.T) {
	r, logs := newTestRenderer(true)

	script, err := r.Render(context.Background(), []byte(rawHeaderPosting))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.HasPrefix(script, `<script type="application/ld+json">{"@context":"http://schema.org/","@type":"JobPosting","title":"Senior Backend Engineer"`) {
		t.Fatalf("unexpected script %s", script)
	}
	if !strings.HasSuffix(script, `</script>`) {
		t.Fatalf("unexpected script %s", script)
	}
	for _, want := range []string{
		`"minValue":120000,"maxValue":150000,"unitText":"YEAR"`,
		`"skills":["go","postgresql"]`,
		`"description":"Acme Robotics | Detroit, MI | Senior Backend Engineer | Full-time | $120k - $150k<p>Tech stack: Go, PostgreSQL"`,
	} {
		if !strings.Contains(script, want) {
			t.Fatalf("expected %s in %s", want, script)
		}
	}
	if logs.FilterMessage("Rendered job posting").Len() != 1 {
		t.Fatalf("expected render to be logged")
	}
}

func TestRender_StrictRejectsIncompletePosting(t *testing.T) {
	raw := []byte(`{"id":"7","description":"Come work with us","posted_at":"2024-01-02T00:00:00Z"}`)

	r, _ := newTestRenderer(true)
	_, err := r.Render(context.Background(), raw)
	if !errors.IsType(err, errors.ErrTypeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	var fields []string
	for _, fe := range errors.Fields(err) {
		fields = append(fields, fe.Field)
	}
	if strings.Join(fields, ",") != "hiringOrganization,title" {
		t.Fatalf("unexpected missing fields %v", fields)
	}

	lenient, logs := newTestRenderer(false)
	script, err := lenient.Render(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(script, `"description":"Come work with us"`) {
		t.Fatalf("unexpected script %s", script)
	}
	if logs.FilterMessage("Defining title is required").Len() != 1 {
		t.Fatalf("expected the audit to be logged")
	}
}

func TestRender_ParseError(t *testing.T) {
	r, logs := newTestRenderer(false)
	_, err := r.Render(context.Background(), []byte(`{"title":"no id"}`))
	if !errors.IsType(err, errors.ErrTypeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
	if logs.FilterMessage("Failed to parse job posting").Len() != 1 {
		t.Fatalf("expected parse failure to be logged")
	}
}
