package jobposting

import (
	"sync"

	"go.uber.org/zap"
)

type Severity string

const (
	// SeverityViolation marks a rejected setter input.
	SeverityViolation Severity = "violation"
	// SeverityRecommended and SeverityRequired mark fields missing at
	// serialization time.
	SeverityRecommended Severity = "recommended"
	SeverityRequired    Severity = "required"
	// SeverityUndefined marks a read of a property that was never set.
	SeverityUndefined Severity = "undefined"
)

// Diagnostic is a non-fatal notice about a record.
type Diagnostic struct {
	Severity Severity
	Field    string
	Message  string
}

func (d Diagnostic) String() string {
	switch d.Severity {
	case SeverityRecommended, SeverityRequired:
		return "Defining " + d.Field + " is " + string(d.Severity)
	case SeverityUndefined:
		return d.Message
	}
	return d.Field + " " + d.Message
}

// Sink receives diagnostics emitted by setters, property reads and the
// completeness audit.
type Sink interface {
	Notice(d Diagnostic)
}

// SinkFunc adapts a plain callback to a Sink.
type SinkFunc func(d Diagnostic)

func (f SinkFunc) Notice(d Diagnostic) {
	f(d)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Notice(Diagnostic) {}

type zapSink struct {
	logger *zap.Logger
}

// NewZapSink logs diagnostics through logger. Audit recommendations go out
// at info level, everything else at warn.
func NewZapSink(logger *zap.Logger) Sink {
	return &zapSink{logger: logger}
}

func (s *zapSink) Notice(d Diagnostic) {
	fields := []zap.Field{
		zap.String("field", d.Field),
		zap.String("severity", string(d.Severity)),
	}
	if d.Severity == SeverityRecommended {
		s.logger.Info(d.String(), fields...)
		return
	}
	s.logger.Warn(d.String(), fields...)
}

// Recorder keeps every diagnostic it receives.
type Recorder struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

func (r *Recorder) Notice(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = append(r.diagnostics, d)
}

// Diagnostics returns a copy of what has been recorded so far.
func (r *Recorder) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// Messages returns the String form of every recorded diagnostic.
func (r *Recorder) Messages() []string {
	diagnostics := r.Diagnostics()
	out := make([]string, len(diagnostics))
	for i, d := range diagnostics {
		out[i] = d.String()
	}
	return out
}

// Count returns how many diagnostics of the given severity were recorded.
func (r *Recorder) Count(severity Severity) int {
	n := 0
	for _, d := range r.Diagnostics() {
		if d.Severity == severity {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnostics = nil
}
