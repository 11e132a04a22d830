package errors

import (
	goerrors "github.com/go-errors/errors"
	"go.uber.org/multierr"
)

// FieldError is a single constraint violation on one input of a setter.
// Its message reads "<field> <message>", e.g. "unitText should be one of ...".
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + " " + e.Message
}

func Field(field, message string) *FieldError {
	return &FieldError{Field: field, Message: message}
}

// Append accumulates violations; a nil violation is ignored.
func Append(errs error, violation *FieldError) error {
	if violation == nil {
		return errs
	}
	return multierr.Append(errs, violation)
}

// Fields unpacks every FieldError carried by err, in the order they were
// appended. Wrapping DomainErrors are looked through.
func Fields(err error) []*FieldError {
	if de, ok := err.(*DomainError); ok {
		err = de.Err
	}
	var fields []*FieldError
	for _, e := range multierr.Errors(err) {
		if fe, ok := e.(*FieldError); ok {
			fields = append(fields, fe)
		}
	}
	return fields
}

// Caller reports the file and line of a frame on the current stack. Caller(0)
// is the function calling Caller, Caller(1) its caller, and so on.
//
//go:noinline
func Caller(skip int) (file string, line int, ok bool) {
	frames := goerrors.Wrap("caller", skip+1).StackFrames()
	if len(frames) == 0 {
		return "", 0, false
	}
	return frames[0].File, frames[0].LineNumber, true
}
