package restmodel

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ValidationError reports a payload that failed schema validation. Errors maps
// dotted field paths to human-readable messages from the validator.
type ValidationError struct {
	Status  int
	Message string
	Errors  map[string]string
}

// NewValidationError shapes validator output as the 400-class failure the HTTP
// layer serializes.
func NewValidationError(errs map[string]string) *ValidationError {
	return &ValidationError{
		Status:  http.StatusBadRequest,
		Message: "Input payload validation failed",
		Errors:  errs,
	}
}

// Error summarizes the first few field errors.
func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Errors) == 0 {
		return e.Message
	}
	const maxShown = 3
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	b := &strings.Builder{}
	b.WriteString(e.Message)
	b.WriteString(": ")
	lim := len(keys)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s: %s", keys[i], e.Errors[keys[i]])
	}
	if len(keys) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(keys))
	}
	return b.String()
}

// AsValidationError extracts a *ValidationError using errors.As internally.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// DiscriminatorConflictError is a fatal configuration error: a resolved
// hierarchy carries more than one discriminator field.
type DiscriminatorConflictError struct {
	Model  string
	Fields []string
}

func (e *DiscriminatorConflictError) Error() string {
	return fmt.Sprintf("restmodel: model %q resolves more than one discriminator (%s)",
		e.Model, strings.Join(e.Fields, ", "))
}

// ParentNotFoundError reports a named ancestor lookup that found nothing in
// the parent graph.
type ParentNotFoundError struct {
	Model string
	Name  string
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("restmodel: parent %q not found from model %q", e.Name, e.Model)
}

// CycleError reports an inheritance graph in which a model would become its
// own ancestor.
type CycleError struct {
	Model string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("restmodel: model %q may not be its own ancestor", e.Model)
}

// RepresentationMisconfiguredError indicates a configured default media type
// with no registered renderer. This is a server bug (500), not a client 406.
type RepresentationMisconfiguredError struct {
	MediaType string
}

func (e *RepresentationMisconfiguredError) Error() string {
	return fmt.Sprintf("restmodel: default mediatype %q has no registered representation", e.MediaType)
}

// ErrNotAcceptable is returned when no registered representation satisfies the
// client's Accept header. Terminal for the request (406).
var ErrNotAcceptable = errors.New("restmodel: not acceptable")
