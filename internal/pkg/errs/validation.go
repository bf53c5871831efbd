package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrStateTransition = errors.New("state transition is not allowed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
)

// Field messages shared by the domain and the API layer.
const (
	MsgBlank    = "can't be blank"
	MsgInvalid  = "is invalid"
	MsgNotFound = "does not exist"
	MsgTaken    = "has already been taken"
)

// ValidationErrors collects messages per field so that a single response can
// report every failing field. Insertion order of fields is preserved.
type ValidationErrors struct {
	fields map[string][]string
	order  []string
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{fields: make(map[string][]string)}
}

// Add records message for field, ignoring exact duplicates.
func (v *ValidationErrors) Add(field, message string) {
	if v.fields == nil {
		v.fields = make(map[string][]string)
	}
	msgs, ok := v.fields[field]
	if !ok {
		v.order = append(v.order, field)
	}
	for _, m := range msgs {
		if m == message {
			return
		}
	}
	v.fields[field] = append(msgs, message)
}

// AddError flattens err (including errors.Join trees) into field messages.
// Errors that carry no field name are recorded under fallback.
func (v *ValidationErrors) AddError(fallback string, err error) {
	if err == nil {
		return
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			v.AddError(fallback, e)
		}
		return
	}

	var (
		nested     *ValidationErrors
		required   *ValueIsRequiredError
		invalid    *ValueIsInvalidError
		outOfRange *ValueIsOutOfRangeError
		notFound   *ObjectNotFoundError
	)
	switch {
	case errors.As(err, &nested):
		v.Merge("", nested)
	case errors.As(err, &required):
		v.Add(required.ParamName, MsgBlank)
	case errors.As(err, &invalid):
		if invalid.Cause != nil {
			v.Add(invalid.ParamName, invalid.Cause.Error())
		} else {
			v.Add(invalid.ParamName, MsgInvalid)
		}
	case errors.As(err, &outOfRange):
		v.Add(outOfRange.ParamName, fmt.Sprintf("must be between %v and %v", outOfRange.Min, outOfRange.Max))
	case errors.As(err, &notFound):
		v.Add(notFound.ParamName, MsgNotFound)
	default:
		v.Add(fallback, err.Error())
	}
}

// Merge copies other's messages into v, prefixing each field with prefix.
func (v *ValidationErrors) Merge(prefix string, other *ValidationErrors) {
	if other == nil {
		return
	}
	for _, field := range other.order {
		name := field
		if prefix != "" {
			name = prefix + "." + field
		}
		for _, msg := range other.fields[field] {
			v.Add(name, msg)
		}
	}
}

func (v *ValidationErrors) Len() int {
	if v == nil {
		return 0
	}
	return len(v.order)
}

func (v *ValidationErrors) Has(field string) bool {
	if v == nil {
		return false
	}
	_, ok := v.fields[field]
	return ok
}

// Fields returns a copy of the field -> messages map.
func (v *ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string, v.Len())
	if v == nil {
		return out
	}
	for field, msgs := range v.fields {
		out[field] = append([]string(nil), msgs...)
	}
	return out
}

// FieldNames returns the failing field names in the order they were added.
func (v *ValidationErrors) FieldNames() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.order...)
}

// Err returns v as an error, or nil when nothing was recorded.
func (v *ValidationErrors) Err() error {
	if v.Len() == 0 {
		return nil
	}
	return v
}

func (v *ValidationErrors) Error() string {
	parts := make([]string, 0, v.Len())
	for _, field := range v.order {
		parts = append(parts, field+" "+strings.Join(v.fields[field], ", "))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (v *ValidationErrors) Unwrap() error {
	return ErrValidation
}

// Summary renders the messages in the "Field message" sentence form used
// for the top level error string of validation responses.
func (v *ValidationErrors) Summary() string {
	fields := v.FieldNames()
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		for _, msg := range v.fields[field] {
			parts = append(parts, humanize(field)+" "+msg)
		}
	}
	return strings.Join(parts, " and ")
}

func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// StateTransitionError reports a transition whose guard does not hold.
// Preconditions lists every failed precondition, one entry each.
type StateTransitionError struct {
	From          string
	To            string
	Preconditions []string
}

func NewStateTransitionError(from, to string, preconditions ...string) *StateTransitionError {
	return &StateTransitionError{From: from, To: to, Preconditions: preconditions}
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s (%s)", ErrStateTransition, e.From, e.To, strings.Join(e.Preconditions, "; "))
}

func (e *StateTransitionError) Unwrap() error {
	return ErrStateTransition
}

// AuthorizationError reports a missing (Forbidden=false) or insufficient
// (Forbidden=true) credential.
type AuthorizationError struct {
	Forbidden bool
	Reason    string
}

func NewUnauthorizedError(reason string) *AuthorizationError {
	return &AuthorizationError{Reason: reason}
}

func NewForbiddenError(reason string) *AuthorizationError {
	return &AuthorizationError{Forbidden: true, Reason: reason}
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Unwrap(), e.Reason)
}

func (e *AuthorizationError) Unwrap() error {
	if e.Forbidden {
		return ErrForbidden
	}
	return ErrUnauthorized
}
