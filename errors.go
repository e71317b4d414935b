package confbind

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrInvalidArgument indicates a required input (schema, source, target
	// object) was missing or nil.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingConfiguration indicates the configuration source had no
	// entries. This is a wiring problem (wrong section path), distinct from
	// a validation failure.
	ErrMissingConfiguration = errors.New("missing configuration")

	// ErrBind indicates a configuration source failed to bind values into
	// the settings object.
	ErrBind = errors.New("bind failed")

	// ErrProtection indicates a cryptographic transform failed for a field.
	ErrProtection = errors.New("protection failed")

	// ErrValidation indicates one or more fields failed validation.
	ErrValidation = errors.New("validation failed")
)

// ProtectionError reports a failed transform of a single protected field.
// It carries the field name, the owning type name, the walk direction, and
// the underlying cause. Unwrap yields ErrProtection.
type ProtectionError struct {
	Field string    // field name that failed
	Type  string    // owning type name
	Op    Direction // direction being applied
	Cause error     // original error from the protector or codec
}

func (e *ProtectionError) Error() string {
	// Whole-type failures (Protectable overrides) carry no field name.
	target := e.Type
	if e.Field != "" {
		target = fmt.Sprintf("field %s.%s", e.Type, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, target, e.Cause)
	}
	return fmt.Sprintf("%s %s", e.Op, target)
}

func (e *ProtectionError) Unwrap() error {
	return ErrProtection
}

// ValidationError aggregates every failing field of a settings object.
// Unwrap yields ErrValidation.
type ValidationError struct {
	Type     string           // settings type name
	Failures ValidationErrors // field path -> messages
}

func (e *ValidationError) Error() string {
	if len(e.Failures) == 0 {
		return fmt.Sprintf("validation failed for %s", e.Type)
	}

	paths := make([]string, 0, len(e.Failures))
	for path := range e.Failures {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		parts = append(parts, fmt.Sprintf("%s: %s", path, strings.Join(e.Failures[path], "; ")))
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Type, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// newProtectionError creates a ProtectionError for a single field.
func newProtectionError(op Direction, typeName, field string, cause error) error {
	return &ProtectionError{
		Field: field,
		Type:  typeName,
		Op:    op,
		Cause: cause,
	}
}
