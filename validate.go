package confbind

import "sort"

// ValidationErrors maps a field path to one or more human-readable failure
// messages. An empty map means the object is valid.
type ValidationErrors map[string][]string

// Add appends a failure message for the given field path.
func (v ValidationErrors) Add(path, message string) {
	v[path] = append(v[path], message)
}

// Valid reports whether no failures were recorded.
func (v ValidationErrors) Valid() bool {
	return len(v) == 0
}

// Paths returns the failing field paths in sorted order.
func (v ValidationErrors) Paths() []string {
	paths := make([]string, 0, len(v))
	for path := range v {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Validatable is the opt-in capability for self-validating settings types.
// The pipeline checks for it by interface satisfaction after binding and
// decryption; types that do not implement it skip the validation step.
type Validatable interface {
	// Validate inspects the receiver and returns every failing field.
	Validate() ValidationErrors
}

// Validator is the external validation collaborator. When configured on a
// Binder it takes precedence over the object's own Validatable capability.
type Validator interface {
	// Validate inspects target and returns every failing field.
	Validate(target any) ValidationErrors
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(target any) ValidationErrors

func (f ValidatorFunc) Validate(target any) ValidationErrors {
	return f(target)
}
