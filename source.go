package confbind

// Source supplies raw configuration data to the binding pipeline. How keys
// are matched to fields (case-insensitive, hierarchical for nested objects)
// is the implementation's concern; the pipeline only distinguishes "has any
// entries" from "empty".
//
// Adapters for YAML, JSON, environment variables, and viper live in the
// correspondingly named subpackages.
type Source interface {
	// Name identifies the source in errors and signals (e.g. "yaml:app.yaml").
	Name() string

	// Exists reports whether the source has any entries at all.
	Exists() bool

	// Bind fills target's fields from the source's entries.
	Bind(target any) error
}

// funcSource adapts closures to the Source interface.
type funcSource struct {
	name   string
	exists func() bool
	bind   func(target any) error
}

// NewSource builds a Source from closures. Useful for tests and for hosts
// whose configuration lives outside the provided adapters.
func NewSource(name string, exists func() bool, bind func(target any) error) Source {
	return &funcSource{name: name, exists: exists, bind: bind}
}

func (s *funcSource) Name() string {
	return s.name
}

func (s *funcSource) Exists() bool {
	return s.exists()
}

func (s *funcSource) Bind(target any) error {
	return s.bind(target)
}
