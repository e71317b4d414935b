package confbind

// FieldKind classifies a descriptor produced by a Schema.
type FieldKind string

const (
	// KindProtected marks a string field whose value is encrypted at rest.
	KindProtected FieldKind = "protected"

	// KindNested marks an object-valued field the walker recurses into.
	KindNested FieldKind = "nested"
)

// Schema is the statically-declared field descriptor table for settings
// type T. It replaces runtime type introspection: every protected string
// and every nested object is registered explicitly through the builder
// methods, and descriptor order is the registration order, stable across
// calls.
//
// Fields left unregistered are ignored by the walker. Build schemas once
// (typically as package-level values) before use; the builder is not
// synchronized.
type Schema[T any] struct {
	typeName string
	fields   []fieldSpec[T]
}

// fieldSpec describes how to reach and transform a single field.
type fieldSpec[T any] struct {
	name   string
	kind   FieldKind
	params *Params            // protection metadata, nil means inherit
	get    func(*T) string    // protected: read current value
	set    func(*T, string)   // protected: write transformed value
	nested func(*T) childNode // nested: bind the child object, nil to skip
}

// Descriptor is the public, read-only view of one schema entry.
type Descriptor struct {
	Name   string
	Kind   FieldKind
	Params *Params // copy of the protection metadata, nil if none
}

// NewSchema creates an empty schema for T. typeName appears in errors and
// signals and keys the schema registry.
func NewSchema[T any](typeName string) *Schema[T] {
	return &Schema[T]{typeName: typeName}
}

// TypeName returns the settings type name the schema was declared with.
func (s *Schema[T]) TypeName() string {
	return s.typeName
}

// FieldOption attaches protection metadata to a protected field.
type FieldOption func(*Params)

// WithEntropy sets explicit entropy bytes for a field.
func WithEntropy(entropy []byte) FieldOption {
	return func(p *Params) {
		p.Entropy = entropy
	}
}

// WithScope sets the protection scope for a field.
func WithScope(scope Scope) FieldOption {
	return func(p *Params) {
		p.Scope = scope
	}
}

// Protected registers a protected string field. The accessors must read and
// write the field's current value; the declared-string requirement of the
// classification rules is enforced by their signatures. Options carry the
// field-level protection metadata verbatim onto the descriptor.
func (s *Schema[T]) Protected(name string, get func(*T) string, set func(*T, string), opts ...FieldOption) *Schema[T] {
	var params *Params
	if len(opts) > 0 {
		p := Params{}
		for _, opt := range opts {
			opt(&p)
		}
		params = &p
	}

	s.fields = append(s.fields, fieldSpec[T]{
		name:   name,
		kind:   KindProtected,
		params: params,
		get:    get,
		set:    set,
	})
	return s
}

// Nested registers an object-valued field of parent to recurse into using
// the child's own schema. Nested fields need no protection metadata; a nil
// child at walk time is skipped, not an error.
func Nested[T, N any](parent *Schema[T], name string, child *Schema[N], get func(*T) *N) *Schema[T] {
	parent.fields = append(parent.fields, fieldSpec[T]{
		name: name,
		kind: KindNested,
		nested: func(t *T) childNode {
			v := get(t)
			if v == nil {
				return nil
			}
			return &boundNode[N]{schema: child, value: v}
		},
	})
	return parent
}

// Fields returns the descriptor list in registration order. Protection
// metadata is copied; mutating the result does not affect the schema.
func (s *Schema[T]) Fields() []Descriptor {
	out := make([]Descriptor, 0, len(s.fields))
	for _, f := range s.fields {
		d := Descriptor{Name: f.name, Kind: f.kind}
		if f.params != nil {
			p := *f.params
			d.Params = &p
		}
		out = append(out, d)
	}
	return out
}

// childNode is a schema bound to a live nested object, erased so parents
// can recurse into children of any type.
type childNode interface {
	typeName() string
	walk(st *walkState) error
}

// boundNode pairs a schema with the instance being walked.
type boundNode[T any] struct {
	schema *Schema[T]
	value  *T
}

func (n *boundNode[T]) typeName() string {
	return n.schema.typeName
}
