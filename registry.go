package confbind

import "sync"

var (
	schemaRegistry = make(map[string]any)
	schemaMu       sync.RWMutex
)

// RegisterSchema stores a built schema under its type name, so hosts that
// assemble binders for many settings types can look them up by name.
// Re-registering a name replaces the previous schema.
func RegisterSchema[T any](s *Schema[T]) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	schemaRegistry[s.typeName] = s
}

// LookupSchema returns the schema registered under name. The second result
// is false when no schema is registered or the registered schema is for a
// different settings type.
func LookupSchema[T any](name string) (*Schema[T], bool) {
	schemaMu.RLock()
	defer schemaMu.RUnlock()

	cached, ok := schemaRegistry[name]
	if !ok {
		return nil, false
	}

	s, ok := cached.(*Schema[T])
	if !ok {
		return nil, false
	}
	return s, true
}

// ResetSchemas clears the schema registry.
// This is primarily useful for test isolation.
func ResetSchemas() {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	schemaRegistry = make(map[string]any)
}
