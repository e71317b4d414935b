package confbind

// Registrar is the registration target the pipeline hands a fully prepared
// settings object to. Registering as a side effect of binding is kept out
// of the core: implementations typically register the value as the
// singleton implementation of a named service in a runtime container, but
// a no-op double suffices for testing the pipeline in isolation.
type Registrar interface {
	// Register stores value as the singleton for the named service.
	Register(service string, value any) error
}

// RegistrarFunc adapts a function to the Registrar interface.
type RegistrarFunc func(service string, value any) error

func (f RegistrarFunc) Register(service string, value any) error {
	return f(service, value)
}
