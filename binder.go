package confbind

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
)

// Pipeline step names reported through signals. The pipeline is linear:
// a step's failure halts it at that step, with no retries.
const (
	stepEmpty      = "empty"
	stepBound      = "bound"
	stepDecrypted  = "decrypted"
	stepValidated  = "validated"
	stepRegistered = "registered"
)

// Binder orchestrates the preparation of one settings type: instantiate an
// empty object, bind configuration values into it, run the graph walker in
// decrypt direction, validate, and hand the finished object to the
// registration target.
//
// Configure via the chaining With* methods before calling Bind or TryBind.
// A Binder holds no per-call state and may be reused; concurrent calls
// operate on distinct settings object instances.
type Binder[T any] struct {
	schema    *Schema[T]
	sources   []Source
	protector Protector
	params    *Params
	validator Validator
	registrar Registrar
	service   string
}

// NewBinder creates a Binder for schema fed by the given sources. With more
// than one source, the first source with entries takes precedence and later
// ones fill fields the earlier layers left at their zero value.
func NewBinder[T any](schema *Schema[T], sources ...Source) *Binder[T] {
	return &Binder[T]{schema: schema, sources: sources}
}

// WithProtector configures the protector used for the decrypt pass. Without
// one, binding skips decryption entirely.
// Returns the binder for chaining.
func (b *Binder[T]) WithProtector(prot Protector) *Binder[T] {
	b.protector = prot
	return b
}

// WithParams supplies explicit call-site protection parameters for the
// decrypt pass. Returns the binder for chaining.
func (b *Binder[T]) WithParams(params Params) *Binder[T] {
	b.params = &params
	return b
}

// WithValidator configures an external validator, which takes precedence
// over the object's own Validatable capability.
// Returns the binder for chaining.
func (b *Binder[T]) WithValidator(v Validator) *Binder[T] {
	b.validator = v
	return b
}

// WithRegistrar configures the registration target and the service name the
// prepared object is registered under. An empty service name defaults to
// the schema's type name. Returns the binder for chaining.
func (b *Binder[T]) WithRegistrar(service string, r Registrar) *Binder[T] {
	b.service = service
	b.registrar = r
	return b
}

// Bind runs the pipeline and returns the fully prepared settings object
// (raising mode). Failures are returned as errors: ErrInvalidArgument,
// ErrMissingConfiguration, ErrBind, *ProtectionError, *ValidationError.
func (b *Binder[T]) Bind(ctx context.Context) (*T, error) {
	obj, _, err := b.run(ctx)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// TryBind runs the pipeline in boolean mode. A validation failure collapses
// to (false, nil) with no detail; every other failure is a wiring or
// protection problem and is returned as (false, err), never swallowed. On
// success the object has been handed to the registrar and (true, nil) is
// returned.
func (b *Binder[T]) TryBind(ctx context.Context) (bool, error) {
	_, _, err := b.run(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrValidation) {
		return false, nil
	}
	return false, err
}

// run executes the pipeline once, reporting the reached step through
// signals.
func (b *Binder[T]) run(ctx context.Context) (*T, string, error) {
	if b.schema == nil {
		return nil, stepEmpty, fmt.Errorf("%w: schema is required", ErrInvalidArgument)
	}
	if len(b.sources) == 0 {
		return nil, stepEmpty, fmt.Errorf("%w: at least one configuration source is required", ErrInvalidArgument)
	}
	for i, src := range b.sources {
		if src == nil {
			return nil, stepEmpty, fmt.Errorf("%w: source %d is nil", ErrInvalidArgument, i)
		}
	}

	start := time.Now()
	emitBindStart(ctx, b.schema.typeName, len(b.sources))

	obj, step, err := b.pipeline(ctx)

	emitBindComplete(ctx, b.schema.typeName, step, time.Since(start), err)
	return obj, step, err
}

func (b *Binder[T]) pipeline(ctx context.Context) (*T, string, error) {
	// Empty -> Bound. An empty source is rejected before any object is
	// instantiated: many settings objects are valid when empty, which would
	// mask a missing configuration section.
	var populated []Source
	for _, src := range b.sources {
		if src.Exists() {
			populated = append(populated, src)
		}
	}
	if len(populated) == 0 {
		return nil, stepEmpty, fmt.Errorf("%w: no source has entries for %s", ErrMissingConfiguration, b.schema.typeName)
	}

	obj := new(T)
	if len(populated) == 1 {
		if err := populated[0].Bind(obj); err != nil {
			return nil, stepEmpty, fmt.Errorf("%w: source %s: %w", ErrBind, populated[0].Name(), err)
		}
	} else {
		for _, src := range populated {
			layer := new(T)
			if err := src.Bind(layer); err != nil {
				return nil, stepEmpty, fmt.Errorf("%w: source %s: %w", ErrBind, src.Name(), err)
			}
			if err := mergo.Merge(obj, layer); err != nil {
				return nil, stepEmpty, fmt.Errorf("%w: merging source %s: %w", ErrBind, src.Name(), err)
			}
		}
	}

	// Bound -> Decrypted. Binding without a protector skips this step.
	if b.protector != nil {
		var opts []WalkOption
		if b.params != nil {
			opts = append(opts, WithParams(*b.params))
		}
		if _, err := Walk(ctx, b.schema, obj, Decrypt, b.protector, opts...); err != nil {
			return nil, stepBound, err
		}
	}

	// Decrypted -> Validated.
	if failures := b.validate(obj); len(failures) > 0 {
		return nil, stepDecrypted, &ValidationError{Type: b.schema.typeName, Failures: failures}
	}

	// Validated -> Registered. Only reached on full success, so a failed
	// object can never be registered.
	if b.registrar != nil {
		service := b.service
		if service == "" {
			service = b.schema.typeName
		}
		if err := b.registrar.Register(service, obj); err != nil {
			return nil, stepValidated, fmt.Errorf("register %s: %w", service, err)
		}
	}

	return obj, stepRegistered, nil
}

// validate runs the configured validator, falling back to the object's own
// Validatable capability.
func (b *Binder[T]) validate(obj *T) ValidationErrors {
	if b.validator != nil {
		return b.validator.Validate(obj)
	}
	if v, ok := any(obj).(Validatable); ok {
		return v.Validate()
	}
	return nil
}
