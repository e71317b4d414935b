package confbind

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"
)

// WalkReport summarizes a completed (or failed) walk.
type WalkReport struct {
	// Visited counts the protected descriptors whose values were inspected,
	// including empty values that were left untouched.
	Visited int

	// Transformed counts the fields actually rewritten.
	Transformed int
}

// walkConfig holds per-call options.
type walkConfig struct {
	explicit *Params
}

// WalkOption adjusts a single walk call.
type WalkOption func(*walkConfig)

// WithParams supplies explicit call-site protection parameters. They take
// precedence over field-level metadata; entropy and scope are resolved
// independently.
func WithParams(params Params) WalkOption {
	return func(c *walkConfig) {
		c.explicit = &params
	}
}

// walkState threads the fixed arguments and the running report through the
// recursion.
type walkState struct {
	dir      Direction
	prot     Protector
	explicit *Params
	def      Params
	report   WalkReport
}

// Walk traverses obj depth-first, applying the direction's transform to
// every protected field and recursing into every non-nil nested object.
// Traversal is strictly sequential, so field order is deterministic and the
// state after a fail-fast error is well defined: fields transformed before
// the failing one keep their transformed values.
//
// Encrypt converts the field's UTF-8 bytes through the protector and writes
// the result back base64-encoded; Decrypt is the mirror image. Empty field
// values are left untouched in both directions.
//
// The context is used for signal correlation only; there is no cancellation.
func Walk[T any](ctx context.Context, schema *Schema[T], obj *T, dir Direction, prot Protector, opts ...WalkOption) (WalkReport, error) {
	if schema == nil {
		return WalkReport{}, fmt.Errorf("%w: schema is required", ErrInvalidArgument)
	}
	if obj == nil {
		return WalkReport{}, fmt.Errorf("%w: settings object is required", ErrInvalidArgument)
	}
	if prot == nil {
		return WalkReport{}, fmt.Errorf("%w: protector is required", ErrInvalidArgument)
	}
	if !IsValidDirection(dir) {
		return WalkReport{}, fmt.Errorf("%w: unknown direction %q", ErrInvalidArgument, dir)
	}

	cfg := walkConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := &walkState{
		dir:      dir,
		prot:     prot,
		explicit: cfg.explicit,
		def:      DefaultParams(),
	}

	start := time.Now()
	emitWalkStart(ctx, schema.typeName, dir)

	node := &boundNode[T]{schema: schema, value: obj}
	err := node.walk(st)

	emitWalkComplete(ctx, schema.typeName, dir, time.Since(start), st.report, err)
	return st.report, err
}

// walk processes one object: override check, then nested recursion and
// protected transforms in descriptor order.
func (n *boundNode[T]) walk(st *walkState) error {
	if o, ok := any(n.value).(Protectable); ok {
		if err := o.ApplyProtection(st.dir, st.prot, resolveParams(st.explicit, nil, st.def)); err != nil {
			return newProtectionError(st.dir, n.schema.typeName, "", err)
		}
		return nil
	}

	for _, f := range n.schema.fields {
		switch f.kind {
		case KindNested:
			child := f.nested(n.value)
			if child == nil {
				continue
			}
			if err := child.walk(st); err != nil {
				return err
			}

		case KindProtected:
			if err := n.applyProtected(st, f); err != nil {
				return err
			}
		}
	}

	return nil
}

// applyProtected transforms a single protected field in place.
func (n *boundNode[T]) applyProtected(st *walkState, f fieldSpec[T]) error {
	st.report.Visited++

	value := f.get(n.value)
	if value == "" {
		// Idempotent no-op: unset values round-trip untouched.
		return nil
	}

	params := resolveParams(st.explicit, f.params, st.def)

	switch st.dir {
	case Encrypt:
		sealed, err := st.prot.Protect([]byte(value), params)
		if err != nil {
			return newProtectionError(st.dir, n.schema.typeName, f.name, err)
		}
		f.set(n.value, base64.StdEncoding.EncodeToString(sealed))

	case Decrypt:
		raw, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return newProtectionError(st.dir, n.schema.typeName, f.name, err)
		}
		plain, err := st.prot.Unprotect(raw, params)
		if err != nil {
			return newProtectionError(st.dir, n.schema.typeName, f.name, err)
		}
		f.set(n.value, string(plain))
	}

	st.report.Transformed++
	return nil
}
