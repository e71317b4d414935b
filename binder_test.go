package confbind

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appSettings struct {
	Name  string
	Token string
}

// Validate implements Validatable.
func (s *appSettings) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if s.Name == "" {
		errs.Add("Name", "must not be empty")
	}
	return errs
}

func appSchema() *Schema[appSettings] {
	return NewSchema[appSettings]("appSettings").
		Protected("Token",
			func(s *appSettings) string { return s.Token },
			func(s *appSettings, v string) { s.Token = v })
}

// staticSource returns a populated Source that copies the given values into
// the bound object.
func staticSource(name string, values appSettings) Source {
	return NewSource(name,
		func() bool { return true },
		func(target any) error {
			s, ok := target.(*appSettings)
			if !ok {
				return errors.New("unexpected target type")
			}
			if values.Name != "" {
				s.Name = values.Name
			}
			if values.Token != "" {
				s.Token = values.Token
			}
			return nil
		})
}

// emptySource returns a Source that reports no entries.
func emptySource(name string) Source {
	return NewSource(name,
		func() bool { return false },
		func(any) error { return errors.New("bind on empty source") })
}

// sealToken protects plaintext the way a config-preparing tool would, so a
// source can serve ciphertext the decrypt pass understands.
func sealToken(t *testing.T, prot Protector, plaintext string) string {
	t.Helper()
	sealed, err := prot.Protect([]byte(plaintext), DefaultParams())
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(sealed)
}

type countingRegistrar struct {
	services map[string]any
}

func (r *countingRegistrar) Register(service string, value any) error {
	if r.services == nil {
		r.services = make(map[string]any)
	}
	r.services[service] = value
	return nil
}

func TestBinder_Bind(t *testing.T) {
	prot := testLocal(t)
	reg := &countingRegistrar{}

	src := staticSource("static", appSettings{Name: "app", Token: sealToken(t, prot, "s3cret")})

	obj, err := NewBinder(appSchema(), src).
		WithProtector(prot).
		WithRegistrar("app-settings", reg).
		Bind(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "app", obj.Name)
	assert.Equal(t, "s3cret", obj.Token, "token should be decrypted in memory")

	registered, ok := reg.services["app-settings"]
	require.True(t, ok, "prepared object should be registered")
	assert.Same(t, obj, registered)
}

func TestBinder_MissingConfiguration(t *testing.T) {
	reg := &countingRegistrar{}

	binder := NewBinder(appSchema(), emptySource("a"), emptySource("b")).
		WithRegistrar("app-settings", reg)

	_, err := binder.Bind(context.Background())
	require.ErrorIs(t, err, ErrMissingConfiguration)
	assert.Empty(t, reg.services, "no registration on failure")

	// A wiring problem is never swallowed by the boolean mode.
	ok, err := binder.TryBind(context.Background())
	assert.False(t, ok)
	require.ErrorIs(t, err, ErrMissingConfiguration)
}

func TestBinder_ValidationRaisingMode(t *testing.T) {
	reg := &countingRegistrar{}

	// Name left unset fails the object's own validation.
	src := staticSource("static", appSettings{})

	_, err := NewBinder(appSchema(), src).
		WithRegistrar("app-settings", reg).
		Bind(context.Background())
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Failures, "Name")
	assert.Empty(t, reg.services, "no registration on validation failure")
}

func TestBinder_ValidationBooleanMode(t *testing.T) {
	reg := &countingRegistrar{}

	src := staticSource("static", appSettings{})

	ok, err := NewBinder(appSchema(), src).
		WithRegistrar("app-settings", reg).
		TryBind(context.Background())
	assert.False(t, ok)
	assert.NoError(t, err, "validation failure collapses to false with no detail")
	assert.Empty(t, reg.services)
}

func TestBinder_TryBindSuccess(t *testing.T) {
	reg := &countingRegistrar{}

	src := staticSource("static", appSettings{Name: "app"})

	ok, err := NewBinder(appSchema(), src).
		WithRegistrar("", reg).
		TryBind(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	// Empty service name defaults to the schema's type name.
	_, registered := reg.services["appSettings"]
	assert.True(t, registered)
}

func TestBinder_InvalidArguments(t *testing.T) {
	_, err := NewBinder[appSettings](nil, staticSource("s", appSettings{})).Bind(context.Background())
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewBinder(appSchema()).Bind(context.Background())
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewBinder(appSchema(), nil).Bind(context.Background())
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBinder_BindFailure(t *testing.T) {
	src := NewSource("broken",
		func() bool { return true },
		func(any) error { return errors.New("malformed document") })

	_, err := NewBinder(appSchema(), src).Bind(context.Background())
	require.ErrorIs(t, err, ErrBind)
	assert.Contains(t, err.Error(), "broken")
}

func TestBinder_ProtectionFailureSurfaces(t *testing.T) {
	prot := testLocal(t)

	// Ciphertext sealed with explicit entropy cannot be opened by the
	// pipeline's default parameters.
	sealed, err := prot.Protect([]byte("s3cret"), Params{Entropy: []byte("other"), Scope: ScopeMachine})
	require.NoError(t, err)

	src := staticSource("static", appSettings{
		Name:  "app",
		Token: base64.StdEncoding.EncodeToString(sealed),
	})

	binder := NewBinder(appSchema(), src).WithProtector(prot)

	_, err = binder.Bind(context.Background())
	require.ErrorIs(t, err, ErrProtection)

	ok, err := binder.TryBind(context.Background())
	assert.False(t, ok)
	require.ErrorIs(t, err, ErrProtection, "protection failure is never swallowed")
}

func TestBinder_ExplicitParams(t *testing.T) {
	prot := testLocal(t)

	sealed, err := prot.Protect([]byte("s3cret"), Params{Entropy: []byte("site"), Scope: ScopeMachine})
	require.NoError(t, err)

	src := staticSource("static", appSettings{
		Name:  "app",
		Token: base64.StdEncoding.EncodeToString(sealed),
	})

	obj, err := NewBinder(appSchema(), src).
		WithProtector(prot).
		WithParams(Params{Entropy: []byte("site")}).
		Bind(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s3cret", obj.Token)
}

func TestBinder_WithoutProtectorSkipsDecrypt(t *testing.T) {
	src := staticSource("static", appSettings{Name: "app", Token: "opaque-ciphertext"})

	obj, err := NewBinder(appSchema(), src).Bind(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "opaque-ciphertext", obj.Token, "binding without a protector skips the decrypt pass")
}

func TestBinder_MultiSourcePrecedence(t *testing.T) {
	first := staticSource("first", appSettings{Name: "primary"})
	second := staticSource("second", appSettings{Name: "fallback", Token: "filled-in"})

	obj, err := NewBinder(appSchema(), first, second).Bind(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "primary", obj.Name, "first populated source wins")
	assert.Equal(t, "filled-in", obj.Token, "later sources fill gaps")
}

func TestBinder_MultiSourceSkipsEmpty(t *testing.T) {
	obj, err := NewBinder(appSchema(),
		emptySource("empty"),
		staticSource("real", appSettings{Name: "app"}),
	).Bind(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "app", obj.Name)
}

func TestBinder_ValidatorOverridesValidatable(t *testing.T) {
	// Object passes its own validation, but the injected collaborator
	// takes precedence and rejects it.
	src := staticSource("static", appSettings{Name: "app"})

	strict := ValidatorFunc(func(target any) ValidationErrors {
		errs := ValidationErrors{}
		if s, ok := target.(*appSettings); ok && s.Token == "" {
			errs.Add("Token", "required")
		}
		return errs
	})

	_, err := NewBinder(appSchema(), src).
		WithValidator(strict).
		Bind(context.Background())
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Failures, "Token")
}

func TestBinder_RegistrationFailure(t *testing.T) {
	src := staticSource("static", appSettings{Name: "app"})

	failing := RegistrarFunc(func(string, any) error {
		return errors.New("container sealed")
	})

	_, err := NewBinder(appSchema(), src).
		WithRegistrar("app-settings", failing).
		Bind(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "container sealed")
}
