// Package testing provides fixtures for exercising confbind schemas and
// pipelines.
package testing

import (
	"sync"

	"github.com/confbind/confbind"
)

// TestKey returns a valid 32-byte master key for the Local protector.
func TestKey() []byte {
	return []byte("32-byte-key-for-aes-256-protect!")
}

// TestProtector returns a Local protector configured for testing.
func TestProtector() confbind.Protector {
	prot, err := confbind.Local(TestKey())
	if err != nil {
		panic(err)
	}
	return prot
}

// DatabaseSettings is a sample settings type with one protected field.
type DatabaseSettings struct {
	Host     string `yaml:"host" json:"host" env:"HOST" mapstructure:"host"`
	Port     int    `yaml:"port" json:"port" env:"PORT" mapstructure:"port"`
	Password string `yaml:"password" json:"password" env:"PASSWORD" mapstructure:"password"`
}

// DatabaseSchema returns a fresh schema for DatabaseSettings.
func DatabaseSchema() *confbind.Schema[DatabaseSettings] {
	return confbind.NewSchema[DatabaseSettings]("DatabaseSettings").
		Protected("Password",
			func(s *DatabaseSettings) string { return s.Password },
			func(s *DatabaseSettings, v string) { s.Password = v })
}

// ServiceSettings nests DatabaseSettings and opts into validation.
type ServiceSettings struct {
	Name     string            `yaml:"name" json:"name" env:"NAME" mapstructure:"name"`
	APIToken string            `yaml:"api_token" json:"api_token" env:"API_TOKEN" mapstructure:"api_token"`
	Database *DatabaseSettings `yaml:"database" json:"database" envPrefix:"DATABASE_" mapstructure:"database"`
}

// Validate implements confbind.Validatable.
func (s *ServiceSettings) Validate() confbind.ValidationErrors {
	errs := confbind.ValidationErrors{}
	if s.Name == "" {
		errs.Add("Name", "must not be empty")
	}
	if s.Database != nil && s.Database.Host == "" {
		errs.Add("Database.Host", "must not be empty")
	}
	return errs
}

// ServiceSchema returns a fresh schema for ServiceSettings, with the
// database registered as a nested object and the token scoped to the user.
func ServiceSchema() *confbind.Schema[ServiceSettings] {
	schema := confbind.NewSchema[ServiceSettings]("ServiceSettings").
		Protected("APIToken",
			func(s *ServiceSettings) string { return s.APIToken },
			func(s *ServiceSettings, v string) { s.APIToken = v },
			confbind.WithScope(confbind.ScopeUser))
	confbind.Nested(schema, "Database", DatabaseSchema(),
		func(s *ServiceSettings) *DatabaseSettings { return s.Database })
	return schema
}

// RecordingRegistrar captures registrations for assertions.
type RecordingRegistrar struct {
	mu       sync.Mutex
	services map[string]any
}

// Register implements confbind.Registrar.
func (r *RecordingRegistrar) Register(service string, value any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.services == nil {
		r.services = make(map[string]any)
	}
	r.services[service] = value
	return nil
}

// Get returns the value registered under service.
func (r *RecordingRegistrar) Get(service string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.services[service]
	return v, ok
}

// Len returns the number of registered services.
func (r *RecordingRegistrar) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.services)
}
