// Package env provides an environment-variable configuration source.
package env

import (
	"os"
	"strings"

	envparse "github.com/caarlos0/env/v11"

	"github.com/confbind/confbind"
)

// source binds environment variables that carry a common prefix.
type source struct {
	prefix string
}

// WithPrefix returns a Source over environment variables carrying prefix
// (e.g. "APP_"). Fields are mapped via `env` struct tags; nested objects
// use `envPrefix` tags. The prefix doubles as the existence probe: the
// source has entries when at least one variable starts with it.
func WithPrefix(prefix string) confbind.Source {
	return &source{prefix: prefix}
}

func (s *source) Name() string {
	return "env:" + s.prefix
}

func (s *source) Exists() bool {
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, s.prefix) {
			return true
		}
	}
	return false
}

func (s *source) Bind(target any) error {
	return envparse.ParseWithOptions(target, envparse.Options{Prefix: s.prefix})
}
