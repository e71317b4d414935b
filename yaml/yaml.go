// Package yaml provides YAML-backed configuration sources.
package yaml

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/confbind/confbind"
)

// source reads a YAML document lazily on each call.
type source struct {
	name string
	load func() ([]byte, error)
}

// File returns a Source reading the YAML document at path. The file is read
// on each use, so a file written after construction is still picked up.
func File(path string) confbind.Source {
	return &source{
		name: "yaml:" + path,
		load: func() ([]byte, error) { return os.ReadFile(path) },
	}
}

// Bytes returns a Source over an in-memory YAML document.
func Bytes(data []byte) confbind.Source {
	return &source{
		name: "yaml",
		load: func() ([]byte, error) { return data, nil },
	}
}

func (s *source) Name() string {
	return s.name
}

// Exists reports whether the document is readable, parses, and has at least
// one top-level entry.
func (s *source) Exists() bool {
	data, err := s.load()
	if err != nil {
		return false
	}

	var entries map[string]any
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return false
	}
	return len(entries) > 0
}

// Bind decodes the document into target. Key matching follows yaml.v3
// conventions: `yaml` struct tags, else lowercased field names.
func (s *source) Bind(target any) error {
	data, err := s.load()
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, target)
}
