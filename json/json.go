// Package json provides JSON-backed configuration sources.
package json

import (
	"encoding/json"
	"os"

	"github.com/confbind/confbind"
)

// source reads a JSON document lazily on each call.
type source struct {
	name string
	load func() ([]byte, error)
}

// File returns a Source reading the JSON document at path. The file is read
// on each use, so a file written after construction is still picked up.
func File(path string) confbind.Source {
	return &source{
		name: "json:" + path,
		load: func() ([]byte, error) { return os.ReadFile(path) },
	}
}

// Bytes returns a Source over an in-memory JSON document.
func Bytes(data []byte) confbind.Source {
	return &source{
		name: "json",
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
	if err := json.Unmarshal(data, &entries); err != nil {
		return false
	}
	return len(entries) > 0
}

// Bind decodes the document into target. encoding/json matches keys to
// field names case-insensitively when no `json` tag is present.
func (s *source) Bind(target any) error {
	data, err := s.load()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
