// Package viper adapts a spf13/viper instance into a configuration source.
package viper

import (
	spf13viper "github.com/spf13/viper"

	"github.com/confbind/confbind"
)

// source wraps a viper instance, possibly a sub-tree of one.
type source struct {
	v    *spf13viper.Viper
	name string
}

// New wraps v as a configuration source.
func New(v *spf13viper.Viper) confbind.Source {
	return &source{v: v, name: "viper"}
}

// Section wraps the sub-tree of v rooted at key. A missing section yields a
// source with no entries, which the pipeline reports as missing
// configuration - a wrong section path surfaces as a wiring error rather
// than an empty-but-valid settings object.
func Section(v *spf13viper.Viper, key string) confbind.Source {
	return &source{v: v.Sub(key), name: "viper:" + key}
}

func (s *source) Name() string {
	return s.name
}

func (s *source) Exists() bool {
	return s.v != nil && len(s.v.AllKeys()) > 0
}

// Bind unmarshals the wrapped tree into target. Key matching is viper's:
// case-insensitive, hierarchical via `mapstructure` tags.
func (s *source) Bind(target any) error {
	if s.v == nil {
		return nil
	}
	return s.v.Unmarshal(target)
}
