// Package types defines the property tag model, the store and item
// collaborator interfaces, the response sink, and standard errors for the
// graphbridge translation layer.
package types

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config holds backend selection and transport parameters.
type Config struct {
	Backend  string `json:"backend" yaml:"backend"`
	DataDir  string `json:"data_dir" yaml:"data_dir"`
	Listen   string `json:"listen,omitempty" yaml:"listen,omitempty"`
	BasePath string `json:"base_path,omitempty" yaml:"base_path,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Defaults applied by the CLI when the config file leaves a key unset.
const (
	DefaultListen   = ":8000"
	DefaultBasePath = "/api/gc/v1"
)

// Config validation errors.
var (
	ErrBackendEmpty    = errors.New("backend must not be empty")
	ErrBackendUnknown  = errors.New("unknown backend")
	ErrBasePathInvalid = errors.New("base path must start with / and not end with /")
)

var basePathPattern = regexp.MustCompile(`^(/[^/]+)+$`)

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. Listen and BasePath may be empty; the CLI
// fills in defaults.
func (c Config) Validate() error {
	if err := validation.Validate(c.Backend, validation.Required); err != nil {
		return ErrBackendEmpty
	}
	if err := validation.Validate(c.Backend, validation.In(BackendSQLite)); err != nil {
		return ErrBackendUnknown
	}
	if err := validation.Validate(c.BasePath, validation.Match(basePathPattern)); err != nil {
		return ErrBasePathInvalid
	}
	return nil
}
