// Package sqlite provides the public API for the SQLite property store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/graphbridge/internal/sqlite"
	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// NewBackend creates a new SQLite backend instance. The returned backend
// also implements types.Archiver.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend(logger)
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".graphbridge",
//	})
//	defer backend.Detach()
func NewBackend(logger hclog.Logger) types.Backend {
	return sqlite.NewBackend(logger)
}
