package cli

import (
	"github.com/mesh-intelligence/graphbridge/internal/resource"
	"github.com/mesh-intelligence/graphbridge/pkg/sqlite"
	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// openStore attaches the configured backend. The caller must Detach it.
func (a *app) openStore() (types.Backend, error) {
	store := sqlite.NewBackend(a.logger)
	if err := store.Attach(a.settings.storeConfig()); err != nil {
		return nil, sysError("attach store: %w", err)
	}
	return store, nil
}

// contactController builds the contact controller over store.
func (a *app) contactController(store types.Store) (*resource.Controller, error) {
	kind, err := resource.NewContactKind(a.logger)
	if err != nil {
		return nil, sysError("contact mapping: %w", err)
	}
	return resource.NewController(kind, store, a.logger), nil
}
