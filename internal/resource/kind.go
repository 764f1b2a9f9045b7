// Package resource dispatches resource requests (get, delta, create,
// update, delete) against the property store and renders the results
// through a mapping.Table.
package resource

import (
	"github.com/hashicorp/go-hclog"

	"github.com/mesh-intelligence/graphbridge/internal/mapping"
	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// FieldRemoved marks a deleted resource in delta results.
const FieldRemoved mapping.Field = "@removed"

// RemovedReasonDeleted is the only removal reason reported.
const RemovedReasonDeleted = "deleted"

// Kind describes one resource kind: its field mapping and the folder used
// when a request names none.
type Kind struct {
	Name          string
	DefaultFolder string
	Table         *mapping.Table
}

// NewContactKind returns the contact resource kind.
func NewContactKind(logger hclog.Logger) (*Kind, error) {
	table, err := mapping.NewContactTable(logger)
	if err != nil {
		return nil, err
	}
	return &Kind{
		Name:          mapping.ContactKind,
		DefaultFolder: "contacts",
		Table:         table,
	}, nil
}

// Entity is either a live item or the id of a deleted one.
type Entity struct {
	item types.Item
	id   string
}

// Live wraps an item that still exists.
func Live(item types.Item) Entity {
	return Entity{item: item, id: item.ID()}
}

// Deleted refers to an item that has been removed from the store.
func Deleted(id string) Entity {
	return Entity{id: id}
}

// IsDeleted reports whether e refers to a removed item.
func (e Entity) IsDeleted() bool {
	return e.item == nil
}

// ID returns the entity's item id.
func (e Entity) ID() string {
	return e.id
}

// Render produces the document for e. Deleted entities bypass the field
// mapping and yield only the type marker, the id and the removal reason.
func (k *Kind) Render(e Entity) types.Document {
	if e.IsDeleted() {
		return types.Document{
			string(mapping.FieldODataType): k.Table.Marker(),
			string(mapping.FieldID):        e.id,
			string(FieldRemoved):           types.Document{"reason": RemovedReasonDeleted},
		}
	}
	return k.Table.Render(e.item)
}
