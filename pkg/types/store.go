package types

import (
	"context"
	"errors"
)

// Item is a handle to one entity in the property store. Properties are
// addressed by tag; a property that was never set reads as absent.
//
// Writes made through SetValue stay on the handle until the store commits
// them with Store.SaveItem. A handle is owned by one request and is not safe
// for concurrent use.
type Item interface {
	// ID returns the item's entry id. Empty for an item that was created
	// but not yet saved.
	ID() string

	// FolderID returns the id of the folder holding the item.
	FolderID() string

	// Value returns the value stored under tag and whether it is present.
	Value(tag PropTag) (any, bool)

	// SetValue stores v under tag. A nil v removes the property.
	// Returns ErrTypeMismatch if v does not match the tag's value type.
	SetValue(tag PropTag, v any) error
}

// ItemResolver resolves an item by id within some container (a folder or
// the whole store).
type ItemResolver interface {
	// Item returns the item with the given id.
	// Returns ErrNotFound if the container holds no such item.
	Item(ctx context.Context, id string) (Item, error)
}

// Folder is a container of items.
type Folder interface {
	ItemResolver

	// ID returns the folder's entry id.
	ID() string

	// Name returns the folder's well-known name (e.g. "contacts").
	Name() string

	// NewItem returns an unsaved item handle in this folder.
	NewItem() Item
}

// ChangeSet is the result of an incremental sync query: items written and
// items deleted after a cursor, plus the cursor to resume from.
type ChangeSet struct {
	Items   []Item
	Deleted []string
	Cursor  uint64
}

// Store is the property store collaborator. Implementations must be safe for
// concurrent use; each call hands out fresh item handles.
type Store interface {
	ItemResolver

	// Folder resolves a folder by entry id or well-known name.
	// Returns ErrNotFound if neither matches.
	Folder(ctx context.Context, idOrName string) (Folder, error)

	// SaveItem commits the pending writes on item. New items get an id.
	SaveItem(ctx context.Context, item Item) error

	// DeleteItem removes the item and records a tombstone for delta sync.
	// Returns ErrNotFound if the item does not exist.
	DeleteItem(ctx context.Context, item Item) error

	// Changes returns the items in folder changed or deleted after cursor.
	// A zero cursor returns every live item and no deletions.
	Changes(ctx context.Context, folder Folder, cursor uint64) (ChangeSet, error)
}

// SetValues writes values positionally into tags: the first value into the
// first tag, and so on. Values beyond len(tags) are dropped; tags beyond
// len(values) are left untouched.
func SetValues(item Item, values []string, tags []PropTag) error {
	for i, tag := range tags {
		if i >= len(values) {
			break
		}
		if err := item.SetValue(tag, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// Store errors.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrPermission      = errors.New("permission denied")
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Property errors.
var (
	ErrInvalidTag       = errors.New("invalid property tag")
	ErrInvalidValueType = errors.New("invalid value type")
	ErrTypeMismatch     = errors.New("type mismatch")
)

// Backend is a Store with a lifecycle. Attach opens the store described by
// config; Detach releases it. Operations on a detached backend return
// ErrStoreDetached.
type Backend interface {
	Store
	Attach(config Config) error
	Detach() error
}

// Archiver is implemented by backends that can dump and restore their items
// as JSON lines.
type Archiver interface {
	// Export writes every item to path and returns the number written.
	Export(ctx context.Context, path string) (int, error)

	// Import loads the items in path, replacing items with the same id.
	// Returns the number of items imported.
	Import(ctx context.Context, path string) (int, error)
}
