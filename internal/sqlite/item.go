package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// storedValue is a property value together with the type it was written as.
type storedValue struct {
	valueType string
	value     any // nil marks a pending removal
}

// item is a handle to one row of the items table. Reads see committed
// properties overlaid with pending writes.
type item struct {
	backend  *Backend
	id       string
	folderID string
	props    map[types.Key]storedValue
	pending  map[types.Key]storedValue
}

func newItem(b *Backend, id, folderID string) *item {
	return &item{
		backend:  b,
		id:       id,
		folderID: folderID,
		props:    make(map[types.Key]storedValue),
		pending:  make(map[types.Key]storedValue),
	}
}

func (h *item) ID() string       { return h.id }
func (h *item) FolderID() string { return h.folderID }

// Value returns the value under tag's slot, pending writes first.
func (h *item) Value(tag types.PropTag) (any, bool) {
	key := tag.Key()
	if w, ok := h.pending[key]; ok {
		return w.value, w.value != nil
	}
	v, ok := h.props[key]
	return v.value, ok
}

// SetValue stages v under tag until the next SaveItem. A nil v removes the
// property.
func (h *item) SetValue(tag types.PropTag, v any) error {
	if err := tag.Validate(); err != nil {
		return err
	}
	if err := types.CheckValue(tag, v); err != nil {
		return fmt.Errorf("%s: %w", tag, err)
	}
	h.stage(tag, v)
	return nil
}

func (h *item) stage(tag types.PropTag, v any) {
	h.pending[tag.Key()] = storedValue{valueType: tag.ValueType, value: v}
}

// commit folds pending writes into the committed view after a save.
func (h *item) commit() {
	for key, w := range h.pending {
		if w.value == nil {
			delete(h.props, key)
			continue
		}
		h.props[key] = w
	}
	h.pending = make(map[types.Key]storedValue)
}

// loadItem reads an item and its properties.
func (b *Backend) loadItem(ctx context.Context, q querier, id string) (*item, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	var folderID string
	err := q.QueryRowContext(ctx, "SELECT folder_id FROM items WHERE item_id = ?", id).Scan(&folderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	h := newItem(b, id, folderID)
	rows, err := q.QueryContext(ctx,
		"SELECT namespace, prop_id, value_type, value FROM item_properties WHERE item_id = ?", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key       types.Key
			valueType string
			raw       string
		)
		if err := rows.Scan(&key.Namespace, &key.ID, &valueType, &raw); err != nil {
			return nil, err
		}
		v, err := decodeValue(valueType, raw)
		if err != nil {
			return nil, fmt.Errorf("item %s property %s:0x%04X: %w", id, key.Namespace, key.ID, err)
		}
		h.props[key] = storedValue{valueType: valueType, value: v}
	}
	return h, rows.Err()
}

// writeProperty upserts or removes one property row.
func writeProperty(ctx context.Context, tx *sql.Tx, itemID string, key types.Key, w storedValue) error {
	if w.value == nil {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM item_properties WHERE item_id = ? AND namespace = ? AND prop_id = ?",
			itemID, key.Namespace, key.ID)
		return err
	}

	raw, err := encodeValue(w.valueType, w.value)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO item_properties (item_id, namespace, prop_id, value_type, value) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(item_id, namespace, prop_id) DO UPDATE SET value_type = excluded.value_type, value = excluded.value`,
		itemID, key.Namespace, key.ID, w.valueType, raw)
	return err
}

// folder is a row of the folders table.
type folder struct {
	backend *Backend
	id      string
	name    string
}

func (f *folder) ID() string   { return f.id }
func (f *folder) Name() string { return f.name }

// NewItem returns an unsaved handle; SaveItem assigns its id.
func (f *folder) NewItem() types.Item {
	return newItem(f.backend, "", f.id)
}

// Item returns the item with the given id if it lives in this folder.
func (f *folder) Item(ctx context.Context, id string) (types.Item, error) {
	it, err := f.backend.Item(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.FolderID() != f.id {
		return nil, types.ErrNotFound
	}
	return it, nil
}
