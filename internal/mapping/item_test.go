package mapping

import (
	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// memItem is an in-memory Item for mapping tests.
type memItem struct {
	id       string
	folderID string
	props    map[types.Key]any
	writes   int
}

func newMemItem() *memItem {
	return &memItem{id: "AAMkAD-contact-1", folderID: "AAMkAD-folder-1", props: map[types.Key]any{}}
}

func (m *memItem) ID() string       { return m.id }
func (m *memItem) FolderID() string { return m.folderID }

func (m *memItem) Value(tag types.PropTag) (any, bool) {
	v, ok := m.props[tag.Key()]
	return v, ok
}

func (m *memItem) SetValue(tag types.PropTag, v any) error {
	if err := types.CheckValue(tag, v); err != nil {
		return err
	}
	m.writes++
	if v == nil {
		delete(m.props, tag.Key())
		return nil
	}
	m.props[tag.Key()] = v
	return nil
}

// with sets a property directly, bypassing write counting.
func (m *memItem) with(tag types.PropTag, v any) *memItem {
	m.props[tag.Key()] = v
	return m
}
