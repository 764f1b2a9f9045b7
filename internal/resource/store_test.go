package resource

import (
	"context"
	"fmt"
	"sync"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// memStore is an in-memory Store for controller tests.
type memStore struct {
	mu         sync.Mutex
	folders    []*memFolder
	items      map[string]*memRecord
	tombstones map[string]memTombstone
	seq        uint64
	nextID     int
	saveErr    error
}

type memRecord struct {
	folderID string
	props    map[types.Key]any
	seq      uint64
}

type memTombstone struct {
	folderID string
	seq      uint64
}

func newMemStore() *memStore {
	s := &memStore{items: map[string]*memRecord{}, tombstones: map[string]memTombstone{}}
	s.folders = []*memFolder{
		{store: s, id: "AAMkAD-folder-contacts", name: "contacts"},
		{store: s, id: "AAMkAD-folder-other", name: "other"},
	}
	return s
}

// put stores an item directly and returns its id.
func (s *memStore) put(folderID string, values map[types.PropTag]any) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.seq++
	id := fmt.Sprintf("AAMkAD-item-%d", s.nextID)
	rec := &memRecord{folderID: folderID, props: map[types.Key]any{}, seq: s.seq}
	for tag, v := range values {
		rec.props[tag.Key()] = v
	}
	s.items[id] = rec
	return id
}

func (s *memStore) handle(id string, rec *memRecord) *memHandle {
	props := make(map[types.Key]any, len(rec.props))
	for k, v := range rec.props {
		props[k] = v
	}
	return &memHandle{id: id, folderID: rec.folderID, props: props}
}

func (s *memStore) Item(_ context.Context, id string) (types.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return s.handle(id, rec), nil
}

func (s *memStore) Folder(_ context.Context, idOrName string) (types.Folder, error) {
	for _, f := range s.folders {
		if f.id == idOrName || f.name == idOrName {
			return f, nil
		}
	}
	return nil, types.ErrNotFound
}

func (s *memStore) SaveItem(_ context.Context, item types.Item) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	h := item.(*memHandle)
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.id == "" {
		s.nextID++
		h.id = fmt.Sprintf("AAMkAD-item-%d", s.nextID)
	}
	s.seq++
	s.items[h.id] = &memRecord{folderID: h.folderID, props: h.props, seq: s.seq}
	return nil
}

func (s *memStore) DeleteItem(_ context.Context, item types.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[item.ID()]
	if !ok {
		return types.ErrNotFound
	}
	delete(s.items, item.ID())
	s.seq++
	s.tombstones[item.ID()] = memTombstone{folderID: rec.folderID, seq: s.seq}
	return nil
}

func (s *memStore) Changes(_ context.Context, folder types.Folder, cursor uint64) (types.ChangeSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cs types.ChangeSet
	for id, rec := range s.items {
		if rec.folderID == folder.ID() && rec.seq > cursor {
			cs.Items = append(cs.Items, s.handle(id, rec))
		}
	}
	if cursor > 0 {
		for id, ts := range s.tombstones {
			if ts.folderID == folder.ID() && ts.seq > cursor {
				cs.Deleted = append(cs.Deleted, id)
			}
		}
	}
	cs.Cursor = s.seq
	return cs, nil
}

type memFolder struct {
	store *memStore
	id    string
	name  string
}

func (f *memFolder) ID() string   { return f.id }
func (f *memFolder) Name() string { return f.name }

func (f *memFolder) NewItem() types.Item {
	return &memHandle{folderID: f.id, props: map[types.Key]any{}}
}

func (f *memFolder) Item(ctx context.Context, id string) (types.Item, error) {
	item, err := f.store.Item(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.FolderID() != f.id {
		return nil, types.ErrNotFound
	}
	return item, nil
}

type memHandle struct {
	id       string
	folderID string
	props    map[types.Key]any
}

func (h *memHandle) ID() string       { return h.id }
func (h *memHandle) FolderID() string { return h.folderID }

func (h *memHandle) Value(tag types.PropTag) (any, bool) {
	v, ok := h.props[tag.Key()]
	return v, ok
}

func (h *memHandle) SetValue(tag types.PropTag, v any) error {
	if err := types.CheckValue(tag, v); err != nil {
		return err
	}
	if v == nil {
		delete(h.props, tag.Key())
		return nil
	}
	h.props[tag.Key()] = v
	return nil
}

// recordingSink captures the single response of a request.
type recordingSink struct {
	kind    string
	doc     types.Document
	code    types.ErrorCode
	message string
}

func (r *recordingSink) Respond(doc types.Document) error {
	r.kind, r.doc = "ok", doc
	return nil
}

func (r *recordingSink) RespondCreated(doc types.Document) error {
	r.kind, r.doc = "created", doc
	return nil
}

func (r *recordingSink) RespondNoContent() error {
	r.kind = "noContent"
	return nil
}

func (r *recordingSink) RespondError(code types.ErrorCode, message string) error {
	r.kind, r.code, r.message = "error", code, message
	return nil
}
