package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

func attachTestBackend(t *testing.T, dir string) *Backend {
	t.Helper()
	b := NewBackend(nil)
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b
}

func contacts(t *testing.T, b *Backend) types.Folder {
	t.Helper()
	f, err := b.Folder(context.Background(), "contacts")
	if err != nil {
		t.Fatalf("Folder(contacts) failed: %v", err)
	}
	return f
}

// createContact saves a new item in the contacts folder with the given text
// properties.
func createContact(t *testing.T, b *Backend, values map[types.PropTag]any) types.Item {
	t.Helper()
	it := contacts(t, b).NewItem()
	for tag, v := range values {
		if err := it.SetValue(tag, v); err != nil {
			t.Fatalf("SetValue(%s) failed: %v", tag, err)
		}
	}
	if err := b.SaveItem(context.Background(), it); err != nil {
		t.Fatalf("SaveItem failed: %v", err)
	}
	return it
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()
	b := attachTestBackend(t, tmpDir)

	if _, err := os.Stat(filepath.Join(tmpDir, DatabaseFile)); os.IsNotExist(err) {
		t.Errorf("%s not created", DatabaseFile)
	}

	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir})
	if err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend(nil)
	err := b.Attach(types.Config{Backend: "postgres", DataDir: t.TempDir()})
	if err != types.ErrBackendUnknown {
		t.Errorf("expected ErrBackendUnknown, got %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend(nil)
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	ctx := context.Background()
	if _, err := b.Folder(ctx, "contacts"); err != types.ErrStoreDetached {
		t.Errorf("Folder: expected ErrStoreDetached, got %v", err)
	}
	if _, err := b.Item(ctx, "x"); err != types.ErrStoreDetached {
		t.Errorf("Item: expected ErrStoreDetached, got %v", err)
	}
}

func TestBackend_Folder(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())
	ctx := context.Background()

	byName := contacts(t, b)
	if byName.Name() != "contacts" {
		t.Errorf("expected name contacts, got %q", byName.Name())
	}

	byID, err := b.Folder(ctx, byName.ID())
	if err != nil {
		t.Fatalf("Folder by id failed: %v", err)
	}
	if byID.ID() != byName.ID() {
		t.Errorf("expected id %s, got %s", byName.ID(), byID.ID())
	}

	if _, err := b.Folder(ctx, "calendar"); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	created, err := b.CreateFolder(ctx, "archive")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if _, err := b.Folder(ctx, created.ID()); err != nil {
		t.Errorf("created folder not found: %v", err)
	}
}

func TestBackend_FolderPersistsAcrossAttach(t *testing.T) {
	tmpDir := t.TempDir()
	b := NewBackend(nil)
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}
	if err := b.Attach(cfg); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	first := contacts(t, b)
	it := createContact(t, b, map[types.PropTag]any{types.TagGivenName: "Ada"})
	b.Detach()

	b = attachTestBackend(t, tmpDir)
	second := contacts(t, b)
	if first.ID() != second.ID() {
		t.Errorf("contacts folder id changed: %s -> %s", first.ID(), second.ID())
	}
	got, err := b.Item(context.Background(), it.ID())
	if err != nil {
		t.Fatalf("Item after reattach failed: %v", err)
	}
	if v, _ := got.Value(types.TagGivenName); v != "Ada" {
		t.Errorf("expected Ada, got %v", v)
	}
}

func TestBackend_SaveItem(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())
	ctx := context.Background()
	fixed := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	b.now = func() time.Time { return fixed }

	birthday := time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC)
	it := createContact(t, b, map[types.PropTag]any{
		types.TagGivenName:      "Ada",
		types.TagChildrensNames: []string{"Byron", "Anne"},
		types.TagBirthday:       birthday,
	})
	if it.ID() == "" {
		t.Fatal("SaveItem did not assign an id")
	}

	got, err := b.Item(ctx, it.ID())
	if err != nil {
		t.Fatalf("Item failed: %v", err)
	}
	if v, _ := got.Value(types.TagGivenName); v != "Ada" {
		t.Errorf("given name: expected Ada, got %v", v)
	}
	children, _ := got.Value(types.TagChildrensNames)
	if l, ok := children.([]string); !ok || len(l) != 2 || l[1] != "Anne" {
		t.Errorf("children: got %#v", children)
	}
	if v, _ := got.Value(types.TagBirthday); !birthday.Equal(v.(time.Time)) {
		t.Errorf("birthday: expected %v, got %v", birthday, v)
	}
	if v, _ := got.Value(types.TagCreationTime); !fixed.Equal(v.(time.Time)) {
		t.Errorf("creation time: expected %v, got %v", fixed, v)
	}
	key, _ := got.Value(types.TagChangeKey)
	if b, ok := key.([]byte); !ok || len(b) != 16 {
		t.Errorf("change key: got %#v", key)
	}
	if got.FolderID() != contacts(t, b).ID() {
		t.Errorf("folder: expected %s, got %s", contacts(t, b).ID(), got.FolderID())
	}
}

func TestBackend_SaveItemUpdates(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())
	ctx := context.Background()
	it := createContact(t, b, map[types.PropTag]any{
		types.TagGivenName: "Ada",
		types.TagSurname:   "Byron",
	})
	firstKey, _ := it.Value(types.TagChangeKey)
	created, _ := it.Value(types.TagCreationTime)

	b.now = func() time.Time { return time.Now().Add(time.Hour) }
	if err := it.SetValue(types.TagSurname, "Lovelace"); err != nil {
		t.Fatal(err)
	}
	if err := it.SetValue(types.TagGivenName, nil); err != nil {
		t.Fatal(err)
	}
	if err := b.SaveItem(ctx, it); err != nil {
		t.Fatalf("SaveItem failed: %v", err)
	}

	got, err := b.Item(ctx, it.ID())
	if err != nil {
		t.Fatalf("Item failed: %v", err)
	}
	if v, _ := got.Value(types.TagSurname); v != "Lovelace" {
		t.Errorf("surname: expected Lovelace, got %v", v)
	}
	if _, ok := got.Value(types.TagGivenName); ok {
		t.Error("given name should be removed")
	}
	if v, _ := got.Value(types.TagCreationTime); !created.(time.Time).Equal(v.(time.Time)) {
		t.Errorf("creation time changed: %v -> %v", created, v)
	}
	if v, _ := got.Value(types.TagChangeKey); string(v.([]byte)) == string(firstKey.([]byte)) {
		t.Error("change key not refreshed")
	}
}

func TestBackend_PendingWritesNotVisibleUntilSave(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())
	ctx := context.Background()
	it := createContact(t, b, map[types.PropTag]any{types.TagGivenName: "Ada"})

	if err := it.SetValue(types.TagGivenName, "Augusta"); err != nil {
		t.Fatal(err)
	}
	if v, _ := it.Value(types.TagGivenName); v != "Augusta" {
		t.Errorf("handle should see its pending write, got %v", v)
	}

	other, err := b.Item(ctx, it.ID())
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := other.Value(types.TagGivenName); v != "Ada" {
		t.Errorf("uncommitted write leaked: got %v", v)
	}
}

func TestBackend_SetValueTypeMismatch(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())
	it := contacts(t, b).NewItem()

	err := it.SetValue(types.TagGivenName, 42)
	if !errors.Is(err, types.ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestBackend_FolderItemScope(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())
	ctx := context.Background()
	it := createContact(t, b, map[types.PropTag]any{types.TagGivenName: "Ada"})

	archive, err := b.CreateFolder(ctx, "archive")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := archive.Item(ctx, it.ID()); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound from other folder, got %v", err)
	}
	if _, err := contacts(t, b).Item(ctx, it.ID()); err != nil {
		t.Errorf("expected item in contacts, got %v", err)
	}
}

func TestBackend_DeleteItem(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())
	ctx := context.Background()
	it := createContact(t, b, map[types.PropTag]any{types.TagGivenName: "Ada"})

	if err := b.DeleteItem(ctx, it); err != nil {
		t.Fatalf("DeleteItem failed: %v", err)
	}
	if _, err := b.Item(ctx, it.ID()); err != types.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := b.DeleteItem(ctx, it); err != types.ErrNotFound {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
	if err := b.SaveItem(ctx, it); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("save after delete: expected ErrNotFound, got %v", err)
	}
}

func TestBackend_Changes(t *testing.T) {
	b := attachTestBackend(t, t.TempDir())
	ctx := context.Background()
	f := contacts(t, b)

	ada := createContact(t, b, map[types.PropTag]any{types.TagGivenName: "Ada"})
	charles := createContact(t, b, map[types.PropTag]any{types.TagGivenName: "Charles"})

	initial, err := b.Changes(ctx, f, 0)
	if err != nil {
		t.Fatalf("Changes failed: %v", err)
	}
	if len(initial.Items) != 2 || len(initial.Deleted) != 0 {
		t.Fatalf("initial: expected 2 items and no deletions, got %d and %d", len(initial.Items), len(initial.Deleted))
	}
	if initial.Cursor != 2 {
		t.Errorf("initial cursor: expected 2, got %d", initial.Cursor)
	}

	if err := b.DeleteItem(ctx, charles); err != nil {
		t.Fatal(err)
	}
	if err := ada.SetValue(types.TagSurname, "Lovelace"); err != nil {
		t.Fatal(err)
	}
	if err := b.SaveItem(ctx, ada); err != nil {
		t.Fatal(err)
	}

	next, err := b.Changes(ctx, f, initial.Cursor)
	if err != nil {
		t.Fatalf("Changes failed: %v", err)
	}
	if len(next.Items) != 1 || next.Items[0].ID() != ada.ID() {
		t.Errorf("expected only %s changed, got %v", ada.ID(), next.Items)
	}
	if len(next.Deleted) != 1 || next.Deleted[0] != charles.ID() {
		t.Errorf("expected %s deleted, got %v", charles.ID(), next.Deleted)
	}
	if next.Cursor != 4 {
		t.Errorf("cursor: expected 4, got %d", next.Cursor)
	}

	idle, err := b.Changes(ctx, f, next.Cursor)
	if err != nil {
		t.Fatal(err)
	}
	if len(idle.Items) != 0 || len(idle.Deleted) != 0 || idle.Cursor != next.Cursor {
		t.Errorf("expected no changes, got %+v", idle)
	}
}
