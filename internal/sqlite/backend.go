// Package sqlite implements the SQLite property store behind graphbridge.
// Items are rows with typed properties; every write and delete advances a
// change sequence that drives delta sync.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "graphbridge.db"

// Backend implements types.Store on a SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   hclog.Logger

	now func() time.Time
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(logger hclog.Logger) *Backend {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Backend{
		logger: logger.Named("sqlite"),
		now:    time.Now,
	}
}

// Attach opens the database in config.DataDir, creating the directory, the
// schema, and the default folders as needed.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)
	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return err
	}
	// One connection serializes writers and keeps per-connection pragmas.
	db.SetMaxOpenConns(1)

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}
	if err := seedFolders(db, b.now()); err != nil {
		db.Close()
		return fmt.Errorf("seed folders: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	b.logger.Debug("attached", "path", dbPath)
	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	b.logger.Debug("detached")
	return nil
}

// Folder resolves a folder by id or name.
func (b *Backend) Folder(ctx context.Context, idOrName string) (types.Folder, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if idOrName == "" {
		return nil, types.ErrInvalidID
	}

	f := &folder{backend: b}
	err := b.db.QueryRowContext(ctx,
		"SELECT folder_id, name FROM folders WHERE folder_id = ? OR name = ?", idOrName, idOrName).
		Scan(&f.id, &f.name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateFolder adds a folder with the given name.
func (b *Backend) CreateFolder(ctx context.Context, name string) (types.Folder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if name == "" {
		return nil, types.ErrInvalidID
	}

	f := &folder{backend: b, id: newEntryID(), name: name}
	_, err := b.db.ExecContext(ctx,
		"INSERT INTO folders (folder_id, name, created_at) VALUES (?, ?, ?)",
		f.id, f.name, b.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("create folder %s: %w", name, err)
	}
	return f, nil
}

// Item returns the item with the given id, in any folder.
func (b *Backend) Item(ctx context.Context, id string) (types.Item, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.loadItem(ctx, b.db, id)
}

// SaveItem commits the pending writes on item in one transaction. New items
// get an id and a creation time; every save stamps the modification time and
// a fresh change key and advances the change sequence.
func (b *Backend) SaveItem(ctx context.Context, it types.Item) error {
	h, ok := it.(*item)
	if !ok || h.backend != b {
		return fmt.Errorf("%w: item not owned by this store", types.ErrInvalidID)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	isNew := h.id == ""
	if err := b.saveLocked(ctx, h, isNew); err != nil {
		if isNew {
			h.id = ""
		}
		return err
	}
	h.commit()
	return nil
}

func (b *Backend) saveLocked(ctx context.Context, h *item, isNew bool) error {
	now := b.now().UTC().Truncate(time.Microsecond)
	if isNew {
		h.id = newEntryID()
		h.stage(types.TagCreationTime, now)
	}
	h.stage(types.TagLastModifiedTime, now)
	changeKey := uuid.New()
	h.stage(types.TagChangeKey, changeKey[:])

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	seq, err := nextChangeSeq(ctx, tx)
	if err != nil {
		return err
	}

	if isNew {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (item_id, folder_id, change_seq) VALUES (?, ?, ?)", h.id, h.folderID, seq)
	} else {
		var res sql.Result
		res, err = tx.ExecContext(ctx, "UPDATE items SET change_seq = ? WHERE item_id = ?", seq, h.id)
		if err == nil {
			if n, _ := res.RowsAffected(); n == 0 {
				err = types.ErrNotFound
			}
		}
	}
	if err != nil {
		return fmt.Errorf("save item %s: %w", h.id, err)
	}

	for key, w := range h.pending {
		if err := writeProperty(ctx, tx, h.id, key, w); err != nil {
			return fmt.Errorf("save item %s: %w", h.id, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM tombstones WHERE item_id = ? AND folder_id = ?", h.id, h.folderID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	b.logger.Trace("saved item", "item_id", h.id, "change_seq", seq, "new", isNew)
	return nil
}

// DeleteItem removes the item and records a tombstone at the next change
// sequence.
func (b *Backend) DeleteItem(ctx context.Context, it types.Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	id := it.ID()
	if id == "" {
		return types.ErrInvalidID
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var folderID string
	err = tx.QueryRowContext(ctx, "SELECT folder_id FROM items WHERE item_id = ?", id).Scan(&folderID)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ErrNotFound
	}
	if err != nil {
		return err
	}

	seq, err := nextChangeSeq(ctx, tx)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM item_properties WHERE item_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE item_id = ?", id); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO tombstones (item_id, folder_id, change_seq) VALUES (?, ?, ?)", id, folderID, seq)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	b.logger.Trace("deleted item", "item_id", id, "change_seq", seq)
	return nil
}

// Changes returns the items of f written after cursor and, for a non-zero
// cursor, the ids deleted after it. Cursor in the result is the current
// change sequence.
func (b *Backend) Changes(ctx context.Context, f types.Folder, cursor uint64) (types.ChangeSet, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var cs types.ChangeSet
	if !b.attached {
		return cs, types.ErrStoreDetached
	}

	seq, err := currentChangeSeq(ctx, b.db)
	if err != nil {
		return cs, err
	}
	cs.Cursor = seq

	ids, err := queryIDs(ctx, b.db,
		"SELECT item_id FROM items WHERE folder_id = ? AND change_seq > ? ORDER BY change_seq", f.ID(), cursor)
	if err != nil {
		return cs, err
	}
	for _, id := range ids {
		h, err := b.loadItem(ctx, b.db, id)
		if err != nil {
			return cs, err
		}
		cs.Items = append(cs.Items, h)
	}

	if cursor == 0 {
		return cs, nil
	}
	cs.Deleted, err = queryIDs(ctx, b.db,
		"SELECT item_id FROM tombstones WHERE folder_id = ? AND change_seq > ? ORDER BY change_seq", f.ID(), cursor)
	return cs, err
}

// newEntryID generates a UUID v7 entry id.
func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryIDs(ctx context.Context, q querier, query string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nextChangeSeq(ctx context.Context, tx *sql.Tx) (uint64, error) {
	if _, err := tx.ExecContext(ctx, "UPDATE counters SET value = value + 1 WHERE name = 'change_seq'"); err != nil {
		return 0, fmt.Errorf("advance change sequence: %w", err)
	}
	return currentChangeSeq(ctx, tx)
}

func currentChangeSeq(ctx context.Context, q querier) (uint64, error) {
	var seq uint64
	if err := q.QueryRowContext(ctx, "SELECT value FROM counters WHERE name = 'change_seq'").Scan(&seq); err != nil {
		return 0, fmt.Errorf("read change sequence: %w", err)
	}
	return seq, nil
}
