package sqlite

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mesh-intelligence/graphbridge/pkg/types"
)

// exportRecord is one line of an export file.
type exportRecord struct {
	ItemID     string           `json:"item_id"`
	Folder     string           `json:"folder"`
	Properties []exportProperty `json:"properties"`
}

type exportProperty struct {
	Namespace string          `json:"namespace"`
	ID        uint16          `json:"id"`
	ValueType string          `json:"value_type"`
	Value     json.RawMessage `json:"value"`
}

// Export writes every live item of every folder as one JSON line to path,
// replacing the file atomically. Each record names its folder.
func (b *Backend) Export(ctx context.Context, path string) (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return 0, types.ErrStoreDetached
	}

	rows, err := b.db.QueryContext(ctx,
		`SELECT i.item_id, f.name FROM items i JOIN folders f ON f.folder_id = i.folder_id ORDER BY i.change_seq`)
	if err != nil {
		return 0, err
	}
	var recs []exportRecord
	for rows.Next() {
		var rec exportRecord
		if err := rows.Scan(&rec.ItemID, &rec.Folder); err != nil {
			rows.Close()
			return 0, err
		}
		recs = append(recs, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	lines := make([]json.RawMessage, 0, len(recs))
	for _, rec := range recs {
		rec.Properties, err = exportProperties(ctx, b.db, rec.ItemID)
		if err != nil {
			return 0, err
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("encode item %s: %w", rec.ItemID, err)
		}
		lines = append(lines, line)
	}

	if err := writeJSONL(path, lines); err != nil {
		return 0, err
	}
	b.logger.Info("exported items", "path", path, "count", len(lines))
	return len(lines), nil
}

func exportProperties(ctx context.Context, q querier, itemID string) ([]exportProperty, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT namespace, prop_id, value_type, value FROM item_properties WHERE item_id = ? ORDER BY namespace, prop_id",
		itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	props := []exportProperty{}
	for rows.Next() {
		var p exportProperty
		var raw string
		if err := rows.Scan(&p.Namespace, &p.ID, &p.ValueType, &raw); err != nil {
			return nil, err
		}
		p.Value = json.RawMessage(raw)
		props = append(props, p)
	}
	return props, rows.Err()
}

// Import loads an export file. Each record replaces any item with the same
// id and counts as a change for delta sync; a record that moves an item to
// another folder reports it deleted from the old one. Folders named by
// records are created when missing. Malformed lines and records with invalid properties
// are skipped.
func (b *Backend) Import(ctx context.Context, path string) (int, error) {
	lines, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0, types.ErrStoreDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	count := 0
	for i, line := range lines {
		var rec exportRecord
		if err := json.Unmarshal(line, &rec); err != nil || rec.ItemID == "" || rec.Folder == "" {
			b.logger.Warn("skipping record", "path", path, "line", i+1, "error", err)
			continue
		}
		if err := validateRecord(rec); err != nil {
			b.logger.Warn("skipping record", "path", path, "item_id", rec.ItemID, "error", err)
			continue
		}
		if err := b.importRecord(ctx, tx, rec); err != nil {
			return 0, fmt.Errorf("import item %s: %w", rec.ItemID, err)
		}
		count++
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	b.logger.Info("imported items", "path", path, "count", count)
	return count, nil
}

func validateRecord(rec exportRecord) error {
	for _, p := range rec.Properties {
		tag := types.PropTag{Namespace: p.Namespace, ID: p.ID, ValueType: p.ValueType}
		if err := tag.Validate(); err != nil {
			return fmt.Errorf("%s: %w", tag, err)
		}
		if _, err := decodeValue(p.ValueType, string(p.Value)); err != nil {
			return fmt.Errorf("%s: %w", tag, err)
		}
	}
	return nil
}

func (b *Backend) importRecord(ctx context.Context, tx *sql.Tx, rec exportRecord) error {
	folderID, err := ensureFolder(ctx, tx, rec.Folder, b.now())
	if err != nil {
		return err
	}
	seq, err := nextChangeSeq(ctx, tx)
	if err != nil {
		return err
	}

	var oldFolderID string
	err = tx.QueryRowContext(ctx, "SELECT folder_id FROM items WHERE item_id = ?", rec.ItemID).Scan(&oldFolderID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM item_properties WHERE item_id = ?", rec.ItemID); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (item_id, folder_id, change_seq) VALUES (?, ?, ?)
		 ON CONFLICT(item_id) DO UPDATE SET folder_id = excluded.folder_id, change_seq = excluded.change_seq`,
		rec.ItemID, folderID, seq)
	if err != nil {
		return err
	}
	for _, p := range rec.Properties {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO item_properties (item_id, namespace, prop_id, value_type, value) VALUES (?, ?, ?, ?, ?)",
			rec.ItemID, p.Namespace, p.ID, p.ValueType, string(p.Value))
		if err != nil {
			return err
		}
	}
	// A move is a removal from the old folder.
	if oldFolderID != "" && oldFolderID != folderID {
		_, err = tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO tombstones (item_id, folder_id, change_seq) VALUES (?, ?, ?)",
			rec.ItemID, oldFolderID, seq)
		return err
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM tombstones WHERE item_id = ? AND folder_id = ?", rec.ItemID, folderID)
	return err
}

func ensureFolder(ctx context.Context, tx *sql.Tx, name string, now time.Time) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, "SELECT folder_id FROM folders WHERE name = ?", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	id = newEntryID()
	_, err = tx.ExecContext(ctx,
		"INSERT INTO folders (folder_id, name, created_at) VALUES (?, ?, ?)",
		id, name, now.UTC().Format(time.RFC3339Nano))
	return id, err
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(step string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", step, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
