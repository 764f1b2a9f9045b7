package sqlite

// Schema DDL. Statements are idempotent; the database persists across runs.
const (
	createFolders = `CREATE TABLE IF NOT EXISTS folders (
    folder_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL
);`

	createItems = `CREATE TABLE IF NOT EXISTS items (
    item_id TEXT PRIMARY KEY,
    folder_id TEXT NOT NULL,
    change_seq INTEGER NOT NULL,
    FOREIGN KEY (folder_id) REFERENCES folders(folder_id)
);`

	createItemProperties = `CREATE TABLE IF NOT EXISTS item_properties (
    item_id TEXT NOT NULL,
    namespace TEXT NOT NULL,
    prop_id INTEGER NOT NULL,
    value_type TEXT NOT NULL,
    value TEXT NOT NULL,
    PRIMARY KEY (item_id, namespace, prop_id),
    FOREIGN KEY (item_id) REFERENCES items(item_id) ON DELETE CASCADE
);`

	createTombstones = `CREATE TABLE IF NOT EXISTS tombstones (
    item_id TEXT PRIMARY KEY,
    folder_id TEXT NOT NULL,
    change_seq INTEGER NOT NULL
);`

	createCounters = `CREATE TABLE IF NOT EXISTS counters (
    name TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);`

	seedChangeSeq = `INSERT OR IGNORE INTO counters (name, value) VALUES ('change_seq', 0);`
)

// Index DDL for change queries.
const (
	indexItemsFolderSeq      = `CREATE INDEX IF NOT EXISTS idx_items_folder_seq ON items(folder_id, change_seq);`
	indexTombstonesFolderSeq = `CREATE INDEX IF NOT EXISTS idx_tombstones_folder_seq ON tombstones(folder_id, change_seq);`
)

// schemaStatements lists DDL in execution order.
var schemaStatements = []string{
	createFolders,
	createItems,
	createItemProperties,
	createTombstones,
	createCounters,
	seedChangeSeq,
	indexItemsFolderSeq,
	indexTombstonesFolderSeq,
}
