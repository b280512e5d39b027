// Package sqlite implements the SQLite storage engine for Unmemorize:
// the note store, the schema catalog, the drift migrator, and the
// bootstrapper that wires them together on startup.
package sqlite

import "github.com/aens/unmemorize/pkg/types"

// Schema DDL for all tables. The surrogate id is AUTOINCREMENT so ids are
// monotonic and never reused within a table's lifetime, even across deletes.
// Columns that migration may need to backfill stay nullable; content falls
// back to its default when a legacy table never carried it.
const (
	createNotes = `CREATE TABLE IF NOT EXISTS notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    created_at TEXT,
    updated_at TEXT
);`

	createNotesDeleted = `CREATE TABLE IF NOT EXISTS notes_deleted (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    created_at TEXT,
    updated_at TEXT,
    deleted_at TEXT
);`

	createPrivateNotes = `CREATE TABLE IF NOT EXISTS private_notes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    created_at TEXT,
    updated_at TEXT
);`

	createPrivateNotesDeleted = `CREATE TABLE IF NOT EXISTS private_notes_deleted (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    created_at TEXT,
    updated_at TEXT,
    deleted_at TEXT
);`
)

// catalog is the authoritative set of columns every table must contain.
// Extra legacy columns in a live database are tolerated; a missing catalog
// column triggers migration. Adding a column here (and to the DDL above) is
// the whole act of evolving the schema; the migrator never changes.
var catalog = map[string][]string{
	types.TableNotes:               {"id", "title", "content", "created_at", "updated_at"},
	types.TableNotesDeleted:        {"id", "title", "content", "created_at", "updated_at", "deleted_at"},
	types.TablePrivateNotes:        {"id", "title", "content", "created_at", "updated_at"},
	types.TablePrivateNotesDeleted: {"id", "title", "content", "created_at", "updated_at", "deleted_at"},
}

// tableDDL maps each table to its CREATE TABLE statement.
var tableDDL = map[string]string{
	types.TableNotes:               createNotes,
	types.TableNotesDeleted:        createNotesDeleted,
	types.TablePrivateNotes:        createPrivateNotes,
	types.TablePrivateNotesDeleted: createPrivateNotesDeleted,
}

// tableNames lists all tables in creation order.
var tableNames = []string{
	types.TableNotes,
	types.TableNotesDeleted,
	types.TablePrivateNotes,
	types.TablePrivateNotesDeleted,
}

// requiredColumns returns the catalog's full column list for a table,
// including the surrogate id.
func requiredColumns(table string) []string {
	return catalog[table]
}
