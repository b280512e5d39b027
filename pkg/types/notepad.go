package types

import "errors"

// Notepad is the storage interface the presentation layer calls for note
// data. All mutating operations leave the in-memory caches stale until the
// matching Reload/ReloadDeleted is called (explicit pull model).
type Notepad interface {
	// Reload refreshes the active-note cache for kind from the store.
	Reload(kind Kind) error

	// ReloadDeleted refreshes the deleted-note cache for kind from the store.
	ReloadDeleted(kind Kind) error

	// Notes returns a snapshot of the cached active notes for kind, keyed
	// by id, as of the last Reload. The caller owns the returned map.
	Notes(kind Kind) map[int64]Note

	// DeletedNotes returns a snapshot of the cached deleted notes for kind,
	// keyed by id, as of the last ReloadDeleted. The caller owns the
	// returned map.
	DeletedNotes(kind Kind) map[int64]DeletedNote

	// Add inserts a new note with the given title and empty content.
	// Returns the assigned id, or ErrDuplicateTitle if an active note of
	// that title already exists for kind.
	Add(kind Kind, title string) (int64, error)

	// Save updates a note's title and content in place. Returns ErrNoChange
	// if the proposed values equal the stored ones (no write is issued), or
	// ErrNotFound if id is not an active row.
	Save(kind Kind, id int64, title, content string) error

	// Delete moves a note to the deleted table of its kind, stamping
	// deleted_at. Returns ErrNotFound if id is not an active row.
	Delete(kind Kind, id int64) error

	// Restore moves a deleted note back to the active table, preserving its
	// original id when that id is still free; if an unrelated active note
	// occupies it (possible only in stores migrated from the legacy layout),
	// the note is restored under a fresh id instead. Returns ErrNotFound if
	// id is not a deleted row.
	Restore(kind Kind, id int64) error

	// Purge permanently removes a row from the deleted table. Irreversible.
	// Returns ErrNotFound if id is not a deleted row.
	Purge(kind Kind, id int64) error

	// Close releases the underlying store. Idempotent.
	Close() error
}

// Standard errors returned by Notepad and the schema migrator.
var (
	ErrDuplicateTitle  = errors.New("a note with that title already exists")
	ErrNotFound        = errors.New("note not found")
	ErrNoChange        = errors.New("note is unchanged, nothing to save")
	ErrBackupFailed    = errors.New("database backup failed")
	ErrMigrationFailed = errors.New("schema migration failed")
	ErrStorage         = errors.New("storage failure")
	ErrStoreClosed     = errors.New("note store is closed")
	ErrInvalidKind     = errors.New("invalid note kind")
	ErrInvalidTitle    = errors.New("title must not be empty")
)
