// This file implements the note store: CRUD, soft delete, restore, and
// purge over the four note tables, with per-kind in-memory caches refreshed
// by an explicit Reload pull.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aens/unmemorize/pkg/types"
)

// Compile-time interface check: Store must implement Notepad.
var _ types.Notepad = (*Store)(nil)

// Store implements the Notepad interface over a SQLite database file.
// The caches behind Notes and DeletedNotes become stale after any mutating
// call until the matching reload.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	sink types.StatusSink

	notes   map[types.Kind]map[int64]types.Note
	deleted map[types.Kind]map[int64]types.DeletedNote
}

// storageErr wraps a substrate failure so callers can match ErrStorage while
// keeping the driver cause in the chain.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(types.ErrStorage, err))
}

// checkOp validates the kind and the open state. The caller must hold s.mu.
func (s *Store) checkOp(kind types.Kind) error {
	if s.db == nil {
		return types.ErrStoreClosed
	}
	if !kind.Valid() {
		return types.ErrInvalidKind
	}
	return nil
}

// Close releases the underlying database. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return storageErr("closing note store", err)
	}
	s.db = nil
	return nil
}

// Reload refreshes the active-note cache for kind from the database.
func (s *Store) Reload(kind types.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOp(kind); err != nil {
		return err
	}

	rows, err := s.db.Query(
		"SELECT id, title, content, created_at, updated_at FROM " + kind.ActiveTable() + " ORDER BY id")
	if err != nil {
		return storageErr("loading notes", err)
	}
	defer rows.Close()

	fresh := make(map[int64]types.Note)
	for rows.Next() {
		n, err := hydrateNote(rows)
		if err != nil {
			return storageErr("loading notes", err)
		}
		fresh[n.ID] = n
	}
	if err := rows.Err(); err != nil {
		return storageErr("loading notes", err)
	}

	s.notes[kind] = fresh
	return nil
}

// ReloadDeleted refreshes the deleted-note cache for kind from the database.
func (s *Store) ReloadDeleted(kind types.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOp(kind); err != nil {
		return err
	}

	rows, err := s.db.Query(
		"SELECT id, title, content, created_at, updated_at, deleted_at FROM " + kind.DeletedTable() + " ORDER BY id")
	if err != nil {
		return storageErr("loading deleted notes", err)
	}
	defer rows.Close()

	fresh := make(map[int64]types.DeletedNote)
	for rows.Next() {
		var (
			d       types.DeletedNote
			created sql.NullString
			updated sql.NullString
			deleted sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &created, &updated, &deleted); err != nil {
			return storageErr("loading deleted notes", err)
		}
		d.CreatedAt = parseStamp(created)
		d.UpdatedAt = parseStamp(updated)
		d.DeletedAt = parseStamp(deleted)
		fresh[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return storageErr("loading deleted notes", err)
	}

	s.deleted[kind] = fresh
	return nil
}

// Notes returns a snapshot of the cached active notes for kind, keyed by
// id. The map is the caller's to keep; mutating it does not touch the cache.
func (s *Store) Notes(kind types.Kind) map[int64]types.Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[int64]types.Note, len(s.notes[kind]))
	for id, n := range s.notes[kind] {
		snapshot[id] = n
	}
	return snapshot
}

// DeletedNotes returns a snapshot of the cached deleted notes for kind,
// keyed by id.
func (s *Store) DeletedNotes(kind types.Kind) map[int64]types.DeletedNote {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[int64]types.DeletedNote, len(s.deleted[kind]))
	for id, d := range s.deleted[kind] {
		snapshot[id] = d
	}
	return snapshot
}

// Add inserts a new note with empty content. The duplicate-title check runs
// inside the insert transaction, against the table rather than the cache, so
// it holds regardless of cache freshness.
func (s *Store) Add(kind types.Kind, title string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOp(kind); err != nil {
		return 0, err
	}
	if title == "" {
		return 0, types.ErrInvalidTitle
	}

	table := kind.ActiveTable()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, storageErr("adding note", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow("SELECT EXISTS(SELECT 1 FROM "+table+" WHERE title = ?)", title).Scan(&exists)
	if err != nil {
		return 0, storageErr("checking for duplicate title", err)
	}
	if exists {
		s.sink.Report(fmt.Sprintf("ERROR: note %q not created, the title already exists.", title), types.SeverityError)
		return 0, types.ErrDuplicateTitle
	}

	now := time.Now().Format(time.RFC3339)
	res, err := tx.Exec(
		"INSERT INTO "+table+" (title, content, created_at, updated_at) VALUES (?, '', ?, ?)",
		title, now, now)
	if err != nil {
		return 0, storageErr("adding note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("adding note", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, storageErr("adding note", err)
	}

	s.sink.Report(fmt.Sprintf("Note %q created.", title), types.SeverityInfo)
	return id, nil
}

// Save updates a note's title and content in place. When the proposed values
// equal the stored ones no write is issued and ErrNoChange is returned, so
// the caller can skip its own refresh.
func (s *Store) Save(kind types.Kind, id int64, title, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOp(kind); err != nil {
		return err
	}
	if title == "" {
		return types.ErrInvalidTitle
	}

	table := kind.ActiveTable()

	var curTitle, curContent string
	err := s.db.QueryRow("SELECT title, content FROM "+table+" WHERE id = ?", id).
		Scan(&curTitle, &curContent)
	if err == sql.ErrNoRows {
		s.sink.Report(fmt.Sprintf("ERROR: note %d not found.", id), types.SeverityError)
		return types.ErrNotFound
	}
	if err != nil {
		return storageErr("reading note", err)
	}

	if curTitle == title && curContent == content {
		s.sink.Report(fmt.Sprintf("Note %q is unchanged, nothing to save.", title), types.SeverityInfo)
		return types.ErrNoChange
	}

	now := time.Now().Format(time.RFC3339)
	if _, err := s.db.Exec(
		"UPDATE "+table+" SET title = ?, content = ?, updated_at = ? WHERE id = ?",
		title, content, now, id); err != nil {
		s.sink.Report(fmt.Sprintf("ERROR: could not save note %q: %v", title, err), types.SeverityError)
		return storageErr("saving note", err)
	}

	s.sink.Report(fmt.Sprintf("Note %q saved.", title), types.SeverityInfo)
	return nil
}

// Delete moves a note to the deleted table of its kind, stamping deleted_at.
// The copy and the removal commit together or not at all.
func (s *Store) Delete(kind types.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOp(kind); err != nil {
		return err
	}

	active := kind.ActiveTable()
	deleted := kind.DeletedTable()

	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("deleting note", err)
	}
	defer tx.Rollback()

	var title string
	err = tx.QueryRow("SELECT title FROM "+active+" WHERE id = ?", id).Scan(&title)
	if err == sql.ErrNoRows {
		s.sink.Report(fmt.Sprintf("ERROR: note %d not found.", id), types.SeverityError)
		return types.ErrNotFound
	}
	if err != nil {
		return storageErr("deleting note", err)
	}

	now := time.Now().Format(time.RFC3339)
	if _, err := tx.Exec(
		"INSERT INTO "+deleted+" (id, title, content, created_at, updated_at, deleted_at) "+
			"SELECT id, title, content, created_at, updated_at, ? FROM "+active+" WHERE id = ?",
		now, id); err != nil {
		return storageErr("deleting note", err)
	}
	if _, err := tx.Exec("DELETE FROM "+active+" WHERE id = ?", id); err != nil {
		return storageErr("deleting note", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("deleting note", err)
	}

	s.sink.Report(fmt.Sprintf("Note %q moved to deleted notes.", title), types.SeverityInfo)
	return nil
}

// Restore moves a deleted note back to the active table of its kind,
// keeping the original id whenever the slot is free. Stores migrated from
// the pre-surrogate-id layout renumber active and deleted rows
// independently, so the original id may already be taken by an unrelated
// active note; in that case the note comes back under a fresh id rather
// than staying stuck in the deleted table.
func (s *Store) Restore(kind types.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOp(kind); err != nil {
		return err
	}

	active := kind.ActiveTable()
	deleted := kind.DeletedTable()

	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("restoring note", err)
	}
	defer tx.Rollback()

	var title string
	err = tx.QueryRow("SELECT title FROM "+deleted+" WHERE id = ?", id).Scan(&title)
	if err == sql.ErrNoRows {
		s.sink.Report(fmt.Sprintf("ERROR: deleted note %d not found.", id), types.SeverityError)
		return types.ErrNotFound
	}
	if err != nil {
		return storageErr("restoring note", err)
	}

	var occupied bool
	err = tx.QueryRow("SELECT EXISTS(SELECT 1 FROM "+active+" WHERE id = ?)", id).Scan(&occupied)
	if err != nil {
		return storageErr("restoring note", err)
	}

	if occupied {
		_, err = tx.Exec(
			"INSERT INTO "+active+" (title, content, created_at, updated_at) "+
				"SELECT title, content, created_at, updated_at FROM "+deleted+" WHERE id = ?",
			id)
	} else {
		_, err = tx.Exec(
			"INSERT INTO "+active+" (id, title, content, created_at, updated_at) "+
				"SELECT id, title, content, created_at, updated_at FROM "+deleted+" WHERE id = ?",
			id)
	}
	if err != nil {
		return storageErr("restoring note", err)
	}
	if _, err := tx.Exec("DELETE FROM "+deleted+" WHERE id = ?", id); err != nil {
		return storageErr("restoring note", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("restoring note", err)
	}

	s.sink.Report(fmt.Sprintf("Note %q restored.", title), types.SeverityInfo)
	return nil
}

// Purge permanently removes a row from the deleted table. Irreversible.
func (s *Store) Purge(kind types.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOp(kind); err != nil {
		return err
	}

	deleted := kind.DeletedTable()

	var title string
	err := s.db.QueryRow("SELECT title FROM "+deleted+" WHERE id = ?", id).Scan(&title)
	if err == sql.ErrNoRows {
		s.sink.Report(fmt.Sprintf("ERROR: deleted note %d not found.", id), types.SeverityError)
		return types.ErrNotFound
	}
	if err != nil {
		return storageErr("purging note", err)
	}

	if _, err := s.db.Exec("DELETE FROM "+deleted+" WHERE id = ?", id); err != nil {
		return storageErr("purging note", err)
	}

	s.sink.Report(fmt.Sprintf("Note %q permanently deleted.", title), types.SeverityInfo)
	return nil
}

// hydrateNote converts the current sql.Rows row into a Note.
func hydrateNote(rows *sql.Rows) (types.Note, error) {
	var (
		n       types.Note
		created sql.NullString
		updated sql.NullString
	)
	if err := rows.Scan(&n.ID, &n.Title, &n.Content, &created, &updated); err != nil {
		return types.Note{}, err
	}
	n.CreatedAt = parseStamp(created)
	n.UpdatedAt = parseStamp(updated)
	return n, nil
}

// parseStamp parses an RFC 3339 timestamp column. Rows backfilled by
// migration carry null; those map to the zero time.
func parseStamp(v sql.NullString) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
