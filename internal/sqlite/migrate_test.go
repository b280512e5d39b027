// Unit tests for schema drift detection, backup, and table migration.
package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aens/unmemorize/pkg/types"
)

// recordSink captures status messages for assertions.
type recordSink struct {
	messages []string
	errors   []string
}

func (r *recordSink) Report(message string, severity types.Severity) {
	if severity == types.SeverityError {
		r.errors = append(r.errors, message)
		return
	}
	r.messages = append(r.messages, message)
}

// writeLegacyDB creates a database in the pre-surrogate-id layout the first
// application versions used: title as primary key, no id, no timestamps.
// Returns the database path.
func writeLegacyDB(t *testing.T, dir string, rows map[string]string) string {
	t.Helper()
	dbPath := filepath.Join(dir, types.DefaultDBFile)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE notes (title TEXT PRIMARY KEY, content TEXT)`)
	require.NoError(t, err)
	for title, content := range rows {
		_, err = db.Exec(`INSERT INTO notes (title, content) VALUES (?, ?)`, title, content)
		require.NoError(t, err)
	}
	return dbPath
}

// backupFiles returns the backup artifacts present in dir.
func backupFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "notes-backup-*.db"))
	require.NoError(t, err)
	return matches
}

func TestDiffTable(t *testing.T) {
	dir := t.TempDir()
	writeLegacyDB(t, dir, nil)

	db, err := sql.Open("sqlite", filepath.Join(dir, types.DefaultDBFile))
	require.NoError(t, err)
	defer db.Close()

	t.Run("missing catalog columns are named", func(t *testing.T) {
		diff, err := diffTable(db, types.TableNotes)
		require.NoError(t, err)
		assert.False(t, diff.satisfied())
		assert.ElementsMatch(t, []string{"id", "created_at", "updated_at"}, diff.missing)
	})

	t.Run("satisfied table with extra columns", func(t *testing.T) {
		_, err := db.Exec(`CREATE TABLE private_notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT, content TEXT, created_at TEXT, updated_at TEXT,
			legacy_flag INTEGER)`)
		require.NoError(t, err)

		diff, err := diffTable(db, types.TablePrivateNotes)
		require.NoError(t, err)
		assert.True(t, diff.satisfied(), "extra legacy columns are tolerated, never required")
	})
}

func TestMigrationPreservesData(t *testing.T) {
	dir := t.TempDir()
	seed := map[string]string{
		"Groceries": "milk, eggs",
		"Chores":    "laundry",
		"Ideas":     "",
	}
	writeLegacyDB(t, dir, seed)

	sink := &recordSink{}
	s, err := Open(types.Config{NotesDir: dir}, sink)
	require.NoError(t, err)
	defer s.Close()

	t.Run("backup file is written", func(t *testing.T) {
		assert.Len(t, backupFiles(t, dir), 1)
	})

	t.Run("columns satisfy the catalog afterwards", func(t *testing.T) {
		diff, err := diffTable(s.db, types.TableNotes)
		require.NoError(t, err)
		assert.True(t, diff.satisfied())
	})

	t.Run("all pre-existing rows are intact", func(t *testing.T) {
		require.NoError(t, s.Reload(types.KindRegular))
		notes := s.Notes(types.KindRegular)
		require.Len(t, notes, len(seed))

		byTitle := make(map[string]types.Note, len(notes))
		for _, n := range notes {
			byTitle[n.Title] = n
		}
		for title, content := range seed {
			n, ok := byTitle[title]
			require.True(t, ok, "row %q lost in migration", title)
			assert.Equal(t, content, n.Content)
		}
	})

	t.Run("migrated rows got surrogate ids", func(t *testing.T) {
		require.NoError(t, s.Reload(types.KindRegular))
		for id := range s.Notes(types.KindRegular) {
			assert.Positive(t, id)
		}
	})

	t.Run("migration is reported", func(t *testing.T) {
		assert.NotEmpty(t, sink.messages)
		assert.Empty(t, sink.errors)
	})
}

func TestMigrationIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeLegacyDB(t, dir, map[string]string{"Groceries": "milk"})

	s, err := Open(types.Config{NotesDir: dir}, types.NopSink{})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.Len(t, backupFiles(t, dir), 1)

	// Second open: schema is already correct, so no new backup and no
	// schema changes.
	s, err = Open(types.Config{NotesDir: dir}, types.NopSink{})
	require.NoError(t, err)
	defer s.Close()

	assert.Len(t, backupFiles(t, dir), 1)

	require.NoError(t, s.Reload(types.KindRegular))
	assert.Len(t, s.Notes(types.KindRegular), 1)
}

func TestMigrationRejectsColumnRemoval(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, types.DefaultDBFile)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	// Missing catalog columns AND carrying a column the catalog does not
	// know: migrating would have to drop attachment, so it must refuse.
	_, err = db.Exec(`CREATE TABLE notes (title TEXT PRIMARY KEY, content TEXT, attachment BLOB)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO notes (title, content, attachment) VALUES ('a', 'b', x'00ff')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	sink := &recordSink{}
	_, err = Open(types.Config{NotesDir: dir}, sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMigrationFailed)
	assert.NotEmpty(t, sink.errors)

	// The backup was still taken before the refusal.
	assert.Len(t, backupFiles(t, dir), 1)

	// The original table is untouched.
	db, err = sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&count))
	assert.Equal(t, 1, count)
	cols, err := tableColumns(db, types.TableNotes)
	require.NoError(t, err)
	assert.Contains(t, cols, "attachment")
}

func TestRestoreAfterLegacyMigration(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, types.DefaultDBFile)

	// Legacy layout with rows in both tables. Migration numbers each table
	// from 1, so the active and deleted rows both come out with id 1.
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE notes (title TEXT PRIMARY KEY, content TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE notes_deleted (title TEXT PRIMARY KEY, content TEXT, deleted_at TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO notes (title, content) VALUES ('Groceries', 'milk')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO notes_deleted (title, content, deleted_at) VALUES ('Old', 'gone', '2021-03-04 10:00:00')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(types.Config{NotesDir: dir}, types.NopSink{})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.ReloadDeleted(types.KindRegular))
	deleted := s.DeletedNotes(types.KindRegular)
	require.Len(t, deleted, 1)
	var deletedID int64
	for id := range deleted {
		deletedID = id
	}

	require.NoError(t, s.Reload(types.KindRegular))
	_, collides := s.Notes(types.KindRegular)[deletedID]
	require.True(t, collides, "setup must produce an occupied id slot")

	// The original id is taken by an unrelated active note, so the restore
	// must fall back to a fresh id instead of failing.
	require.NoError(t, s.Restore(types.KindRegular, deletedID))

	require.NoError(t, s.Reload(types.KindRegular))
	notes := s.Notes(types.KindRegular)
	require.Len(t, notes, 2)

	ids := make(map[int64]bool, len(notes))
	byTitle := make(map[string]types.Note, len(notes))
	for id, n := range notes {
		ids[id] = true
		byTitle[n.Title] = n
	}
	assert.Len(t, ids, 2, "restored note must not share an id with an active note")
	assert.Equal(t, "milk", byTitle["Groceries"].Content)
	assert.Equal(t, "gone", byTitle["Old"].Content)

	require.NoError(t, s.ReloadDeleted(types.KindRegular))
	assert.Empty(t, s.DeletedNotes(types.KindRegular))
}

func TestBackupRefusalAbortsMigration(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions do not bind root")
	}

	dir := t.TempDir()
	dbPath := filepath.Join(dir, types.DefaultDBFile)

	// Only notes drifts; the other tables already match the catalog so the
	// bootstrap DDL pass has nothing to write before the backup attempt.
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE notes (title TEXT PRIMARY KEY, content TEXT)`)
	require.NoError(t, err)
	for _, table := range tableNames[1:] {
		_, err = db.Exec(tableDDL[table])
		require.NoError(t, err)
	}
	_, err = db.Exec(`INSERT INTO notes (title, content) VALUES ('Groceries', 'milk')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// A read-only directory makes the backup's temp file uncreatable.
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	sink := &recordSink{}
	_, err = Open(types.Config{NotesDir: dir}, sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBackupFailed)
	assert.NotEmpty(t, sink.errors)

	require.NoError(t, os.Chmod(dir, 0o755))
	assert.Empty(t, backupFiles(t, dir))

	// The store is untouched: still the legacy schema, row intact.
	db, err = sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()
	cols, err := tableColumns(db, types.TableNotes)
	require.NoError(t, err)
	assert.NotContains(t, cols, "id")
	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM notes`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestBackupFile(t *testing.T) {
	t.Run("copies the database byte for byte", func(t *testing.T) {
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "notes.db")
		require.NoError(t, os.WriteFile(dbPath, []byte("not really a database"), 0o644))

		dest, err := backupFile(dbPath)
		require.NoError(t, err)

		got, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, []byte("not really a database"), got)
		assert.Contains(t, filepath.Base(dest), "notes-backup-")
	})

	t.Run("missing source fails", func(t *testing.T) {
		_, err := backupFile(filepath.Join(t.TempDir(), "absent.db"))
		assert.ErrorIs(t, err, types.ErrBackupFailed)
	})
}
