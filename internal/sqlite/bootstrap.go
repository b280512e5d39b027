// This file implements the store bootstrapper: the single startup entry
// point that opens (or creates) the database file, ensures all tables exist,
// and repairs schema drift before any note operation is served.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/aens/unmemorize/pkg/types"
)

// Open opens the note database described by cfg and returns a ready Store.
//
// The notes directory is created if absent, all four tables are created if
// they do not exist, and — only when the database file pre-existed — each
// table's columns are checked against the catalog. Exactly the failing
// subset is migrated, behind a mandatory timestamped backup of the file.
// Open is idempotent: a second run against a correct store performs zero
// schema changes and writes zero backup files.
//
// A nil sink discards status messages.
func Open(cfg types.Config, sink types.StatusSink) (*Store, error) {
	if sink == nil {
		sink = types.NopSink{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.NotesDir, 0o755); err != nil {
		return nil, storageErr("creating notes directory", err)
	}

	dbFile := cfg.DBFile
	if dbFile == "" {
		dbFile = types.DefaultDBFile
	}
	dbPath := filepath.Join(cfg.NotesDir, dbFile)

	existed := false
	if _, err := os.Stat(dbPath); err == nil {
		existed = true
	} else if !os.IsNotExist(err) {
		return nil, storageErr("checking database file", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storageErr("opening database", err)
	}

	for _, table := range tableNames {
		if _, err := db.Exec(tableDDL[table]); err != nil {
			db.Close()
			return nil, storageErr("creating table "+table, err)
		}
	}

	if existed {
		if err := repairDrift(db, dbPath, sink); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &Store{
		db:   db,
		sink: sink,
		notes: map[types.Kind]map[int64]types.Note{
			types.KindRegular: {},
			types.KindPrivate: {},
		},
		deleted: map[types.Kind]map[int64]types.DeletedNote{
			types.KindRegular: {},
			types.KindPrivate: {},
		},
	}, nil
}

// repairDrift checks every table against the catalog and migrates the subset
// that fails. The backup is unconditional once any drift is found; if it
// cannot be written, migration does not run and the store is left untouched.
func repairDrift(db *sql.DB, dbPath string, sink types.StatusSink) error {
	var drifted []schemaDiff
	for _, table := range tableNames {
		diff, err := diffTable(db, table)
		if err != nil {
			return storageErr("checking schema of "+table, err)
		}
		if !diff.satisfied() {
			drifted = append(drifted, diff)
		}
	}
	if len(drifted) == 0 {
		return nil
	}

	for _, d := range drifted {
		sink.Report(fmt.Sprintf("Table %s is missing columns: %v", d.table, d.missing), types.SeverityInfo)
	}

	backupPath, err := backupFile(dbPath)
	if err != nil {
		sink.Report(fmt.Sprintf("ERROR: could not back up the database, migration aborted: %v", err), types.SeverityError)
		return err
	}
	sink.Report(fmt.Sprintf("Database backed up to %s.", backupPath), types.SeverityInfo)

	if err := migrate(db, drifted, sink); err != nil {
		return fmt.Errorf("migration failed, restore from backup %s: %w", backupPath, err)
	}
	return nil
}
