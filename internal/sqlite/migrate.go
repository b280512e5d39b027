// This file implements schema drift detection and the data-preserving
// migration path: introspect, back up the database file, then rebuild each
// drifted table from the catalog inside a single transaction.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aens/unmemorize/pkg/types"
)

// backupStamp is the local-time layout embedded in backup file names.
const backupStamp = "20060102-150405"

// schemaDiff is the result of comparing one table against the catalog.
type schemaDiff struct {
	table   string
	missing []string // catalog columns absent from the live table
}

// satisfied reports whether the live table contains every catalog column.
func (d schemaDiff) satisfied() bool {
	return len(d.missing) == 0
}

// tableColumns returns the live column names of a table, in declaration
// order, via PRAGMA table_info.
func tableColumns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return nil, fmt.Errorf("introspecting %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return nil, fmt.Errorf("scanning column of %s: %w", table, err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating columns of %s: %w", table, err)
	}
	return cols, nil
}

// diffTable compares a live table's columns against the catalog and returns
// a typed diff naming exactly which required columns are missing. Column
// order is irrelevant and extra legacy columns are ignored.
func diffTable(db *sql.DB, table string) (schemaDiff, error) {
	live, err := tableColumns(db, table)
	if err != nil {
		return schemaDiff{}, err
	}
	have := make(map[string]bool, len(live))
	for _, c := range live {
		have[c] = true
	}

	diff := schemaDiff{table: table}
	for _, c := range requiredColumns(table) {
		if !have[c] {
			diff.missing = append(diff.missing, c)
		}
	}
	return diff, nil
}

// backupFile copies the database file to a timestamped sibling path using
// the temp-file, sync, rename pattern. It returns the backup path. Backup is
// the sole safety net against migration bugs; callers must not migrate if it
// fails.
func backupFile(dbPath string) (string, error) {
	src, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("opening database for backup: %w", errors.Join(types.ErrBackupFailed, err))
	}
	defer src.Close()

	dir := filepath.Dir(dbPath)
	ext := filepath.Ext(dbPath)
	base := strings.TrimSuffix(filepath.Base(dbPath), ext)
	dest := filepath.Join(dir, fmt.Sprintf("%s-backup-%s%s", base, time.Now().Format(backupStamp), ext))

	tmp, err := os.CreateTemp(dir, ".backup-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating backup temp file: %w", errors.Join(types.ErrBackupFailed, err))
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("copying database: %w", errors.Join(types.ErrBackupFailed, err))
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("syncing backup: %w", errors.Join(types.ErrBackupFailed, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing backup: %w", errors.Join(types.ErrBackupFailed, err))
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("renaming backup: %w", errors.Join(types.ErrBackupFailed, err))
	}
	return dest, nil
}

// tableRebuild is a fully resolved migration plan for one table.
type tableRebuild struct {
	diff  schemaDiff
	carry []string // live columns copied by value into the rebuilt table
}

// planRebuild introspects a drifted table and resolves which columns survive
// the rebuild. The surrogate id is carried when the live table has one, so
// assigned identities survive migration; a legacy table without an id column
// gets fresh ids from the recreated table. Only additive changes are
// supported: a live data column absent from the catalog would be silently
// dropped by the copy, so that case fails the whole migration before any
// table is touched.
func planRebuild(db *sql.DB, d schemaDiff) (tableRebuild, error) {
	live, err := tableColumns(db, d.table)
	if err != nil {
		return tableRebuild{}, errors.Join(types.ErrMigrationFailed, err)
	}

	allowed := make(map[string]bool)
	for _, c := range requiredColumns(d.table) {
		allowed[c] = true
	}

	var carry []string
	for _, c := range live {
		if !allowed[c] {
			return tableRebuild{}, fmt.Errorf("table %s has column %q not in the catalog, removal is unsupported: %w",
				d.table, c, types.ErrMigrationFailed)
		}
		carry = append(carry, c)
	}
	if len(carry) == 0 {
		return tableRebuild{}, fmt.Errorf("table %s has no data columns to carry over: %w", d.table, types.ErrMigrationFailed)
	}
	return tableRebuild{diff: d, carry: carry}, nil
}

// migrate rebuilds every drifted table from the catalog without losing data:
// copy the surviving columns to a scratch table, drop and recreate the
// original from the DDL, re-insert by column name so newly introduced
// columns take their declared defaults (null otherwise), then drop the
// scratch table. All tables migrate in one transaction, or none do.
func migrate(db *sql.DB, diffs []schemaDiff, sink types.StatusSink) error {
	// Resolve every rebuild before opening the transaction so an
	// unsupported schema aborts with the database untouched.
	plans := make([]tableRebuild, 0, len(diffs))
	for _, d := range diffs {
		plan, err := planRebuild(db, d)
		if err != nil {
			sink.Report(fmt.Sprintf("Migration of table %s refused: %v", d.table, err), types.SeverityError)
			return err
		}
		plans = append(plans, plan)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning migration: %w", errors.Join(types.ErrMigrationFailed, err))
	}
	defer tx.Rollback()

	for _, p := range plans {
		cols := strings.Join(p.carry, ", ")
		scratch := p.diff.table + "_migration"

		steps := []string{
			fmt.Sprintf("CREATE TABLE %s AS SELECT %s FROM %s", scratch, cols, p.diff.table),
			fmt.Sprintf("DROP TABLE %s", p.diff.table),
			tableDDL[p.diff.table],
			fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", p.diff.table, cols, cols, scratch),
			fmt.Sprintf("DROP TABLE %s", scratch),
		}
		for _, stmt := range steps {
			if _, err := tx.Exec(stmt); err != nil {
				sink.Report(fmt.Sprintf("Migration of table %s failed: %v", p.diff.table, err), types.SeverityError)
				return fmt.Errorf("rebuilding %s: %w", p.diff.table, errors.Join(types.ErrMigrationFailed, err))
			}
		}
		sink.Report(fmt.Sprintf("Table %s migrated, added columns: %s",
			p.diff.table, strings.Join(p.diff.missing, ", ")), types.SeverityInfo)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", errors.Join(types.ErrMigrationFailed, err))
	}
	return nil
}
