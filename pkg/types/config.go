package types

import "errors"

// Config holds the storage location parameters for opening a note store.
type Config struct {
	// NotesDir is the directory holding the database file and any backup
	// artifacts. Created on open if it does not exist.
	NotesDir string `json:"notes_dir" yaml:"notes_dir"`

	// DBFile is the database file name inside NotesDir.
	// Defaults to DefaultDBFile when empty.
	DBFile string `json:"db_file" yaml:"db_file"`
}

// DefaultDBFile is the database file name used when Config.DBFile is empty.
const DefaultDBFile = "notes.db"

// Config validation errors.
var (
	ErrNotesDirEmpty = errors.New("notes directory must not be empty")
)

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.NotesDir == "" {
		return ErrNotesDirEmpty
	}
	return nil
}
