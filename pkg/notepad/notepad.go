// Package notepad provides the public API for opening the Unmemorize note
// store. It exposes the bootstrapper while keeping the SQLite implementation
// internal.
package notepad

import (
	"github.com/aens/unmemorize/internal/sqlite"
	"github.com/aens/unmemorize/pkg/types"
)

// Open opens (or creates) the note database described by cfg and returns a
// ready Notepad. Table creation and schema-drift repair run before the
// store is handed out; a backup or migration failure aborts the open.
//
// Example:
//
//	pad, err := notepad.Open(types.Config{NotesDir: "notes"}, sink)
//	if err != nil {
//	    // refuse to serve note operations
//	}
//	defer pad.Close()
func Open(cfg types.Config, sink types.StatusSink) (types.Notepad, error) {
	return sqlite.Open(cfg, sink)
}
