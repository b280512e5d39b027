package types

import "time"

// Kind selects one of the two logical note partitions. Private and regular
// notes live in separate table pairs and never share an identifier space.
type Kind string

const (
	KindRegular Kind = "regular"
	KindPrivate Kind = "private"
)

// SQLite table names for each partition.
const (
	TableNotes               = "notes"
	TableNotesDeleted        = "notes_deleted"
	TablePrivateNotes        = "private_notes"
	TablePrivateNotesDeleted = "private_notes_deleted"
)

// validKinds is the set of recognized kind values.
var validKinds = map[Kind]bool{
	KindRegular: true,
	KindPrivate: true,
}

// Valid reports whether k is a recognized kind.
func (k Kind) Valid() bool {
	return validKinds[k]
}

// ActiveTable returns the table name holding active notes of this kind.
func (k Kind) ActiveTable() string {
	if k == KindPrivate {
		return TablePrivateNotes
	}
	return TableNotes
}

// DeletedTable returns the table name holding soft-deleted notes of this kind.
func (k Kind) DeletedTable() string {
	if k == KindPrivate {
		return TablePrivateNotesDeleted
	}
	return TableNotesDeleted
}

// Note is an active note row.
type Note struct {
	ID        int64     // Surrogate id, assigned by the store on creation.
	Title     string    // Human-readable title (required, non-empty).
	Content   string    // Note body; may carry rich-text markup.
	CreatedAt time.Time // Timestamp of creation.
	UpdatedAt time.Time // Timestamp of last saved change.
}

// DeletedNote is a soft-deleted note row. It retains the original note's
// id, title, content, and timestamps verbatim; DeletedAt records the move.
type DeletedNote struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt time.Time
}
