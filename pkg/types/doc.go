// Package types defines the Notepad interface, note entity types, standard
// errors, and the presentation-layer collaborator interfaces for the
// Unmemorize storage engine.
package types
