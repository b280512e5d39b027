package types

// Severity classifies a status message.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

// StatusSink receives outcome messages from the store and migrator. The
// presentation layer owns the implementation and renders the messages as
// transient feedback; the engine never blocks on it.
type StatusSink interface {
	Report(message string, severity Severity)
}

// ConfirmPrompt asks the user to confirm an irreversible action. It is
// invoked by the presentation layer before calling Purge; the store itself
// never waits for confirmation.
type ConfirmPrompt interface {
	Confirm(message string) bool
}

// NopSink is a StatusSink that discards all messages.
type NopSink struct{}

// Report implements StatusSink.
func (NopSink) Report(string, Severity) {}
