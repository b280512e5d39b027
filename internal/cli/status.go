// Console implementations of the engine's presentation collaborators.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aens/unmemorize/pkg/types"
)

// consoleSink renders engine status messages on the terminal, timestamped
// the way the original status bar was.
type consoleSink struct{}

// Report implements types.StatusSink.
func (consoleSink) Report(message string, severity types.Severity) {
	out := os.Stdout
	if severity == types.SeverityError {
		out = os.Stderr
	}
	fmt.Fprintf(out, "%s - %s\n", time.Now().Format("15:04:05"), message)
}

// terminalPrompt asks for confirmation on stdin before irreversible actions.
type terminalPrompt struct{}

// Confirm implements types.ConfirmPrompt. Only an explicit yes confirms.
func (terminalPrompt) Confirm(message string) bool {
	fmt.Printf("%s [y/N]: ", message)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
