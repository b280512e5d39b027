// Package cli implements the unmemorize command-line interface, the thin
// presentation layer in front of the note storage engine.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aens/unmemorize/internal/paths"
	"github.com/aens/unmemorize/internal/sqlite"
	"github.com/aens/unmemorize/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfigDir string
	flagNotesDir  string
	flagPrivate   bool
)

// configNotesDir holds the notes_dir value loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use it.
var configNotesDir string

// notepad is the open store, initialized before any note subcommand runs.
var notepad types.Notepad

var rootCmd = &cobra.Command{
	Use:     "unmemorize",
	Short:   "Unmemorize is a local note keeper with soft delete and restore",
	Version: Version,
	// Do not print usage on errors returned by subcommands.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return openNotepad()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeNotepad()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory")
	rootCmd.PersistentFlags().StringVar(&flagNotesDir, "notes-dir", "", "notes directory (default: $(CWD)/notes)")
	rootCmd.PersistentFlags().BoolVar(&flagPrivate, "private", false, "operate on private notes")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(deletedCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(purgeCmd)
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}

// selectedKind maps the --private flag to the note kind.
func selectedKind() types.Kind {
	if flagPrivate {
		return types.KindPrivate
	}
	return types.KindRegular
}

// openNotepad loads config and opens the note store. Backup or migration
// failures abort here; the engine refuses to serve note operations against
// a damaged store.
func openNotepad() error {
	configDir, err := paths.ResolveConfigDir(flagConfigDir)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	configNotesDir = cfg.GetString(cfgKeyNotesDir)

	notesDir, err := paths.ResolveNotesDir(flagNotesDir, configNotesDir)
	if err != nil {
		return err
	}

	store, err := sqlite.Open(types.Config{
		NotesDir: notesDir,
		DBFile:   cfg.GetString(cfgKeyDBFile),
	}, consoleSink{})
	if err != nil {
		return fmt.Errorf("open note store: %w", err)
	}
	notepad = store
	return nil
}

// closeNotepad releases the store.
func closeNotepad() error {
	if notepad != nil {
		return notepad.Close()
	}
	return nil
}
