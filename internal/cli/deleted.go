// Commands operating on deleted notes: deleted, restore, purge.
package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var flagYes bool

var deletedCmd = &cobra.Command{
	Use:   "deleted",
	Short: "List deleted notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := selectedKind()
		if err := notepad.ReloadDeleted(kind); err != nil {
			return err
		}
		deleted := notepad.DeletedNotes(kind)

		ids := make([]int64, 0, len(deleted))
		for id := range deleted {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, id := range ids {
			d := deleted[id]
			fmt.Printf("%d\t%s\t(deleted %s)\n", id, d.Title, d.DeletedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Move a deleted note back to the active notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return notepad.Restore(selectedKind(), id)
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge <id>",
	Short: "Permanently delete a note (irreversible)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		// Confirmation belongs to the presentation layer; the store never
		// blocks for it.
		if !flagYes {
			prompt := terminalPrompt{}
			if !prompt.Confirm(fmt.Sprintf("Permanently delete note %d? This cannot be undone.", id)) {
				fmt.Println("aborted")
				return nil
			}
		}
		return notepad.Purge(selectedKind(), id)
	},
}

func init() {
	purgeCmd.Flags().BoolVar(&flagYes, "yes", false, "skip the confirmation prompt")
}
