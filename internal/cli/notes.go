// Commands operating on active notes: add, list, show, save, delete.
package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aens/unmemorize/pkg/types"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a new empty note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := notepad.Add(selectedKind(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("created note %d\n", id)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := selectedKind()
		if err := notepad.Reload(kind); err != nil {
			return err
		}
		notes := notepad.Notes(kind)

		ids := make([]int64, 0, len(notes))
		for id := range notes {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		for _, id := range ids {
			fmt.Printf("%d\t%s\n", id, notes[id].Title)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a note's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		kind := selectedKind()
		if err := notepad.Reload(kind); err != nil {
			return err
		}
		note, ok := notepad.Notes(kind)[id]
		if !ok {
			return types.ErrNotFound
		}
		fmt.Printf("%s\n\n%s\n", note.Title, note.Content)
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <id> <title> <content>",
	Short: "Update a note's title and content",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		err = notepad.Save(selectedKind(), id, args[1], args[2])
		if err == types.ErrNoChange {
			// A no-op save is a successful no-write outcome.
			return nil
		}
		return err
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Move a note to the deleted notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return notepad.Delete(selectedKind(), id)
	},
}

// parseID parses a note id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid note id %q", arg)
	}
	return id, nil
}
