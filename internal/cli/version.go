package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the unmemorize release version.
const Version = "0.9.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("unmemorize v" + Version)
	},
}
