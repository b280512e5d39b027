// Command unmemorize is the CLI front end for the note storage engine.
package main

import "github.com/aens/unmemorize/internal/cli"

func main() {
	cli.Execute()
}
