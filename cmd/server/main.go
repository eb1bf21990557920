// Command server runs the schedule API without the CLI wrapper. It is the
// entrypoint used in containers.
package main

import (
	"fmt"
	"os"

	"github.com/felixgeelhaar/circadia/adapter/cli"
)

var version = "dev"

func main() {
	root := cli.NewRootCommand(version)
	root.SetArgs([]string{"serve"})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
