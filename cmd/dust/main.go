// Command dust is the entry point for the Dust front-end CLI.
package main

import (
	"fmt"
	"os"

	"github.com/kadir014/Dust/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
