package main

import (
	"fmt"
	"os"

	"coachai/internal/cli"
	"coachai/internal/tui"
)

func main() {
	// No args launches the interactive coach; otherwise route to the CLI.
	if len(os.Args) == 1 {
		if err := tui.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
	}
}
