package main

import (
	"os"

	"splitter/cmd/splitcalc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
