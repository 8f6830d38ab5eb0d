package main

import (
	"os"

	"github.com/docforge/docforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
