package main

import (
	"os"

	"snapsort/internal/cmd"
	"snapsort/internal/ui"
)

func main() {
	if err := cmd.Execute(); err != nil {
		ui.Error(err.Error())
		os.Exit(1)
	}
}
