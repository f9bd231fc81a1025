package main

import (
	"os"

	"github.com/jask/truckfinder/cmd/truckfinder/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
