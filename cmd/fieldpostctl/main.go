package main

import (
	"os"

	"github.com/jask/fieldpost/cmd/fieldpostctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
