package main

import (
	"os"

	"github.com/msto63/mcpi/cmd/mcpi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
