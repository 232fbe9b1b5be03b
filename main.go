package main

import (
	"os"

	"github.com/kylescorner/corner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
