package main

import (
	"os"

	"github.com/rustyeddy/discipline/cmd/discipline/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
