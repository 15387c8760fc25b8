// Package main is the entry point for the hoverword CLI.
package main

import (
	"os"

	"github.com/f3rmion/hoverword/cmd/hoverword/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
