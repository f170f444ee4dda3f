// Package main is the entry point for the print-pricing CLI.
package main

import (
	"os"

	"print-pricing/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
