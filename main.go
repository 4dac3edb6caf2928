// The main package for the trending-tracker executable.
package main

import (
	"os"

	"github.com/skydioflyer/trending-tracker/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
