package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dshills/gomove/pkg/cli"
)

// main is the entry point for the gomove CLI.
func main() {
	// Load .env if present; GOMOVE_* variables override config file values
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
