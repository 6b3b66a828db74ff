// Package main is the entry point for the pgbridge CLI application.
// It provides tunneled PostgreSQL access with batch mutation support.
package main

import (
	"pgbridge/cli/cmd"
)

// main is the entry point for the pgbridge CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
