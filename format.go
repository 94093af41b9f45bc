package main

import (
	"fmt"
	"os"
)

// statusf prints a status message to stderr unless quiet mode is set.
// Stderr keeps human output away from the MCP stdio transport on stdout.
func statusf(format string, args ...any) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
