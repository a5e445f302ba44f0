// Package console prints user-facing lines. Reports go to stdout, warnings
// and errors to stderr, so the name-only output modes stay pipeable.
package console

import (
	"fmt"
	"os"

	"github.com/TwiN/go-color"
)

// Print writes a plain report line to stdout.
func Print(message string, vars ...any) {
	fmt.Printf(message+"\n", vars...)
}

// Success writes a green report line to stdout.
func Success(message string, vars ...any) {
	fmt.Printf(color.Ize(color.Green, message+"\n"), vars...)
}

// Warning writes a yellow line to stderr.
func Warning(message string, vars ...any) {
	fmt.Fprintf(os.Stderr, color.Ize(color.Yellow, message+"\n"), vars...)
}

// Error writes a red line to stderr.
func Error(message string, vars ...any) {
	fmt.Fprintf(os.Stderr, color.Ize(color.Red, message+"\n"), vars...)
}
