// Package telnet provides a Telnet server with ANSI color support.
package telnet

import (
	"fmt"

	"github.com/muesli/reflow/ansi"
)

// ANSI escape code constants for terminal styling.
const (
	Reset     = "\033[0m"
	Bold      = "\033[1m"
	Dim       = "\033[2m"
	Underline = "\033[4m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"

	BrightBlack  = "\033[90m"
	BrightYellow = "\033[93m"
	BrightCyan   = "\033[96m"
	BrightWhite  = "\033[97m"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
// Empty text is returned unchanged.
//
// Precondition: color must be a valid ANSI escape sequence.
func Colorize(color, text string) string {
	if text == "" {
		return ""
	}
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
//
// Precondition: color must be a valid ANSI escape sequence.
func Colorf(color, format string, args ...interface{}) string {
	return Colorize(color, fmt.Sprintf(format, args...))
}

// VisibleWidth returns the number of terminal cells s occupies, ignoring escape sequences.
func VisibleWidth(s string) int {
	return ansi.PrintableRuneWidth(s)
}
