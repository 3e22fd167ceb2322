// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package console formats user-facing status lines for the CLI.
// Formatting is pure: no package holds terminal state, and only the command
// layer decides where lines are written.
package console

import "fmt"

// Kind classifies a status line and selects its glyph and color.
type Kind int

const (
	Success Kind = iota
	Error
	Info
	Progress
	Warning
)

// ANSI escape codes, keyed by Kind.
const (
	reset  = "\033[0m"
	green  = "\033[92m"
	red    = "\033[91m"
	blue   = "\033[94m"
	cyan   = "\033[96m"
	yellow = "\033[93m"
)

// Line returns msg formatted as a colored, glyph-prefixed status line.
// Unknown kinds fall back to plain text.
func Line(kind Kind, msg string) string {
	switch kind {
	case Success:
		return green + "✓ " + msg + reset
	case Error:
		return red + "✗ " + msg + reset
	case Info:
		return blue + "ℹ " + msg + reset
	case Progress:
		return cyan + "⋯ " + msg + reset
	case Warning:
		return yellow + "⚠ " + msg + reset
	}
	return msg
}

// Linef is Line with Sprintf-style formatting of msg.
func Linef(kind Kind, format string, args ...any) string {
	return Line(kind, fmt.Sprintf(format, args...))
}

// FormatSize renders a byte count in the largest unit that keeps the value
// above one, with a single decimal (e.g. "1.5 MB").
func FormatSize(n int64) string {
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB"} {
		if size < 1024.0 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.1f GB", size)
}
