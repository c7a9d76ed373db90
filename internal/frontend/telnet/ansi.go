// Package telnet provides the line-oriented Telnet transport and the ANSI
// styling used when rendering game messages to terminals.
package telnet

import (
	"fmt"
	"regexp"
)

// Color is an ANSI SGR escape sequence.
type Color string

const (
	Reset Color = "\033[0m"
	Bold  Color = "\033[1m"
	Dim   Color = "\033[2m"

	Red     Color = "\033[31m"
	Green   Color = "\033[32m"
	Yellow  Color = "\033[33m"
	Blue    Color = "\033[34m"
	Magenta Color = "\033[35m"
	Cyan    Color = "\033[36m"

	BrightBlack  Color = "\033[90m"
	BrightYellow Color = "\033[93m"
	BrightCyan   Color = "\033[96m"
	BrightWhite  Color = "\033[97m"
)

// Wrap returns text styled with c and followed by Reset.
func (c Color) Wrap(text string) string {
	return string(c) + text + string(Reset)
}

// Wrapf formats according to format and styles the result with c.
func (c Color) Wrapf(format string, args ...any) string {
	return c.Wrap(fmt.Sprintf(format, args...))
}

var sgr = regexp.MustCompile("\033\\[[0-9;]*m")

// StripANSI removes every SGR escape sequence from s.
func StripANSI(s string) string {
	return sgr.ReplaceAllString(s, "")
}
