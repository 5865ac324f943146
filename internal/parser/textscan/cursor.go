// Package textscan provides line splitting and an explicit line cursor for
// the scan-and-lookahead style extractors. The cursor replaces hidden
// loop-variable mutation: lookahead and skip logic is an indexed position
// over an immutable slice of lines.
package textscan

import "strings"

// SplitLines splits pasted text into lines with universal newline handling.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// Cursor is a forward-only position over an indexed line sequence.
// Line numbers reported to diagnostics are 1-based.
type Cursor struct {
	lines []string
	pos   int
}

// NewCursor builds a cursor over the given lines.
func NewCursor(lines []string) *Cursor {
	return &Cursor{lines: lines}
}

// Next returns the current line and its 1-based number, advancing past it.
func (c *Cursor) Next() (line string, num int, ok bool) {
	if c.pos >= len(c.lines) {
		return "", 0, false
	}
	line, num = c.lines[c.pos], c.pos+1
	c.pos++
	return line, num, true
}

// Peek returns the current line without advancing.
func (c *Cursor) Peek() (line string, num int, ok bool) {
	if c.pos >= len(c.lines) {
		return "", 0, false
	}
	return c.lines[c.pos], c.pos + 1, true
}

// Skip advances past the current line.
func (c *Cursor) Skip() {
	if c.pos < len(c.lines) {
		c.pos++
	}
}
