package ogrescript

import (
	"strconv"
	"strings"
)

// IndentedWriter builds nested brace-delimited script text. Words are
// appended onto the current line, blocks are opened with Embed which
// guarantees the closing brace is written at the matching indent on every
// exit path. It is a pure builder with no error conditions.
type IndentedWriter struct {
	buf    strings.Builder // Accumulated script text
	indent string          // Indentation unit
	cache  []string        // Cache of indentation strings per level
	level  int             // Current nesting level
}

// NewIndentedWriter creates a writer indenting with four spaces.
func NewIndentedWriter() *IndentedWriter {
	return &IndentedWriter{indent: "    "}
}

// IWord starts a new word at the current indentation.
func (w *IndentedWriter) IWord(s string) *IndentedWriter {
	w.buf.WriteString(w.indentFor(w.level))
	w.buf.WriteString(s)
	return w
}

// Word continues the current line with a space-separated word.
func (w *IndentedWriter) Word(s string) *IndentedWriter {
	w.buf.WriteString(" ")
	w.buf.WriteString(s)
	return w
}

// Real appends a numeric word. Floats use the shortest representation that
// round-trips a float32, keeping emitted scripts reproducible.
func (w *IndentedWriter) Real(v float32) *IndentedWriter {
	return w.Word(FormatReal(v))
}

// Integer appends an integer word.
func (w *IndentedWriter) Integer(v int) *IndentedWriter {
	return w.Word(strconv.Itoa(v))
}

// NL terminates the current line.
func (w *IndentedWriter) NL() *IndentedWriter {
	w.buf.WriteString("\n")
	return w
}

// Line appends s and a newline without indentation.
func (w *IndentedWriter) Line(s string) *IndentedWriter {
	w.buf.WriteString(s)
	w.buf.WriteString("\n")
	return w
}

// ILine appends an indented line.
func (w *IndentedWriter) ILine(s string) *IndentedWriter {
	w.buf.WriteString(w.indentFor(w.level))
	return w.Line(s)
}

// Embed opens a brace block, runs body one level deeper, and closes the
// block. The closing brace is emitted even if body panics, so generation
// logic can never leave an unterminated block.
func (w *IndentedWriter) Embed(body func()) *IndentedWriter {
	w.NL()
	w.ILine("{")
	w.level++
	defer func() {
		w.level--
		w.ILine("}")
	}()
	body()
	return w
}

// Text returns the accumulated text without clearing it.
func (w *IndentedWriter) Text() string {
	return w.buf.String()
}

// Flush returns the accumulated text and clears the buffer.
func (w *IndentedWriter) Flush() string {
	s := w.buf.String()
	w.buf.Reset()
	return s
}

// indentFor returns the cached indentation string for level.
func (w *IndentedWriter) indentFor(level int) string {
	if level <= 0 {
		return ""
	}

	if len(w.cache) <= level {
		w.cache = append(w.cache, make([]string, level-len(w.cache)+1)...)
	}
	if w.cache[level] == "" {
		// Cache computed indentation for this level.
		w.cache[level] = strings.Repeat(w.indent, level)
	}

	return w.cache[level]
}

// FormatReal renders a float32 with the writer's fixed numeric rule.
func FormatReal(v float32) string {
	var buf [32]byte
	return string(strconv.AppendFloat(buf[:0], float64(v), 'g', -1, 32))
}
