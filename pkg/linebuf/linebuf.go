// Package linebuf is the concrete lineedit.Buffer: a single line held as
// a byte slice plus a cursor offset, drawn with the minimal ANSI needed
// to keep a real terminal in sync. There is no piece table and no undo,
// consistent with the Non-goals this module scopes out; insert/remove/
// set_cursor mutate the line directly.
package linebuf

import (
	"bytes"
	"io"

	"github.com/pks-os/clink/pkg/lineedit"
)

var _ lineedit.Buffer = (*Buffer)(nil)

const (
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
	eraseToEOL = "\x1b[K"
)

// Buffer is a single-line editing surface over an io.Writer. The prompt
// is written once at BeginLine and is never touched again; only the
// editable line after it is redrawn.
type Buffer struct {
	out    io.Writer
	prompt []byte

	line   []byte
	cursor int

	// shown and shownCursor mirror what the terminal currently displays,
	// so Draw only needs to rewrite the suffix that actually changed.
	shown       []byte
	shownCursor int
}

// New returns a Buffer that draws to out.
func New(out io.Writer) *Buffer { return &Buffer{out: out} }

// BeginLine resets the line to empty and writes the prompt.
func (b *Buffer) BeginLine(prompt []byte) {
	b.prompt = append(b.prompt[:0], prompt...)
	b.line = b.line[:0]
	b.cursor = 0
	b.shown = b.shown[:0]
	b.shownCursor = 0
	b.out.Write(b.prompt)
}

// EndLine moves the terminal cursor past the line so whatever the
// embedder writes next (a command's output, the next prompt) starts on
// its own row.
func (b *Buffer) EndLine() {
	io.WriteString(b.out, "\r\n")
}

// Bytes returns the current line content. Callers must not retain the
// slice past the next mutating call.
func (b *Buffer) Bytes() []byte { return b.line }

// Cursor returns the current cursor offset into Bytes().
func (b *Buffer) Cursor() int { return b.cursor }

// Insert splices s into the line at the cursor and advances the cursor
// past it.
func (b *Buffer) Insert(s []byte) {
	tail := append(append([]byte(nil), s...), b.line[b.cursor:]...)
	b.line = append(b.line[:b.cursor], tail...)
	b.cursor += len(s)
}

// Remove deletes line[start:end], adjusting the cursor if it sat inside
// or after the removed span.
func (b *Buffer) Remove(start, end int) {
	b.line = append(b.line[:start], b.line[end:]...)
	switch {
	case b.cursor > end:
		b.cursor -= end - start
	case b.cursor > start:
		b.cursor = start
	}
}

// SetCursor moves the cursor to an arbitrary offset within the line.
func (b *Buffer) SetCursor(pos int) { b.cursor = pos }

// Draw rewrites the terminal from the first byte that differs from what
// is currently shown, then repositions the cursor. This is the
// incremental path used after an ordinary insert/remove.
func (b *Buffer) Draw() { b.draw(commonPrefixLen(b.shown, b.line)) }

// Redraw always rewrites the whole line, for cases that can't be
// expressed as a simple suffix edit (a full clear, or a completion cycle
// that replaces the end word wholesale).
func (b *Buffer) Redraw() { b.draw(0) }

func (b *Buffer) draw(n int) {
	var out bytes.Buffer
	out.WriteString(hideCursor)
	moveCursorCols(&out, b.shownCursor, n)
	out.WriteString(eraseToEOL)
	out.Write(b.line[n:])
	moveCursorCols(&out, len(b.line), b.cursor)
	out.WriteString(showCursor)

	b.out.Write(out.Bytes())
	b.shown = append(b.shown[:0], b.line...)
	b.shownCursor = b.cursor
}

// moveCursorCols emits the escape sequence to move the cursor from
// column from to column to, where columns are counted in bytes from the
// start of the editable line (one byte is one column: this module does
// not attempt wide-character-aware column arithmetic).
func moveCursorCols(out *bytes.Buffer, from, to int) {
	switch {
	case to > from:
		fmtCSI(out, to-from, 'C')
	case to < from:
		fmtCSI(out, from-to, 'D')
	}
}

func fmtCSI(out *bytes.Buffer, n int, code byte) {
	out.WriteString("\x1b[")
	writeInt(out, n)
	out.WriteByte(code)
}

func writeInt(out *bytes.Buffer, n int) {
	if n == 0 {
		out.WriteByte('0')
		return
	}
	var digits [20]byte
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	out.Write(digits[i:])
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
