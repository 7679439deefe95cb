// Package rlbackend is the default Backend: conventional single-line,
// emacs-style editing (cursor motion, kill/delete, transpose) plus a
// Tab-driven completion cycle built on pkg/match, and Enter/Ctrl-D to
// finish the line. It is the fallback backend the driver dispatches to
// on a resolver miss, so it must tolerate being invoked with an unbound
// chord's raw bytes and insert them literally.
package rlbackend

import (
	"unicode/utf8"

	"github.com/pks-os/clink/pkg/lineedit"
)

var _ lineedit.Backend = (*Backend)(nil)

const (
	idMoveLeft byte = iota + 1
	idMoveRight
	idHome
	idEnd
	idBackspace
	idDeleteRight
	idDeleteOrEOF
	idKillToEOL
	idTranspose
	idComplete
	idDone
)

// Backend is the default readline-style editing backend. The zero value
// is ready to use.
type Backend struct {
	cycle completionCycle
}

type completionCycle struct {
	active       bool
	replaceStart int
	index        int
}

// BindInput registers the default emacs-ish chord set: arrow keys and
// their Ctrl-B/Ctrl-F/Ctrl-A/Ctrl-E equivalents for motion, Backspace/
// Ctrl-H for delete-left, Delete/Ctrl-D for delete-right (Ctrl-D on an
// empty line signals eof), Ctrl-K to kill to end of line, Ctrl-T to
// transpose, Tab to cycle completions, and Enter to finish the line.
func (b *Backend) BindInput(v lineedit.BinderView) error {
	binds := []struct {
		chord string
		id    byte
	}{
		{`\e[D`, idMoveLeft}, {"\x02", idMoveLeft},
		{`\e[C`, idMoveRight}, {"\x06", idMoveRight},
		{`\e[H`, idHome}, {"\x01", idHome},
		{`\e[F`, idEnd}, {"\x05", idEnd},
		{"\x7f", idBackspace}, {"\x08", idBackspace},
		{`\e[3~`, idDeleteRight},
		{"\x04", idDeleteOrEOF},
		{"\x0b", idKillToEOL},
		{"\x14", idTranspose},
		{"\t", idComplete},
		{"\r", idDone}, {"\n", idDone},
	}
	for _, bnd := range binds {
		if err := v.Bind(bnd.chord, bnd.id); err != nil {
			return err
		}
	}
	return nil
}

func (b *Backend) OnBeginLine(prompt []byte, ctx *lineedit.Context) { b.cycle = completionCycle{} }
func (b *Backend) OnEndLine()                                       {}
func (b *Backend) OnMatchesChanged(ctx *lineedit.Context)           {}

// OnInput dispatches on id. An unbound chord (the resolver-miss fallback
// path, where the driver passes id as the byte form of -1) falls through
// to literal insertion, same as any editor that didn't recognize the
// input would do.
func (b *Backend) OnInput(keys []byte, id byte, ctx *lineedit.Context) lineedit.Result {
	if id != idComplete {
		b.cycle = completionCycle{}
	}

	switch id {
	case idMoveLeft:
		moveRuneLeft(ctx)
	case idMoveRight:
		moveRuneRight(ctx)
	case idHome:
		ctx.Buffer.SetCursor(0)
	case idEnd:
		ctx.Buffer.SetCursor(len(ctx.Buffer.Bytes()))
	case idBackspace:
		killRuneLeft(ctx)
	case idDeleteRight:
		killRuneRight(ctx)
	case idDeleteOrEOF:
		if len(ctx.Buffer.Bytes()) == 0 {
			return lineedit.ResultEOF()
		}
		killRuneRight(ctx)
	case idKillToEOL:
		ctx.Buffer.Remove(ctx.Buffer.Cursor(), len(ctx.Buffer.Bytes()))
	case idTranspose:
		transposeRune(ctx)
	case idComplete:
		return b.complete(ctx)
	case idDone:
		return lineedit.ResultDone()
	default:
		ctx.Buffer.Insert(keys)
	}
	return lineedit.ResultNext()
}

// complete drives the Tab completion cycle: the first Tab accepts the
// best match, and each subsequent Tab (while nothing else has been typed
// or moved) replaces it with the next match in the current set, wrapping
// around. Before every accept after the first it cuts the buffer back to
// the end word's kept prefix (removing the previous insertion along with
// the text typed before the first Tab), so the driver re-derives the same
// end word for each accept.
func (b *Backend) complete(ctx *lineedit.Context) lineedit.Result {
	if ctx.Matches.Len() == 0 {
		return lineedit.ResultNext()
	}
	if !b.cycle.active {
		b.cycle = completionCycle{active: true, replaceStart: ctx.Line.EndWord().End()}
	} else {
		ctx.Buffer.Remove(b.cycle.replaceStart, ctx.Buffer.Cursor())
		ctx.Buffer.SetCursor(b.cycle.replaceStart)
		b.cycle.index = (b.cycle.index + 1) % ctx.Matches.Len()
	}
	return lineedit.ResultAcceptMatch(b.cycle.index)
}

func moveRuneLeft(ctx *lineedit.Context) {
	cursor := ctx.Buffer.Cursor()
	if cursor == 0 {
		return
	}
	_, w := utf8.DecodeLastRune(ctx.Buffer.Bytes()[:cursor])
	ctx.Buffer.SetCursor(cursor - w)
}

func moveRuneRight(ctx *lineedit.Context) {
	line := ctx.Buffer.Bytes()
	cursor := ctx.Buffer.Cursor()
	if cursor >= len(line) {
		return
	}
	_, w := utf8.DecodeRune(line[cursor:])
	ctx.Buffer.SetCursor(cursor + w)
}

func killRuneLeft(ctx *lineedit.Context) {
	cursor := ctx.Buffer.Cursor()
	if cursor == 0 {
		return
	}
	_, w := utf8.DecodeLastRune(ctx.Buffer.Bytes()[:cursor])
	ctx.Buffer.Remove(cursor-w, cursor)
}

func killRuneRight(ctx *lineedit.Context) {
	line := ctx.Buffer.Bytes()
	cursor := ctx.Buffer.Cursor()
	if cursor >= len(line) {
		return
	}
	_, w := utf8.DecodeRune(line[cursor:])
	ctx.Buffer.Remove(cursor, cursor+w)
}

// transposeRune swaps the rune before the cursor with the rune at the
// cursor. At the start of the line it swaps the first two runes and
// leaves the cursor after them; at the end it swaps the last two runes
// and leaves the cursor in place; in the middle it swaps the rune before
// the cursor with the rune at the cursor and advances past the pair.
func transposeRune(ctx *lineedit.Context) {
	line := ctx.Buffer.Bytes()
	cursor := ctx.Buffer.Cursor()
	if len(line) < 2 {
		return
	}

	var left, mid, right int
	switch {
	case cursor == 0:
		_, w1 := utf8.DecodeRune(line)
		_, w2 := utf8.DecodeRune(line[w1:])
		left, mid, right = 0, w1, w1+w2
	case cursor >= len(line):
		_, w2 := utf8.DecodeLastRune(line)
		_, w1 := utf8.DecodeLastRune(line[:len(line)-w2])
		left, mid, right = len(line)-w1-w2, len(line)-w2, len(line)
	default:
		_, w1 := utf8.DecodeLastRune(line[:cursor])
		_, w2 := utf8.DecodeRune(line[cursor:])
		left, mid, right = cursor-w1, cursor, cursor+w2
	}

	first := append([]byte(nil), line[left:mid]...)
	second := append([]byte(nil), line[mid:right]...)
	swapped := append(second, first...)

	ctx.Buffer.Remove(left, right)
	ctx.Buffer.SetCursor(left)
	ctx.Buffer.Insert(swapped)
	ctx.Buffer.SetCursor(right)
}
