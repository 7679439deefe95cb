package match

import "github.com/pks-os/clink/pkg/word"

// refreshKey is the two-stage regeneration key from the source's packed
// (word_offset:11, word_length:10, cursor_pos:11) bitfield, kept here as
// plain ints rather than a bitfield: nothing needs the packed
// representation once it's not being stuffed into a single machine word.
type refreshKey struct {
	wordOffset int
	wordLength int
	cursorPos  int
}

// Refresher holds the previous refresh key across calls to Refresh, so it
// can tell generator-worthy changes (the end word's identity) apart from
// filter-worthy changes (the cursor moving within it). The zero Refresher
// has never run, so its first Refresh call always regenerates, mirroring
// the source's all-ones sentinel for the initial key.
type Refresher struct {
	prev  refreshKey
	valid bool
}

// Refresh implements update_internal: it regenerates candidates only when
// the end word's (offset, length) changed since the last call, and
// re-filters/re-sorts whenever the full key (including cursor) changed.
// onMatchesChanged is called exactly when select+sort ran.
func (r *Refresher) Refresh(s *Store, ls LineState, generators []Generator, autoQuoteChars string, onMatchesChanged func()) {
	end := ls.EndWord()
	next := refreshKey{wordOffset: end.Offset, wordLength: end.Length, cursorPos: ls.Cursor}

	genKey := next
	genKey.cursorPos = 0
	prevGenKey := r.prev
	prevGenKey.cursorPos = 0

	if !r.valid || genKey != prevGenKey {
		s.Reset()
		Generate(s, ls, generators)
		s.FillInfo(autoQuoteChars)
	}

	if !r.valid || next != r.prev {
		needle := word.Needle(ls.Buffer, end, ls.Cursor)
		s.Select(string(needle))
		s.Sort()
		r.prev = next
		r.valid = true
		if onMatchesChanged != nil {
			onMatchesChanged()
		}
	}
}
