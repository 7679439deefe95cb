// Package match holds the completion candidate pipeline: a store of
// candidate strings with filter/sort state, the generator contract that
// fills it, and the accept-match applier that splices a chosen candidate
// back into the line buffer.
package match

import (
	"sort"
	"strings"

	"github.com/pks-os/clink/pkg/word"
)

// Match is a single completion candidate plus metadata a backend may use
// when deciding how to present or insert it.
type Match struct {
	Text      string
	AutoQuote bool
}

// LineState is the immutable snapshot handed to generators: the full
// buffer, the cursor, where the active command starts, and its words.
type LineState struct {
	Buffer        []byte
	Cursor        int
	CommandOffset int
	Words         []word.Word
}

// EndWord returns the last word in the snapshot, the one under the cursor.
func (ls LineState) EndWord() word.Word { return ls.Words[len(ls.Words)-1] }

// Builder is the append-only interface a Generator fills. It is a distinct
// type from Store so that a generator cannot read back or mutate matches
// other generators have already added.
type Builder interface {
	AddMatch(text string)
}

// Generator produces candidates for a line state. It returns true if it
// "handled" the request, in which case the pipeline stops trying further
// generators registered after it.
type Generator interface {
	Generate(ls LineState, b Builder) bool
}

// Store holds the current candidate set along with its filter/sort state.
// Zero value is an empty, usable store.
type Store struct {
	matches []Match
}

// Reset clears the store. Called at the start of every regeneration so a
// generator that returns false without adding anything leaves no stale
// candidates behind.
func (s *Store) Reset() { s.matches = s.matches[:0] }

// AddMatch implements Builder.
func (s *Store) AddMatch(text string) {
	s.matches = append(s.matches, Match{Text: text})
}

// Len returns the number of matches currently held.
func (s *Store) Len() int { return len(s.matches) }

// At returns the match at index i. The driver and backends use this rather
// than a full slice copy so accept_match's bounds check stays cheap.
func (s *Store) At(i int) (Match, bool) {
	if i < 0 || i >= len(s.matches) {
		return Match{}, false
	}
	return s.matches[i], true
}

// All returns the current matches. Callers must not retain the slice past
// the next mutating call on s.
func (s *Store) All() []Match { return s.matches }

// Select retains only matches that have needle as a case-insensitive,
// byte-wise ASCII prefix. An empty needle keeps every match.
func (s *Store) Select(needle string) {
	if needle == "" {
		return
	}
	kept := s.matches[:0]
	for _, m := range s.matches {
		if hasPrefixFold(m.Text, needle) {
			kept = append(kept, m)
		}
	}
	s.matches = kept
}

// Sort orders matches lexicographically, ASCII case-insensitive, stable on
// ties (so generator order survives among otherwise-equal candidates).
func (s *Store) Sort() {
	sort.SliceStable(s.matches, func(i, j int) bool {
		return strings.ToLower(s.matches[i].Text) < strings.ToLower(s.matches[j].Text)
	})
}

// FillInfo annotates every match with whether its text contains any byte
// from autoQuoteChars, so a backend can decide whether to wrap the
// inserted text in quotes.
func (s *Store) FillInfo(autoQuoteChars string) {
	if autoQuoteChars == "" {
		return
	}
	for i := range s.matches {
		s.matches[i].AutoQuote = strings.ContainsAny(s.matches[i].Text, autoQuoteChars)
	}
}

func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return strings.EqualFold(s[:len(prefix)], prefix)
}

// Generate runs generate(line_state, generators) against the store: it
// invokes each generator in registration order until one returns true (or
// the list is exhausted), matching the source's "first-wins" convention
// without silently changing to "run all generators".
func Generate(s *Store, ls LineState, generators []Generator) {
	for _, g := range generators {
		if g.Generate(ls, s) {
			return
		}
	}
}
