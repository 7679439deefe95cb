package match

import (
	"testing"

	"github.com/pks-os/clink/pkg/word"
)

func lineState(buf string, cursor int, end word.Word) LineState {
	return LineState{Buffer: []byte(buf), Cursor: cursor, Words: []word.Word{end}}
}

func TestRefreshRegeneratesOnlyWhenEndWordChanges(t *testing.T) {
	calls := 0
	gen := countingGenerator{texts: []string{"foobar", "foobaz"}, calls: &calls}

	var s Store
	var r Refresher
	ls := lineState("foo", 3, word.Word{Offset: 0, Length: 0})
	r.Refresh(&s, ls, []Generator{&gen}, "", nil)
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	// Cursor moves within the same end word: no regeneration.
	ls2 := lineState("foo", 2, word.Word{Offset: 0, Length: 0})
	r.Refresh(&s, ls2, []Generator{&gen}, "", nil)
	if calls != 1 {
		t.Fatalf("calls = %d after cursor move, want still 1", calls)
	}

	// End word identity changes: regeneration happens again.
	ls3 := lineState("foobar", 6, word.Word{Offset: 3, Length: 0})
	r.Refresh(&s, ls3, []Generator{&gen}, "", nil)
	if calls != 2 {
		t.Fatalf("calls = %d after word change, want 2", calls)
	}
}

func TestRefreshSelectsAndSortsOnCursorMove(t *testing.T) {
	var s Store
	var r Refresher
	gen := staticGenerator{texts: []string{"foobar", "foobaz", "barqux"}, handled: true}

	notified := 0
	ls := lineState("foo", 3, word.Word{Offset: 0, Length: 0})
	r.Refresh(&s, ls, []Generator{gen}, "", func() { notified++ })
	if notified != 1 {
		t.Fatalf("notified = %d, want 1", notified)
	}
	if got := s.All(); len(got) != 2 {
		t.Fatalf("got %+v, want 2 matches starting with foo", got)
	}

	// Cursor moves within the same end word: select+sort run again and
	// observers are notified, without regenerating.
	ls2 := lineState("foo", 2, word.Word{Offset: 0, Length: 0})
	r.Refresh(&s, ls2, []Generator{gen}, "", func() { notified++ })
	if notified != 2 {
		t.Fatalf("notified = %d after cursor move, want 2", notified)
	}
	if got := s.All(); len(got) != 2 || got[0].Text != "foobar" || got[1].Text != "foobaz" {
		t.Fatalf("got %+v, want [foobar foobaz] in sorted order", got)
	}
}

type countingGenerator struct {
	texts []string
	calls *int
}

func (g *countingGenerator) Generate(ls LineState, b Builder) bool {
	*g.calls++
	for _, t := range g.texts {
		b.AddMatch(t)
	}
	return true
}
