package match

import "testing"

type staticGenerator struct {
	texts   []string
	handled bool
}

func (g staticGenerator) Generate(ls LineState, b Builder) bool {
	for _, t := range g.texts {
		b.AddMatch(t)
	}
	return g.handled
}

func TestSelectKeepsCaseInsensitivePrefix(t *testing.T) {
	var s Store
	for _, m := range []string{"Foobar", "foobaz", "Bar"} {
		s.AddMatch(m)
	}
	s.Select("foo")
	got := s.All()
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2: %+v", len(got), got)
	}
	for _, m := range got {
		if len(m.Text) < 3 || (m.Text[:3] != "Foo" && m.Text[:3] != "foo") {
			t.Fatalf("match %q does not have a foo prefix", m.Text)
		}
	}
}

func TestSortIsCaseInsensitiveStableAscending(t *testing.T) {
	var s Store
	for _, m := range []string{"banana", "Apple", "apple", "Cherry"} {
		s.AddMatch(m)
	}
	s.Sort()
	var order []string
	for _, m := range s.All() {
		order = append(order, m.Text)
	}
	want := []string{"Apple", "apple", "banana", "Cherry"}
	for i, w := range want {
		if order[i] != w {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestFillInfoMarksAutoQuoteCandidates(t *testing.T) {
	var s Store
	s.AddMatch("has space")
	s.AddMatch("nospace")
	s.FillInfo(" ")
	all := s.All()
	if !all[0].AutoQuote {
		t.Fatalf("%q should be marked auto-quote", all[0].Text)
	}
	if all[1].AutoQuote {
		t.Fatalf("%q should not be marked auto-quote", all[1].Text)
	}
}

func TestGenerateStopsAtFirstHandler(t *testing.T) {
	var s Store
	first := staticGenerator{texts: []string{"a"}, handled: true}
	second := staticGenerator{texts: []string{"b"}, handled: true}
	Generate(&s, LineState{}, []Generator{first, second})
	if got := s.All(); len(got) != 1 || got[0].Text != "a" {
		t.Fatalf("got %+v, want only %q from the first generator", got, "a")
	}
}

func TestGenerateTriesNextWhenNotHandled(t *testing.T) {
	var s Store
	first := staticGenerator{texts: nil, handled: false}
	second := staticGenerator{texts: []string{"b"}, handled: true}
	Generate(&s, LineState{}, []Generator{first, second})
	if got := s.All(); len(got) != 1 || got[0].Text != "b" {
		t.Fatalf("got %+v, want only %q from the second generator", got, "b")
	}
}

func TestResetClearsStore(t *testing.T) {
	var s Store
	s.AddMatch("x")
	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after Reset", s.Len())
	}
}
