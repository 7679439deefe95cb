package rlbackend

import (
	"bytes"
	"testing"

	"github.com/pks-os/clink/pkg/lineedit"
	"github.com/pks-os/clink/pkg/linebuf"
	"github.com/pks-os/clink/pkg/match"
)

// fakeTerminal feeds a fixed byte sequence and then reports eof.
type fakeTerminal struct {
	in  []byte
	pos int
}

func (t *fakeTerminal) Begin() error { return nil }
func (t *fakeTerminal) End() error   { return nil }
func (t *fakeTerminal) Select() error { return nil }
func (t *fakeTerminal) Read() (byte, bool, error) {
	if t.pos >= len(t.in) {
		return 0, true, nil
	}
	b := t.in[t.pos]
	t.pos++
	return b, false, nil
}
func (t *fakeTerminal) Write(p []byte) (int, error) { return len(p), nil }

type staticGenerator []string

func (g staticGenerator) Generate(ls match.LineState, b match.Builder) bool {
	for _, s := range g {
		b.AddMatch(s)
	}
	return true
}

func newDriver(t *testing.T, input []byte, gens ...lineedit.Generator) (*lineedit.Driver, *linebuf.Buffer) {
	t.Helper()
	b := &Backend{}
	d, err := lineedit.Create(lineedit.Desc{
		Terminal:   &fakeTerminal{in: input},
		WordDelims: " ",
	}, b)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	buf := linebuf.New(&bytes.Buffer{})
	d.SetBuffer(buf)
	for _, g := range gens {
		d.AddGenerator(g)
	}
	return d, buf
}

func runEdit(t *testing.T, d *lineedit.Driver) (string, bool) {
	t.Helper()
	var out []byte
	ok, err := d.Edit(&out)
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	return string(out), ok
}

func TestMotionAndBackspace(t *testing.T) {
	// Type "abc", move left twice (to before 'b'), backspace once (drops
	// 'a'), then Enter.
	d, _ := newDriver(t, []byte("abc\x02\x02\x7f\r"))
	out, ok := runEdit(t, d)
	if !ok {
		t.Fatal("Edit returned false, want true")
	}
	if out != "bc" {
		t.Fatalf("out = %q, want %q", out, "bc")
	}
}

func TestHomeEndDeleteRight(t *testing.T) {
	// Type "abc", Home, forward-delete once (drops 'a'), End, then Enter.
	d, _ := newDriver(t, []byte("abc\x01\x1b[3~\x05\r"))
	out, ok := runEdit(t, d)
	if !ok {
		t.Fatal("Edit returned false, want true")
	}
	if out != "bc" {
		t.Fatalf("out = %q, want %q", out, "bc")
	}
}

func TestKillToEOL(t *testing.T) {
	// Type "abcdef", Home, move right twice, kill to end of line, Enter.
	d, _ := newDriver(t, []byte("abcdef\x01\x06\x06\x0b\r"))
	out, ok := runEdit(t, d)
	if !ok {
		t.Fatal("Edit returned false, want true")
	}
	if out != "ab" {
		t.Fatalf("out = %q, want %q", out, "ab")
	}
}

func TestDeleteOrEOFOnEmptyLineReportsEOF(t *testing.T) {
	d, _ := newDriver(t, []byte("\x04"))
	_, ok := runEdit(t, d)
	if ok {
		t.Fatal("Edit returned true, want false (eof)")
	}
}

func TestDeleteOrEOFOnNonEmptyLineDeletesRight(t *testing.T) {
	// Home, then Ctrl-D deletes the character under the cursor rather
	// than signalling eof, since the line isn't empty.
	d, _ := newDriver(t, []byte("abc\x01\x04\r"))
	out, ok := runEdit(t, d)
	if !ok {
		t.Fatal("Edit returned false, want true")
	}
	if out != "bc" {
		t.Fatalf("out = %q, want %q", out, "bc")
	}
}

func TestUnboundByteInsertsLiteral(t *testing.T) {
	d, _ := newDriver(t, []byte("hi!\r"))
	out, ok := runEdit(t, d)
	if !ok {
		t.Fatal("Edit returned false, want true")
	}
	if out != "hi!" {
		t.Fatalf("out = %q, want %q", out, "hi!")
	}
}

// Transpose cases, derived from the reference implementation's own test
// table: at the start of the line the first two runes swap and the
// cursor ends up after them; in the middle the rune before and at the
// cursor swap and the cursor advances past the pair; at the end the last
// two runes swap and the cursor stays put.
func TestTransposeRune(t *testing.T) {
	cases := []struct {
		name     string
		line     string
		cursor   int
		wantLine string
	}{
		{name: "start", line: "ab", cursor: 0, wantLine: "ba"},
		{name: "middle", line: "abc", cursor: 1, wantLine: "bac"},
		{name: "end", line: "abc", cursor: 3, wantLine: "acb"},
		{name: "too-short-noop", line: "a", cursor: 1, wantLine: "a"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// Build the line via literal insertion, then move the cursor to
			// the case's starting position using Home plus right-moves,
			// since the backend has no direct "set cursor" chord.
			input := []byte(c.line)
			input = append(input, 0x01) // Home
			for i := 0; i < c.cursor; i++ {
				input = append(input, 0x06) // Ctrl-F, one rune right
			}
			input = append(input, 0x14) // Ctrl-T, transpose
			input = append(input, '\r')

			d, _ := newDriver(t, input)
			out, ok := runEdit(t, d)
			if !ok {
				t.Fatal("Edit returned false, want true")
			}
			if out != c.wantLine {
				t.Fatalf("out = %q, want %q", out, c.wantLine)
			}
		})
	}
}

func TestCompletionCycleAcceptsThenCyclesOnRepeatedTab(t *testing.T) {
	gen := staticGenerator{"apple", "apricot"}
	d, _ := newDriver(t, []byte("a\t\t\r"), gen)
	out, ok := runEdit(t, d)
	if !ok {
		t.Fatal("Edit returned false, want true")
	}
	// First Tab accepts the sorted-first match ("apple"), the second Tab
	// cycles to the next one ("apricot"), both followed by the trailing
	// space match.Apply adds after a full-word completion.
	if out != "apricot " {
		t.Fatalf("out = %q, want %q", out, "apricot ")
	}
}

func TestCompletionCycleWrapsAround(t *testing.T) {
	gen := staticGenerator{"apple", "apricot"}
	d, _ := newDriver(t, []byte("a\t\t\t\r"), gen)
	out, ok := runEdit(t, d)
	if !ok {
		t.Fatal("Edit returned false, want true")
	}
	// Three Tabs over two matches wraps back to the first.
	if out != "apple " {
		t.Fatalf("out = %q, want %q", out, "apple ")
	}
}

func TestTabWithNoMatchesIsNoop(t *testing.T) {
	d, _ := newDriver(t, []byte("zz\t\r"))
	out, ok := runEdit(t, d)
	if !ok {
		t.Fatal("Edit returned false, want true")
	}
	if out != "zz" {
		t.Fatalf("out = %q, want %q", out, "zz")
	}
}
