package linebuf

import (
	"bytes"
	"testing"
)

func TestBeginLineWritesPromptAndResets(t *testing.T) {
	var out bytes.Buffer
	b := New(&out)
	b.BeginLine([]byte("$ "))

	if out.String() != "$ " {
		t.Fatalf("out = %q, want prompt written verbatim", out.String())
	}
	if len(b.Bytes()) != 0 || b.Cursor() != 0 {
		t.Fatalf("line = %q cursor = %d, want empty/0 after BeginLine", b.Bytes(), b.Cursor())
	}
}

func TestInsertRemoveCursorBookkeeping(t *testing.T) {
	var out bytes.Buffer
	b := New(&out)
	b.BeginLine(nil)

	b.Insert([]byte("foo"))
	if string(b.Bytes()) != "foo" || b.Cursor() != 3 {
		t.Fatalf("after Insert: line=%q cursor=%d", b.Bytes(), b.Cursor())
	}

	b.SetCursor(1)
	b.Insert([]byte("X"))
	if string(b.Bytes()) != "fXoo" || b.Cursor() != 2 {
		t.Fatalf("after mid-line Insert: line=%q cursor=%d", b.Bytes(), b.Cursor())
	}

	b.Remove(1, 2) // drop the X
	if string(b.Bytes()) != "foo" || b.Cursor() != 1 {
		t.Fatalf("after Remove spanning cursor: line=%q cursor=%d", b.Bytes(), b.Cursor())
	}

	b.SetCursor(3)
	b.Remove(0, 3)
	if string(b.Bytes()) != "" || b.Cursor() != 0 {
		t.Fatalf("after removing the whole line: line=%q cursor=%d", b.Bytes(), b.Cursor())
	}
}

func TestDrawWritesFullLineOnFirstCall(t *testing.T) {
	var out bytes.Buffer
	b := New(&out)
	b.BeginLine(nil)
	b.Insert([]byte("foo"))
	out.Reset()

	b.Draw()

	want := hideCursor + eraseToEOL + "foo" + showCursor
	if out.String() != want {
		t.Fatalf("Draw output = %q, want %q", out.String(), want)
	}
}

func TestDrawRewritesOnlyChangedSuffix(t *testing.T) {
	var out bytes.Buffer
	b := New(&out)
	b.BeginLine(nil)
	b.Insert([]byte("foobar"))
	out.Reset()
	b.Draw() // establishes "foobar" as shown, cursor at 6

	b.Remove(5, 6)        // "fooba", cursor -> 5
	b.Insert([]byte("z")) // "foobaz", cursor -> 6
	out.Reset()

	b.Draw()

	want := hideCursor + "\x1b[1D" + eraseToEOL + "z" + showCursor
	if out.String() != want {
		t.Fatalf("Draw output = %q, want %q", out.String(), want)
	}
}

func TestRedrawAlwaysRewritesWholeLine(t *testing.T) {
	var out bytes.Buffer
	b := New(&out)
	b.BeginLine(nil)
	b.Insert([]byte("foobar"))
	b.Draw()
	out.Reset()

	b.Redraw()

	// Redraw forces n=0, so it also has to walk the cursor back from
	// column 6 (where the prior Draw left it) to column 0 before
	// rewriting, unlike Draw's diff-based moves.
	want := hideCursor + "\x1b[6D" + eraseToEOL + "foobar" + showCursor
	if out.String() != want {
		t.Fatalf("Redraw output = %q, want %q", out.String(), want)
	}
}

func TestEndLineMovesToNextRow(t *testing.T) {
	var out bytes.Buffer
	b := New(&out)
	b.BeginLine([]byte("$ "))
	out.Reset()

	b.EndLine()

	if out.String() != "\r\n" {
		t.Fatalf("EndLine output = %q, want %q", out.String(), "\r\n")
	}
}
