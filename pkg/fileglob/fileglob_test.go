package fileglob

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pks-os/clink/pkg/match"
	"github.com/pks-os/clink/pkg/must"
	"github.com/pks-os/clink/pkg/word"
)

func lineStateFor(seed string) match.LineState {
	return match.LineState{
		Buffer: []byte(seed),
		Cursor: len(seed),
		Words:  []word.Word{{Offset: 0, Length: 0}},
	}
}

func TestGenerateMatchesPrefixedEntries(t *testing.T) {
	dir := t.TempDir()
	must.CreateEmpty(filepath.Join(dir, "foo.txt"))
	must.CreateEmpty(filepath.Join(dir, "foobar.txt"))
	must.CreateEmpty(filepath.Join(dir, "bar.txt"))

	var store match.Store
	ok := Generator{}.Generate(lineStateFor(filepath.Join(dir, "foo")), &store)
	if !ok {
		t.Fatal("Generate returned false, want true (handled)")
	}

	got := matchTexts(&store)
	want := map[string]bool{
		filepath.Join(dir, "foo.txt"):    true,
		filepath.Join(dir, "foobar.txt"): true,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for _, g := range got {
		if !want[g] {
			t.Fatalf("unexpected match %q", g)
		}
	}
}

func TestGenerateAppendsTrailingSeparatorForDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}
	must.CreateEmpty(filepath.Join(dir, "subfile.txt"))

	var store match.Store
	Generator{}.Generate(lineStateFor(filepath.Join(dir, "sub")), &store)

	got := matchTexts(&store)
	wantDir := filepath.Join(dir, "subdir") + string(filepath.Separator)
	wantFile := filepath.Join(dir, "subfile.txt")

	var haveDir, haveFile bool
	for _, g := range got {
		if g == wantDir {
			haveDir = true
		}
		if g == wantFile {
			haveFile = true
		}
	}
	if !haveDir {
		t.Fatalf("got %v, want an entry %q with trailing separator", got, wantDir)
	}
	if !haveFile {
		t.Fatalf("got %v, want an entry %q with no trailing separator", got, wantFile)
	}
}

func TestGenerateOnEmptyDirectoryIsStillHandled(t *testing.T) {
	dir := t.TempDir()

	var store match.Store
	ok := Generator{}.Generate(lineStateFor(filepath.Join(dir, "nothing")), &store)
	if !ok {
		t.Fatal("Generate returned false, want true (handled, even with zero matches)")
	}
	if store.Len() != 0 {
		t.Fatalf("store.Len() = %d, want 0", store.Len())
	}
}

func matchTexts(s *match.Store) []string {
	var out []string
	for _, m := range s.All() {
		out = append(out, m.Text)
	}
	return out
}
