// Package fileglob is the default match.Generator: it globs the
// filesystem for entries whose name has the current end word as a
// prefix, per the file-completion convention the rest of the toolkit
// uses (see complete/generators.go's generateFileNames), but delegates
// the actual matching to pkg/glob rather than a hand-rolled prefix scan,
// so directory patterns with embedded slashes resolve the same way any
// other glob in this toolkit would.
package fileglob

import (
	"os"

	"github.com/pks-os/clink/pkg/glob"
	"github.com/pks-os/clink/pkg/match"
)

// Generator globs the end word's directory for entries matching the end
// word followed by a trailing "*"; wildcard characters typed in the end
// word keep their glob meaning. Each match is reported relative to the end
// word's kept prefix (the part up to its last partial delimiter), since
// the accept-match applier puts that prefix back in front of it. It is
// meant to be registered last, since it always reports having handled the
// request.
type Generator struct{}

// Generate implements match.Generator.
func (Generator) Generate(ls match.LineState, b match.Builder) bool {
	end := ls.EndWord()
	kept := string(ls.Buffer[end.Offset:end.End()])
	seed := string(ls.Buffer[end.Offset:ls.Cursor])

	glob.Glob(seed+"*", func(path string) bool {
		if isDir(path) {
			path += "/"
		}
		if len(path) >= len(kept) && path[:len(kept)] == kept {
			path = path[len(kept):]
		}
		b.AddMatch(path)
		return true
	})
	return true
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
