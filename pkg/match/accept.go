package match

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pks-os/clink/pkg/word"
)

// ApplyConfig carries the bits of Desc the applier needs: the partial
// delimiter set (to decide whether a match closes its token) and the
// quote-pair (to decide whether a match closes an open quote).
type ApplyConfig struct {
	PartialDelims string
	QuoteOpen     byte
	QuoteClose    byte
}

// Apply splices matchText into buffer in place of the end word w, returning
// the new buffer and cursor. It is the sole mutation path for accept_match:
// compose the kept prefix plus the match, clean it if it looks like a
// filesystem path, replace buffer[w.Offset:cursor] with the result, and
// close off the token with a closing quote and/or trailing space unless the
// match's last byte is itself a partial delimiter (meaning the match only
// extends into a deeper subword, e.g. a directory name ending in a
// separator).
func Apply(buffer []byte, cursor int, w word.Word, matchText string, cfg ApplyConfig) ([]byte, int) {
	if matchText == "" {
		return buffer, cursor
	}

	kept := string(buffer[w.Offset:w.End()])
	composed := kept + matchText
	if looksLikePath(composed) {
		composed = cleanPath(composed)
	}

	out := make([]byte, 0, w.Offset+len(composed)+2)
	out = append(out, buffer[:w.Offset]...)
	out = append(out, composed...)
	newCursor := len(out)

	last := matchText[len(matchText)-1]
	if indexByte(cfg.PartialDelims, last) < 0 {
		if w.Offset > 0 && cfg.QuoteOpen != 0 && buffer[w.Offset-1] == cfg.QuoteOpen {
			close := cfg.QuoteClose
			if close == 0 {
				close = cfg.QuoteOpen
			}
			out = append(out, close)
			newCursor++
		}
		out = append(out, ' ')
		newCursor++
	}

	out = append(out, buffer[cursor:]...)
	return out, newCursor
}

// looksLikePath reports whether s names an existing filesystem entry, or
// sits inside a directory that exists, which is the cheapest host probe
// that distinguishes "a path worth cleaning" from an arbitrary completion
// string (a flag name, a history entry, ...).
func looksLikePath(s string) bool {
	if s == "" {
		return false
	}
	if _, err := os.Stat(s); err == nil {
		return true
	}
	dir := filepath.Dir(normalizeSeparators(s))
	if dir == "" || dir == "." {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

func cleanPath(s string) string {
	trailingSep := strings.HasSuffix(s, "/") || strings.HasSuffix(s, `\`)
	cleaned := filepath.Clean(normalizeSeparators(s))
	if trailingSep && !strings.HasSuffix(cleaned, string(filepath.Separator)) {
		cleaned += string(filepath.Separator)
	}
	return cleaned
}

func normalizeSeparators(s string) string {
	if filepath.Separator == '/' {
		return strings.ReplaceAll(s, `\`, "/")
	}
	return strings.ReplaceAll(s, "/", `\`)
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
