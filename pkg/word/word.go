// Package word tokenizes the command-line buffer into a command segment and
// a sequence of words, honoring configurable delimiter and quote-pair
// policy. It is the piece of the pipeline that decides what the "current
// word" under the cursor is, which is what the match pipeline completes.
package word

// Word is a single token of the active command segment.
type Word struct {
	Offset int
	Length int
	Quoted bool
	Delim  byte
}

// End returns the offset one past the last byte of the prefix w keeps.
func (w Word) End() int { return w.Offset + w.Length }

// Needle returns the portion of the word between its kept prefix and the
// cursor: the substring a match generator's candidates are filtered
// against. It is only meaningful for the end word of a Collect result.
func Needle(buffer []byte, w Word, cursor int) []byte {
	return buffer[w.End():cursor]
}

// Config controls how Collect splits a buffer into command and words. An
// empty CommandDelims means the whole buffer up to the cursor is the
// command. QuoteOpen/QuoteClose of 0 disables quote handling.
type Config struct {
	CommandDelims string
	WordDelims    string
	PartialDelims string
	QuoteOpen     byte
	QuoteClose    byte
}

// Collect splits buffer[:cursor] into a command offset and a list of words.
// The last word in the returned slice is always the "end word": the one the
// cursor is inside of, or an empty word at the cursor if the cursor sits in
// whitespace after the last real word.
func Collect(buffer []byte, cursor int, cfg Config) (commandOffset int, words []Word) {
	commandOffset = findCommandOffset(buffer, cursor, cfg)

	segs := scan(buffer, commandOffset, cursor, cfg.WordDelims, cfg.QuoteOpen, cfg.QuoteClose)
	words = make([]Word, len(segs))
	for i, s := range segs {
		words[i] = Word{Offset: s.start, Length: s.length, Delim: s.delim}
	}

	if len(words) == 0 || words[len(words)-1].End() < cursor {
		words = append(words, Word{Offset: cursor})
	}

	for i := range words {
		adjustQuotes(buffer, &words[i], cfg)
	}

	trimPartial(buffer, &words[len(words)-1], cfg)

	return commandOffset, words
}

func findCommandOffset(buffer []byte, cursor int, cfg Config) int {
	if cfg.CommandDelims == "" {
		return 0
	}
	segs := scan(buffer, 0, cursor, cfg.CommandDelims, cfg.QuoteOpen, cfg.QuoteClose)
	if len(segs) == 0 {
		return cursor
	}
	last := segs[len(segs)-1]
	if last.start+last.length == cursor {
		return last.start
	}
	return cursor
}

func adjustQuotes(buffer []byte, w *Word, cfg Config) {
	if w.Length == 0 || cfg.QuoteOpen == 0 {
		return
	}
	start := w.Offset
	startQuoted := buffer[start] == cfg.QuoteOpen
	endQuoted := false
	if w.Length > 1 {
		endQuoted = buffer[start+w.Length-1] == cfg.QuoteOpen
	}
	if startQuoted {
		w.Offset++
	}
	n := 0
	if startQuoted {
		n++
	}
	if endQuoted {
		n++
	}
	w.Length -= n
	w.Quoted = startQuoted
}

// trimPartial implements the "partial-delimiter trim on end word" rule: it
// shrinks end.Length to cover only the prefix up to and including the last
// partial delimiter in the word, so that a later Needle call sees just the
// tail as the text being completed. E.g. "c:/usr/loc" with partial delims
// "/\\:" keeps a 7-byte prefix ("c:/usr/"), leaving "loc" as the needle.
//
// A word delimiter swallowed by quoting (see adjustQuotes) still counts as a
// partial delimiter here, so a quoted multi-word argument like "hello wo
// keeps "hello " as its prefix and leaves "wo" as the needle.
func trimPartial(buffer []byte, end *Word, cfg Config) {
	delims := cfg.PartialDelims + cfg.WordDelims
	if delims == "" {
		return
	}
	partial := 0
	for j := end.Length - 1; j >= 0; j-- {
		c := buffer[end.Offset+j]
		if indexByte(delims, c) < 0 {
			continue
		}
		partial = j + 1
		break
	}
	end.Length = partial
}

type segment struct {
	start, length int
	delim         byte
}

// scan splits buffer[from:to] on any byte in delims, treating a run between
// quoteOpen and quoteClose as opaque to delimiters. Leading runs of
// delimiters are skipped rather than producing empty tokens.
func scan(buffer []byte, from, to int, delims string, quoteOpen, quoteClose byte) []segment {
	var segs []segment
	i := from
	for i < to {
		for i < to && indexByte(delims, buffer[i]) >= 0 {
			i++
		}
		if i >= to {
			break
		}
		start := i
		quoted := false
		for i < to {
			c := buffer[i]
			if quoteOpen != 0 && !quoted && c == quoteOpen {
				quoted = true
				i++
				continue
			}
			if quoted {
				if c == quoteClose {
					quoted = false
				}
				i++
				continue
			}
			if indexByte(delims, c) >= 0 {
				break
			}
			i++
		}
		if i < to {
			segs = append(segs, segment{start, i - start, buffer[i]})
			i++
		} else {
			segs = append(segs, segment{start, i - start, 0})
		}
	}
	return segs
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
