// Package chord translates human-readable key-chord notation into the raw
// byte sequence a terminal would actually send for that chord.
//
// The notation is the one traditionally used by readline-alikes:
//
//	\M-X   meta/alt: prepend 0x1b to the single following byte X
//	\C-X   control: X & 0x1f
//	^X     control: X & 0x1f
//	\e \t \n \r \0   single-byte escapes
//	\Y     any other escaped byte is taken literally
package chord

import "golang.org/x/xerrors"

// MaxLen is the maximum length, in bytes, of a translated chord. Chord text
// translating to more bytes than this fails with ErrTooLong.
const MaxLen = 64

var (
	// ErrTooLong is returned when the translated chord would exceed MaxLen.
	ErrTooLong = xerrors.New("chord: translated chord too long")
	// ErrNonASCII is returned when the chord notation contains a byte with
	// the high bit set.
	ErrNonASCII = xerrors.New("chord: non-ASCII byte in chord notation")
	// ErrTruncated is returned when the notation ends in the middle of an
	// escape.
	ErrTruncated = xerrors.New("chord: truncated escape at end of chord")
	// ErrBadModifier is returned when \M or \C is not followed by '-'.
	ErrBadModifier = xerrors.New("chord: \\M or \\C not followed by '-'")
)

// Translate converts chord notation into the raw bytes it denotes.
func Translate(text string) ([]byte, error) {
	for i := 0; i < len(text); i++ {
		if text[i] >= 0x80 {
			return nil, ErrNonASCII
		}
	}

	out := make([]byte, 0, len(text))
	i := 0
	for i < len(text) {
		switch c := text[i]; c {
		case '^':
			if i+1 >= len(text) {
				return nil, ErrTruncated
			}
			out = append(out, text[i+1]&0x1f)
			i += 2

		case '\\':
			i++
			if i >= len(text) {
				return nil, ErrTruncated
			}
			switch y := text[i]; y {
			case 'M':
				if i+1 >= len(text) || text[i+1] != '-' {
					return nil, ErrBadModifier
				}
				if i+2 >= len(text) {
					return nil, ErrTruncated
				}
				out = append(out, 0x1b, text[i+2])
				i += 3
			case 'C':
				if i+1 >= len(text) || text[i+1] != '-' {
					return nil, ErrBadModifier
				}
				if i+2 >= len(text) {
					return nil, ErrTruncated
				}
				out = append(out, text[i+2]&0x1f)
				i += 3
			case 'e':
				out = append(out, 0x1b)
				i++
			case 't':
				out = append(out, '\t')
				i++
			case 'n':
				out = append(out, '\n')
				i++
			case 'r':
				out = append(out, '\r')
				i++
			case '0':
				out = append(out, 0)
				i++
			default:
				out = append(out, y)
				i++
			}

		default:
			out = append(out, c)
			i++
		}

		if len(out) > MaxLen {
			return nil, ErrTooLong
		}
	}

	return out, nil
}
