package chord

import (
	"bytes"
	"testing"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []byte
		err  error
	}{
		{"plain ascii round-trips", "abc", []byte("abc"), nil},
		{"digits and punctuation round-trip", "a1-_.", []byte("a1-_."), nil},
		{"meta a", `\M-a`, []byte{0x1b, 'a'}, nil},
		{"control a via C", `\C-a`, []byte{0x01}, nil},
		{"control a via caret", "^a", []byte{0x01}, nil},
		{"csi up arrow", `\e[A`, []byte{0x1b, '[', 'A'}, nil},
		{"tab newline return nul", `\t\n\r\0`, []byte{'\t', '\n', '\r', 0}, nil},
		{"other escape is literal", `\x`, []byte{'x'}, nil},
		{"trailing lone backslash", `abc\`, nil, ErrTruncated},
		{"bad M modifier", `\Mx`, nil, ErrBadModifier},
		{"bad C modifier", `\Cx`, nil, ErrBadModifier},
		{"truncated meta", `\M-`, nil, ErrTruncated},
		{"truncated control", `\C-`, nil, ErrTruncated},
		{"truncated caret", "^", nil, ErrTruncated},
		{"non-ascii byte rejected", "\xff", nil, ErrNonASCII},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Translate(tc.in)
			if tc.err != nil {
				if err != tc.err {
					t.Fatalf("Translate(%q) error = %v, want %v", tc.in, err, tc.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Translate(%q) unexpected error: %v", tc.in, err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("Translate(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTranslateTooLong(t *testing.T) {
	long := make([]byte, MaxLen+2)
	for i := range long {
		long[i] = 'a'
	}
	_, err := Translate(string(long))
	if err != ErrTooLong {
		t.Fatalf("Translate(long) error = %v, want %v", err, ErrTooLong)
	}
}
