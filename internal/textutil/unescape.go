package textutil

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var simpleEscapes = map[byte]string{
	'n':  "\n",
	't':  "\t",
	'r':  "\r",
	'b':  "\b",
	'f':  "\f",
	'a':  "\a",
	'v':  "\v",
	'"':  "\"",
	'\'': "'",
	'/':  "/",
	'\\': "\\",
	'\n': "",
}

// DecodeEscapes expands backslash escape sequences (\n, \t, \", \\, \/,
// \uXXXX including surrogate pairs, \xhh) into the characters they denote.
// Unknown or truncated sequences are kept verbatim.
func DecodeEscapes(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			i++
			continue
		}
		next := s[i+1]
		if rep, ok := simpleEscapes[next]; ok {
			b.WriteString(rep)
			i += 2
			continue
		}
		switch next {
		case 'u':
			r, width, ok := decodeUnicode(s[i:])
			if !ok {
				b.WriteString(s[i : i+2])
				i += 2
				continue
			}
			b.WriteRune(r)
			i += width
		case 'x':
			if i+4 <= len(s) {
				if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
					b.WriteRune(rune(v))
					i += 4
					continue
				}
			}
			b.WriteString(s[i : i+2])
			i += 2
		default:
			b.WriteString(s[i : i+2])
			i += 2
		}
	}
	return b.String()
}

// decodeUnicode reads a \uXXXX sequence at the start of s, joining a
// following low surrogate when present.
func decodeUnicode(s string) (rune, int, bool) {
	hi, ok := hex4(s)
	if !ok {
		return 0, 0, false
	}
	if utf16.IsSurrogate(hi) {
		if lo, ok := hex4(s[6:]); ok {
			if r := utf16.DecodeRune(hi, lo); r != utf8.RuneError {
				return r, 12, true
			}
		}
		return utf8.RuneError, 6, true
	}
	return hi, 6, true
}

func hex4(s string) (rune, bool) {
	if len(s) < 6 || s[0] != '\\' || s[1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(s[2:6], 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
