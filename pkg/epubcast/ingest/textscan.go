package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsSpace reports whether r is whitespace for scanning purposes: Unicode
// White_Space plus the BOM (U+FEFF), minus NEL (U+0085). This is the set
// browsers use for \s, which book text copied from web sources relies on.
func IsSpace(r rune) bool {
	switch r {
	case '\ufeff':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

// TrimSpace trims IsSpace runes from both ends of s.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

// isWordByte reports whether b is an ASCII word character [A-Za-z0-9_].
// Word boundaries are ASCII-only: accented letters do not join words.
func isWordByte(b byte) bool {
	return b == '_' || isUpper(b) || isLower(b) || (b >= '0' && b <= '9')
}

func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }

// wordBefore reports whether the byte before i is a word character.
func wordBefore(s string, i int) bool {
	return i > 0 && isWordByte(s[i-1])
}

// wordAt reports whether the byte at i is a word character.
func wordAt(s string, i int) bool {
	return i < len(s) && isWordByte(s[i])
}

// lowerRun returns the end of the run of ASCII lower-case letters starting at i.
func lowerRun(s string, i int) int {
	for i < len(s) && isLower(s[i]) {
		i++
	}
	return i
}

// spaceRun returns the end of the run of IsSpace runes starting at i.
func spaceRun(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

// ContainsWord reports whether word occurs in s between two word boundaries,
// comparing ASCII letters case-insensitively and every other byte exactly.
func ContainsWord(s, word string) bool {
	if word == "" {
		return false
	}
	n := len(word)
	for i := 0; i+n <= len(s); i++ {
		if !asciiEqualFold(s[i:i+n], word) {
			continue
		}
		if wordBefore(s, i) == isWordByte(word[0]) {
			continue
		}
		if wordAt(s, i+n) == isWordByte(word[n-1]) {
			continue
		}
		return true
	}
	return false
}

// asciiEqualFold compares equal-length strings, folding only ASCII letters.
func asciiEqualFold(a, b string) bool {
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca == cb {
			continue
		}
		if isUpper(ca) {
			ca += 'a' - 'A'
		}
		if isUpper(cb) {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
