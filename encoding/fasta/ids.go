package fasta

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const unsafeIDChars = "<>[]*;=,"

// IsSafeChar reports whether c may appear in a sequence identifier that is
// written to SAM or VCF headers.  Control characters, non-ASCII characters,
// the space and any of <>[]*;=, are unsafe.
func IsSafeChar(c rune) bool {
	return c > 32 && c < 127 && !strings.ContainsRune(unsafeIDChars, c)
}

// IsSafeID reports whether every character of id is safe.
func IsSafeID(id string) bool {
	for _, c := range id {
		if !IsSafeChar(c) {
			return false
		}
	}
	return true
}

// SanitizeID replaces every unsafe character of id with replacement.  If
// replacement is empty, unsafe characters are percent-encoded instead, one
// upper-case %XX per byte of their UTF-8 encoding.  Bytes that are not valid
// UTF-8 are unsafe characters of their own.
func SanitizeID(id, replacement string) string {
	if IsSafeID(id) {
		return id
	}
	var b strings.Builder
	for i := 0; i < len(id); {
		c, n := utf8.DecodeRuneInString(id[i:])
		switch {
		case IsSafeChar(c):
			b.WriteRune(c)
		case replacement != "":
			b.WriteString(replacement)
		default:
			for j := i; j < i+n; j++ {
				fmt.Fprintf(&b, "%%%02X", id[j])
			}
		}
		i += n
	}
	return b.String()
}
