package ical

import (
	"strings"
	"unicode/utf8"
)

const (
	// maxLineOctets is the RFC 5545 limit on a physical content line.
	maxLineOctets = 75
	// contLineOctets is the budget of a continuation line; the leading
	// continuation space consumes the 75th octet.
	contLineOctets = 74
)

// FoldLine splits a logical content line into physical lines of at most
// 75 octets of its UTF-8 encoding, joined by CRLF plus a single space of
// continuation whitespace. Lines are only ever split between code points,
// so a multi-byte sequence never straddles two physical lines.
//
// Returns ErrInvalidEncoding if line is not valid UTF-8; that is the only
// failure mode.
func FoldLine(line string) (string, error) {
	if !utf8.ValidString(line) {
		return "", ErrInvalidEncoding
	}
	if len(line) <= maxLineOctets {
		return line, nil
	}

	var b strings.Builder
	b.Grow(len(line) + 3*(len(line)/contLineOctets+1))

	// Fold state: remaining budget of the current physical line and the
	// octets already emitted into it. Threaded explicitly so concurrent
	// callers never share accumulator state.
	budget := maxLineOctets
	used := 0

	for _, r := range line {
		n := utf8.RuneLen(r)
		if used+n > budget {
			b.WriteString("\r\n ")
			budget = contLineOctets
			used = 0
		}
		b.WriteRune(r)
		used += n
	}
	return b.String(), nil
}
