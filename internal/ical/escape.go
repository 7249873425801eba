package ical

import "strings"

// RFC 5545 reserves backslash, semicolon, comma and newline in TEXT
// values. Everything else, including non-ASCII, passes through.
var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	`;`, `\;`,
	`,`, `\,`,
)

// Escape rewrites the reserved TEXT characters into their two-character
// escaped forms. It is not idempotent; the serializer applies it to raw
// values exactly once.
func Escape(s string) string {
	return textEscaper.Replace(s)
}
