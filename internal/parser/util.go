package parser

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// isLineBreak reports the characters that end a line of extracted text.
// Besides \n and \r this covers the vertical tab, form feed, the ASCII
// file/group/record separators, NEL and the Unicode line/paragraph
// separators, all of which show up in text pulled out of PDFs.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// splitLines splits page text into lines. "\r\n" counts as one break and a
// trailing break does not produce an empty last line, so line numbers match
// what a reader counts on the page.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// normalizeLine composes accents (NFC), folds non-breaking spaces into plain
// spaces and trims the line.
func normalizeLine(line string) string {
	line = norm.NFC.String(line)
	line = strings.ReplaceAll(line, "\u00a0", " ")
	return strings.TrimSpace(line)
}
