package markdown

import "strings"

// NestDepth is the maximum nesting of brackets and parentheses inside links.
// Deeper constructs are not recognized and stay plain text.
const NestDepth = 6

// nestedBrackets matches a text where square brackets are balanced.
func nestedBrackets(depth int) string {
	return strings.Repeat(`(?:[^\[\]\n]|\[`, depth) + strings.Repeat(`\])*`, depth)
}

// nestedParens matches an URL where parentheses are balanced.
func nestedParens(depth int) string {
	return strings.Repeat(`(?:[^()\s]|\(`, depth) + strings.Repeat(`\))*`, depth)
}
