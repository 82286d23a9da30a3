package text

import "strings"

// UnescapeTestContent supports content using a special character instead of backticks.
//
// Multiline strings in Golang cannot contain backticks, which makes code spans
// and fences painful to write in tests. The ” and ‛ characters are replaced by backticks.
//
// Example: ”””go will become ```go
func UnescapeTestContent(content string) string {
	result := strings.ReplaceAll(content, "”", "`")
	return strings.ReplaceAll(result, "‛", "`")
}
