package helpers

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

func StringTrim(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "\"'")
}

// Slugify lower-cases name and joins its words with dashes,
// e.g. "Kandy Tech Hub" -> "kandy-tech-hub".
func Slugify(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}
