package toggle

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Camelize converts a flag name into its canonical registry key.
//
// Runs of '-', '_', '.' or whitespace are dropped and the character that
// follows them is upper-cased. The first character of the result, and the
// first character after each '/', is lower-cased:
//
//	Camelize("dark-mode")    // "darkMode"
//	Camelize("new_checkout") // "newCheckout"
//	Camelize("Beta.Search")  // "betaSearch"
//	Camelize("admin/Tools")  // "admin/tools"
//
// Camelize is pure and total; the empty string maps to itself.
func Camelize(name string) string {
	if name == "" {
		return name
	}

	var b strings.Builder
	b.Grow(len(name))

	upper := false
	segmentStart := true
	for _, r := range name {
		if isSeparator(r) {
			upper = true
			continue
		}

		switch {
		case r == '/':
			b.WriteRune(r)
			segmentStart = true
			upper = false
			continue
		case segmentStart:
			r = unicode.ToLower(r)
		case upper:
			r = unicode.ToUpper(r)
		}

		b.WriteRune(r)
		segmentStart = false
		upper = false
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
}

// validName reports whether name can be used as a flag name.
func validName(name string) bool {
	return name != "" && utf8.ValidString(name)
}
