package syntax

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/runenames"
)

// runeNames maps upper-cased Unicode character names to their runes. It is
// built on first use of a \N{...} escape.
var runeNames = sync.OnceValue(func() map[string]rune {
	m := make(map[string]rune, 1<<15)
	for r := rune(0); r <= unicode.MaxRune; r++ {
		name := runenames.Name(r)
		if name == "" || strings.HasPrefix(name, "<") {
			continue
		}
		if _, dup := m[name]; !dup {
			m[name] = r
		}
	}
	return m
})

func lookupRune(name string) (rune, bool) {
	r, ok := runeNames()[strings.ToUpper(strings.TrimSpace(name))]
	return r, ok
}
