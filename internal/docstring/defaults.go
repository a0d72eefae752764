package docstring

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/doctrans/internal/ir"
)

// DefaultPhrases announce a default value inside a parameter's prose.
var DefaultPhrases = []string{
	"Defaults to",
	"defaults to",
	"Default value is",
	"Default:",
	"default:",
}

// ExtractDefault finds the earliest default announcement in doc and returns
// the default it names. With keepPhrase false the announcement is removed
// from the returned doc; otherwise doc is returned untouched. A phrase with
// nothing after it yields no default.
//
// Phrases are matched anywhere in doc, including inside quoted examples,
// so an example that mentions "Defaults to" can be taken as the default.
func ExtractDefault(doc string, extra []string, keepPhrase bool) (string, *string) {
	start, phrase := findPhrase(doc, extra)
	if start < 0 {
		return doc, nil
	}
	j := start + len(phrase)
	for j < len(doc) && (doc[j] == ' ' || doc[j] == '\t') {
		j++
	}
	value, end, ok := readDefault(doc, j)
	if !ok {
		return doc, nil
	}
	if keepPhrase {
		return doc, &value
	}

	before := strings.TrimRight(doc[:start], " \t")
	before = strings.TrimRight(before, ",;")
	// The sentence end travels with the value: "Foo, defaults to 5." keeps
	// its period as "Foo.".
	if before != "" && doc[end-1] == '.' && !strings.ContainsRune(".!?", rune(before[len(before)-1])) {
		before += "."
	}
	after := strings.TrimLeft(doc[end:], " \t")
	out := before
	if after != "" {
		if out != "" {
			out += " "
		}
		out += after
	}
	return strings.TrimSpace(out), &value
}

func findPhrase(doc string, extra []string) (int, string) {
	best, phrase := -1, ""
	for _, ps := range [][]string{DefaultPhrases, extra} {
		for _, p := range ps {
			if p == "" {
				continue
			}
			i := strings.Index(doc, p)
			if i < 0 {
				continue
			}
			if best < 0 || i < best || (i == best && len(p) > len(phrase)) {
				best, phrase = i, p
			}
		}
	}
	return best, phrase
}

// Announces reports whether doc already carries a default announcement.
func Announces(doc string, extra []string) bool {
	i, _ := findPhrase(doc, extra)
	return i >= 0
}

// readDefault reads one default token starting at doc[j]. Fenced code keeps
// its fences, quoted values lose their quotes, bracketed values are taken
// whole and bare words lose trailing sentence punctuation.
func readDefault(doc string, j int) (string, int, bool) {
	if j >= len(doc) {
		return "", j, false
	}
	rest := doc[j:]
	var value string
	var end int
	switch {
	case strings.HasPrefix(rest, "```"):
		k := strings.Index(rest[3:], "```")
		if k < 0 {
			return "", j, false
		}
		end = j + 3 + k + 3
		value = doc[j:end]
	case rest[0] == '`' || rest[0] == '"' || rest[0] == '\'':
		k := strings.IndexByte(rest[1:], rest[0])
		if k < 0 {
			return "", j, false
		}
		value = rest[1 : 1+k]
		end = j + 1 + k + 1
	case rest[0] == '[' || rest[0] == '(' || rest[0] == '{':
		n, ok := balanced(rest)
		if !ok {
			return "", j, false
		}
		value = ir.CodeDefault(rest[:n])
		end = j + n
	default:
		n := strings.IndexAny(rest, " \t\n")
		if n < 0 {
			n = len(rest)
		}
		value = strings.TrimRight(rest[:n], ".,;:)")
		if value == "" {
			return "", j, false
		}
		return value, j + n, true
	}
	if end < len(doc) && (doc[end] == '.' || doc[end] == ',') {
		end++
	}
	return value, end, true
}

func balanced(s string) (int, bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

var intPattern = regexp.MustCompile(`^[-+]?[0-9][0-9_]*$`)

// InferType names the scalar type of a literal default, or "" for code
// defaults.
func InferType(def string) string {
	if _, code := ir.SplitCode(def); code {
		return ""
	}
	switch {
	case def == "True" || def == "False":
		return "bool"
	case intPattern.MatchString(def):
		return "int"
	case strings.ContainsAny(def, "0123456789") && isFloat(def):
		return "float"
	}
	return "str"
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	return err == nil
}

// RenderDefault formats a default for a "Defaults to" phrase, quoting it
// when it would otherwise not survive ExtractDefault.
func RenderDefault(def string) string {
	if _, code := ir.SplitCode(def); code {
		return def
	}
	if def == "" || strings.ContainsAny(def, " \t\n`([{") || strings.HasSuffix(def, ".") ||
		strings.HasSuffix(def, ",") || strings.HasSuffix(def, ";") || strings.HasSuffix(def, ":") ||
		strings.HasSuffix(def, ")") || strings.HasPrefix(def, `"`) || strings.HasPrefix(def, "'") {
		if strings.Contains(def, `"`) {
			return "'" + def + "'"
		}
		return `"` + def + `"`
	}
	return def
}

// AppendDefault adds a default announcement to doc unless one is present.
func AppendDefault(doc string, def *string, extra []string) string {
	if def == nil || Announces(doc, extra) {
		return doc
	}
	phrase := "Defaults to " + RenderDefault(*def)
	switch {
	case doc == "":
		return phrase
	case strings.HasSuffix(doc, "."):
		return doc + " " + phrase
	}
	return doc + ". " + phrase
}
