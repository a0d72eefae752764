package ir

import (
	"bytes"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces canonical JSON for an IR, used for hashing.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units (RFC 8785)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. Absent optional fields are omitted, never null
func MarshalCanonical(r *IR) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("nil IR")
	}
	var buf bytes.Buffer
	writeValue(&buf, irObject(r))
	return buf.Bytes(), nil
}

type object map[string]any

func irObject(r *IR) object {
	params := make([]any, len(r.Params))
	for i, p := range r.Params {
		params[i] = paramObject(p)
	}
	obj := object{
		"kind":              string(r.Kind),
		"short_description": r.ShortDescription,
		"long_description":  r.LongDescription,
		"params":            params,
	}
	if r.Name != "" {
		obj["name"] = r.Name
	}
	if r.Returns != nil {
		obj["returns"] = paramObject(*r.Returns)
	}
	return obj
}

func paramObject(p Param) object {
	obj := object{
		"name":     p.Name,
		"typ":      p.Typ,
		"doc":      p.Doc,
		"required": p.Required,
	}
	if p.Default != nil {
		obj["default"] = *p.Default
	}
	return obj
}

func writeValue(buf *bytes.Buffer, v any) {
	switch val := v.(type) {
	case string:
		writeString(buf, val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeValue(buf, elem)
		}
		buf.WriteByte(']')
	case object:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeysRFC8785)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, k)
			buf.WriteByte(':')
			writeValue(buf, val[k])
		}
		buf.WriteByte('}')
	default:
		panic(fmt.Sprintf("ir: unsupported canonical value %T", v))
	}
}

// writeString writes an NFC-normalized JSON string. Only the quote,
// backslash and control characters are escaped.
func writeString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r < 0x20:
			fmt.Fprintf(buf, `\u%04x`, r)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

// compareKeysRFC8785 orders keys by UTF-16 code units.
// Go's default string comparison uses UTF-8, which differs above the BMP.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
