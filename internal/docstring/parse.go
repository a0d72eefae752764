package docstring

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/doctrans/internal/ir"
)

// ParseOptions control docstring parsing.
type ParseOptions struct {
	// Dialect forces a dialect; DialectAuto detects one.
	Dialect Dialect
	// EmitDefaultDoc keeps "Defaults to" phrases in param docs after the
	// default has been lifted out.
	EmitDefaultDoc bool
	// InferType types untyped params from their literal default.
	InferType bool
	// DefaultSearchAnnounce adds phrases to DefaultPhrases.
	DefaultSearchAnnounce []string
}

type rawParam struct {
	name, typ, doc string
}

type parsed struct {
	desc    []string
	params  []*rawParam
	returns *rawParam
}

func (p *parsed) param(name string) *rawParam {
	for _, rp := range p.params {
		if rp.name == name {
			return rp
		}
	}
	rp := &rawParam{name: name}
	p.params = append(p.params, rp)
	return rp
}

func (p *parsed) ret() *rawParam {
	if p.returns == nil {
		p.returns = &rawParam{name: ir.ReturnName}
	}
	return p.returns
}

// Parse reads a docstring into an IR with Kind function and no name. Text
// outside any recognized section becomes the descriptions.
func Parse(text string, opts ParseOptions) (*ir.IR, error) {
	lines := cleanLines(text)
	dialect := opts.Dialect
	if dialect == DialectAuto {
		dialect = Detect(lines)
	}

	var (
		p   *parsed
		err error
	)
	switch dialect {
	case DialectFieldTag:
		p, err = parseFieldTag(lines)
	case DialectNumpy:
		p, err = parseNumpy(lines)
	case DialectGoogle:
		p, err = parseGoogle(lines)
	case DialectPlain:
		p = &parsed{desc: lines}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDialect, dialect)
	}
	if err != nil {
		return nil, err
	}

	out := &ir.IR{Kind: ir.KindFunction, Params: ir.Params{}}
	out.ShortDescription, out.LongDescription = descriptions(p.desc)
	for _, rp := range p.params {
		out.Params = append(out.Params, finish(rp, opts))
	}
	if p.returns != nil {
		r := finish(p.returns, opts)
		out.Returns = &r
	}
	return out, nil
}

func finish(rp *rawParam, opts ParseOptions) ir.Param {
	doc, def := ExtractDefault(strings.TrimSpace(rp.doc), opts.DefaultSearchAnnounce, opts.EmitDefaultDoc)
	typ := rp.typ
	if typ == "" && def != nil && opts.InferType {
		typ = InferType(*def)
	}
	return ir.NewParam(rp.name, typ, doc, def)
}

// descriptions splits prose into a one-paragraph summary and the remaining
// paragraphs. Lines inside a paragraph are joined by single spaces.
func descriptions(lines []string) (string, string) {
	var paras []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			paras = append(paras, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t == "" {
			flush()
			continue
		}
		cur = append(cur, t)
	}
	flush()
	if len(paras) == 0 {
		return "", ""
	}
	return paras[0], strings.Join(paras[1:], "\n\n")
}

func joinDoc(doc, more string) string {
	if doc == "" {
		return more
	}
	return doc + " " + more
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if inner, ok := ir.SplitCode(s); ok {
		return strings.TrimSpace(inner)
	}
	if len(s) >= 2 && s[0] == '`' && s[len(s)-1] == '`' {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// splitOptional turns numpydoc/google "T, optional" into Optional[T].
func splitOptional(typ string) string {
	typ = strings.TrimSpace(typ)
	for _, suffix := range []string{", optional", ",optional"} {
		if strings.HasSuffix(typ, suffix) {
			base := strings.TrimSpace(strings.TrimSuffix(typ, suffix))
			if base == "" || strings.HasPrefix(base, "Optional[") {
				return base
			}
			return "Optional[" + base + "]"
		}
	}
	return typ
}

var paramTags = map[string]bool{
	"param": true, "parameter": true, "arg": true, "argument": true,
	"key": true, "keyword": true, "cvar": true, "ivar": true, "var": true,
}

var ignoredTags = map[string]bool{
	"raises": true, "raise": true, "except": true, "exception": true,
	"yields": true, "meta": true, "note": true,
}

func parseFieldTag(lines []string) (*parsed, error) {
	p := &parsed{}
	var cur *string
	inTags := false
	var trailer []string
	for i, l := range lines {
		t := strings.TrimSpace(l)
		if t == "" {
			cur = nil
			if !inTags {
				p.desc = append(p.desc, "")
			}
			continue
		}
		if !strings.HasPrefix(t, ":") {
			switch {
			case cur != nil:
				*cur = joinDoc(*cur, t)
			case !inTags:
				p.desc = append(p.desc, t)
			default:
				trailer = append(trailer, t)
			}
			continue
		}

		inTags = true
		cur = nil
		tag, typ, name, rest, ok := splitTag(t)
		if !ok {
			return nil, &MalformedError{Dialect: DialectFieldTag, Line: i + 1, Text: t, Reason: "unterminated field tag"}
		}
		switch {
		case paramTags[tag]:
			if name == "" {
				return nil, &MalformedError{Dialect: DialectFieldTag, Line: i + 1, Text: t, Reason: "field tag without a name"}
			}
			rp := p.param(name)
			rp.doc = rest
			if typ != "" {
				rp.typ = typ
			}
			cur = &rp.doc
		case tag == "type" || tag == "vartype":
			if name == "" {
				return nil, &MalformedError{Dialect: DialectFieldTag, Line: i + 1, Text: t, Reason: "type tag without a name"}
			}
			p.param(name).typ = stripFence(rest)
		case tag == "return" || tag == "returns":
			rp := p.ret()
			rp.doc = rest
			cur = &rp.doc
		case tag == "rtype":
			p.ret().typ = stripFence(rest)
		case ignoredTags[tag]:
		default:
			return nil, &MalformedError{Dialect: DialectFieldTag, Line: i + 1, Text: t, Reason: "unknown field tag"}
		}
	}
	if len(trailer) > 0 {
		p.desc = append(p.desc, "", strings.Join(trailer, " "))
	}
	return p, nil
}

// splitTag splits ":tag [type] [name]: rest".
func splitTag(line string) (tag, typ, name, rest string, ok bool) {
	end := strings.IndexByte(line[1:], ':')
	if end < 0 {
		return "", "", "", "", false
	}
	header := strings.Fields(line[1 : 1+end])
	if len(header) == 0 {
		return "", "", "", "", false
	}
	rest = strings.TrimSpace(line[2+end:])
	tag = header[0]
	if len(header) > 1 {
		name = header[len(header)-1]
	}
	if len(header) > 2 {
		typ = strings.Join(header[1:len(header)-1], " ")
	}
	return tag, typ, name, rest, true
}

type section struct {
	title string
	start int // first body line
	end   int // one past the last body line
}

func parseNumpy(lines []string) (*parsed, error) {
	var sections []section
	for i := 0; i < len(lines); i++ {
		if isNumpyHeader(lines, i) {
			if n := len(sections); n > 0 {
				sections[n-1].end = i
			}
			sections = append(sections, section{title: strings.TrimSpace(lines[i]), start: i + 2, end: len(lines)})
			i++
		}
	}
	p := &parsed{desc: lines}
	if len(sections) > 0 {
		p.desc = lines[:sections[0].start-2]
	}
	for _, s := range sections {
		var err error
		switch s.title {
		case "Parameters", "Params", "Other Parameters", "Attributes":
			err = numpyEntries(lines, s, func(name, typ string) *string {
				rp := p.param(name)
				rp.typ = typ
				return &rp.doc
			})
		case "Returns", "Yields":
			err = numpyEntries(lines, s, func(name, typ string) *string {
				rp := p.ret()
				if typ == "" {
					typ = name
				}
				rp.typ = typ
				return &rp.doc
			})
		}
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

var identPattern = regexp.MustCompile(`^\*{0,2}[A-Za-z_][A-Za-z0-9_]*$`)

func numpyEntries(lines []string, s section, entry func(name, typ string) *string) error {
	base := -1
	var cur *string
	returns := s.title == "Returns" || s.title == "Yields"
	for i := s.start; i < s.end; i++ {
		l := lines[i]
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		ind := indentOf(l)
		if base < 0 {
			base = ind
		}
		if ind > base {
			if cur == nil {
				return &MalformedError{Dialect: DialectNumpy, Line: i + 1, Text: t, Reason: "description without an entry"}
			}
			*cur = joinDoc(*cur, t)
			continue
		}
		name, typ, hasType := strings.Cut(t, ":")
		name, typ = strings.TrimSpace(name), splitOptional(typ)
		switch {
		case hasType && identPattern.MatchString(name):
			cur = entry(strings.TrimLeft(name, "*"), typ)
		case !hasType && identPattern.MatchString(name):
			cur = entry(strings.TrimLeft(name, "*"), "")
		case !hasType && returns:
			cur = entry(t, "")
		default:
			return &MalformedError{Dialect: DialectNumpy, Line: i + 1, Text: t, Reason: "unparsable entry"}
		}
	}
	return nil
}

var googleEntry = regexp.MustCompile(`^(\*{0,2}[A-Za-z_][A-Za-z0-9_]*)\s*(?:\(([^)]*)\))?\s*:(.*)$`)

func parseGoogle(lines []string) (*parsed, error) {
	var sections []section
	for i, l := range lines {
		t := strings.TrimSpace(l)
		if !googleHeaders[t] {
			continue
		}
		if n := len(sections); n > 0 && sections[n-1].end > i {
			sections[n-1].end = i
		}
		s := section{title: strings.TrimSuffix(t, ":"), start: i + 1, end: len(lines)}
		hdr := indentOf(l)
		for j := i + 1; j < len(lines); j++ {
			if strings.TrimSpace(lines[j]) != "" && indentOf(lines[j]) <= hdr {
				s.end = j
				break
			}
		}
		sections = append(sections, s)
	}

	p := &parsed{desc: lines}
	if len(sections) > 0 {
		p.desc = lines[:sections[0].start-1]
	}
	for _, s := range sections {
		switch s.title {
		case "Args", "Arguments", "Parameters", "Params", "Attributes":
			if err := googleArgs(lines, s, p); err != nil {
				return nil, err
			}
		case "Returns", "Return", "Yields":
			googleReturns(lines, s, p)
		}
	}
	return p, nil
}

func googleArgs(lines []string, s section, p *parsed) error {
	base := -1
	var cur *string
	for i := s.start; i < s.end; i++ {
		l := lines[i]
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		ind := indentOf(l)
		if base < 0 {
			base = ind
		}
		if ind > base && cur != nil {
			*cur = joinDoc(*cur, t)
			continue
		}
		m := googleEntry.FindStringSubmatch(t)
		if m == nil {
			return &MalformedError{Dialect: DialectGoogle, Line: i + 1, Text: t, Reason: "unparsable argument"}
		}
		rp := p.param(strings.TrimLeft(m[1], "*"))
		rp.typ = splitOptional(m[2])
		rp.doc = strings.TrimSpace(m[3])
		cur = &rp.doc
	}
	return nil
}

func googleReturns(lines []string, s section, p *parsed) {
	var body []string
	for i := s.start; i < s.end; i++ {
		if t := strings.TrimSpace(lines[i]); t != "" {
			body = append(body, t)
		}
	}
	if len(body) == 0 {
		return
	}
	rp := p.ret()
	first := body[0]
	if typ, doc, ok := cutTopLevelColon(first); ok {
		rp.typ = typ
		first = doc
	}
	rp.doc = strings.TrimSpace(strings.Join(append([]string{first}, body[1:]...), " "))
}

// cutTopLevelColon splits "T: doc" when the text before the first colon
// outside brackets reads as a type.
func cutTopLevelColon(s string) (string, string, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case ' ':
			if depth == 0 && !strings.HasSuffix(s[:i], ",") && !strings.HasPrefix(s[i:], " |") && !strings.HasSuffix(s[:i], "|") {
				return "", "", false
			}
		case ':':
			if depth == 0 {
				typ := strings.TrimSpace(s[:i])
				if typ == "" {
					return "", "", false
				}
				return typ, strings.TrimSpace(s[i+1:]), true
			}
		}
	}
	return "", "", false
}
