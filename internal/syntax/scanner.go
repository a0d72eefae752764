package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// scanner turns source text into a flat token stream with INDENT/DEDENT
// bookkeeping. Full-line comments are kept as COMMENT tokens and attached
// to the statement that follows them; trailing comments are dropped.
type scanner struct {
	src     string
	off     int
	line    int
	col     int
	depth   int
	indents []int
	items   []item
	pending []item
}

func scan(src string) ([]item, error) {
	s := &scanner{src: src, line: 1, col: 1, indents: []int{0}}
	if err := s.run(); err != nil {
		return nil, err
	}
	return s.items, nil
}

func (s *scanner) pos() Pos {
	return Pos{Offset: s.off, Line: s.line, Col: s.col}
}

func (s *scanner) errorf(p Pos, msg string) error {
	return &Error{Pos: p, Msg: msg}
}

func (s *scanner) peek(n int) byte {
	if s.off+n < len(s.src) {
		return s.src[s.off+n]
	}
	return 0
}

func (s *scanner) advance() {
	if s.off >= len(s.src) {
		return
	}
	if s.src[s.off] == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	s.off++
}

// skipNewline consumes "\n", "\r\n" or "\r".
func (s *scanner) skipNewline() {
	if s.peek(0) == '\r' {
		s.off++
		if s.peek(0) == '\n' {
			s.advance()
			return
		}
		s.line++
		s.col = 1
		return
	}
	s.advance()
}

func (s *scanner) emit(tok Token, text string, p Pos) {
	s.items = append(s.items, item{tok: tok, text: text, pos: p, end: p.Offset + len(text)})
}

func (s *scanner) lastTok() Token {
	if len(s.items) == 0 {
		return NEWLINE
	}
	return s.items[len(s.items)-1].tok
}

func (s *scanner) flushComments() {
	for _, c := range s.pending {
		s.items = append(s.items, c, item{tok: NEWLINE, pos: c.pos, end: c.end})
	}
	s.pending = s.pending[:0]
}

func (s *scanner) run() error {
	atLineStart := true
	for {
		if atLineStart && s.depth == 0 {
			done, err := s.lineStart()
			if err != nil {
				return err
			}
			if done {
				break
			}
			atLineStart = false
			continue
		}
		if s.off >= len(s.src) {
			break
		}
		c := s.src[s.off]
		switch {
		case c == ' ' || c == '\t' || c == '\f':
			s.advance()
		case c == '\\':
			s.advance()
			if s.peek(0) != '\n' && s.peek(0) != '\r' {
				return s.errorf(s.pos(), "unexpected character after line continuation")
			}
			s.skipNewline()
		case c == '\n' || c == '\r':
			p := s.pos()
			s.skipNewline()
			if s.depth == 0 {
				if s.lastTok() != NEWLINE {
					s.emit(NEWLINE, "", p)
				}
				atLineStart = true
			}
		case c == '#':
			for s.off < len(s.src) && s.src[s.off] != '\n' && s.src[s.off] != '\r' {
				s.advance()
			}
		case isIdentStart(c):
			if err := s.scanName(); err != nil {
				return err
			}
		case isDigit(c) || (c == '.' && isDigit(s.peek(1))):
			s.scanNumber()
		case c == '"' || c == '\'':
			if err := s.scanString(s.pos()); err != nil {
				return err
			}
		default:
			if err := s.scanOp(); err != nil {
				return err
			}
		}
	}
	if s.depth > 0 {
		return s.errorf(s.pos(), "unexpected EOF in bracketed expression")
	}
	if s.lastTok() != NEWLINE {
		s.emit(NEWLINE, "", s.pos())
	}
	for len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		s.emit(DEDENT, "", s.pos())
	}
	s.flushComments()
	s.emit(EOF, "", s.pos())
	return nil
}

// lineStart measures indentation of the next non-blank line and emits the
// INDENT/DEDENT tokens it implies. It reports true at end of input.
func (s *scanner) lineStart() (bool, error) {
	for {
		width := 0
		for s.off < len(s.src) && (s.src[s.off] == ' ' || s.src[s.off] == '\t' || s.src[s.off] == '\f') {
			if s.src[s.off] == '\t' {
				width += 8 - width%8
			} else {
				width++
			}
			s.advance()
		}
		if s.off >= len(s.src) {
			return true, nil
		}
		c := s.src[s.off]
		if c == '\n' || c == '\r' {
			s.skipNewline()
			continue
		}
		if c == '#' {
			p := s.pos()
			start := s.off
			for s.off < len(s.src) && s.src[s.off] != '\n' && s.src[s.off] != '\r' {
				s.advance()
			}
			text := strings.TrimRight(s.src[start:s.off], " \t")
			s.pending = append(s.pending, item{tok: COMMENT, text: text, pos: p, end: p.Offset + len(text)})
			continue
		}
		p := s.pos()
		top := s.indents[len(s.indents)-1]
		switch {
		case width > top:
			s.indents = append(s.indents, width)
			s.emit(INDENT, "", p)
		case width < top:
			for width < s.indents[len(s.indents)-1] {
				s.indents = s.indents[:len(s.indents)-1]
				s.emit(DEDENT, "", p)
			}
			if width != s.indents[len(s.indents)-1] {
				return false, s.errorf(p, "unindent does not match any outer indentation level")
			}
		}
		s.flushComments()
		return false, nil
	}
}

func (s *scanner) scanName() error {
	p := s.pos()
	start := s.off
	for s.off < len(s.src) {
		r, size := utf8.DecodeRuneInString(s.src[s.off:])
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		for i := 0; i < size; i++ {
			s.advance()
		}
	}
	name := s.src[start:s.off]
	if q := s.peek(0); (q == '"' || q == '\'') && isStringPrefix(name) {
		return s.scanString(p)
	}
	s.emit(NAME, name, p)
	return nil
}

func (s *scanner) scanNumber() {
	p := s.pos()
	start := s.off
	for s.off < len(s.src) {
		c := s.src[s.off]
		if (c == 'e' || c == 'E') && (s.peek(1) == '+' || s.peek(1) == '-') && !strings.HasPrefix(strings.ToLower(s.src[start:s.off]), "0x") {
			s.advance()
			s.advance()
			continue
		}
		if !(isDigit(c) || c == '.' || c == '_' || isLetter(c)) {
			break
		}
		s.advance()
	}
	s.emit(NUMBER, s.src[start:s.off], p)
}

// scanString scans a string literal whose prefix (if any) starts at p and
// whose opening quote is at the current offset.
func (s *scanner) scanString(p Pos) error {
	q := s.src[s.off]
	triple := s.peek(1) == q && s.peek(2) == q
	if triple {
		s.advance()
		s.advance()
	}
	s.advance()
	for {
		if s.off >= len(s.src) {
			return s.errorf(p, "unterminated string literal")
		}
		c := s.src[s.off]
		switch {
		case c == '\\':
			s.advance()
			if s.peek(0) == '\r' || s.peek(0) == '\n' {
				s.skipNewline()
			} else {
				s.advance()
			}
			continue
		case c == q && !triple:
			s.advance()
			s.emit(STRING, s.src[p.Offset:s.off], p)
			return nil
		case c == q && s.peek(1) == q && s.peek(2) == q:
			s.advance()
			s.advance()
			s.advance()
			s.emit(STRING, s.src[p.Offset:s.off], p)
			return nil
		case (c == '\n' || c == '\r') && !triple:
			return s.errorf(p, "unterminated string literal")
		}
		s.advance()
	}
}

func (s *scanner) scanOp() error {
	p := s.pos()
	rest := s.src[s.off:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op) {
			for range op {
				s.advance()
			}
			switch op {
			case "(", "[", "{":
				s.depth++
			case ")", "]", "}":
				s.depth--
				if s.depth < 0 {
					return s.errorf(p, "unmatched "+op)
				}
			}
			s.emit(OP, op, p)
			return nil
		}
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return s.errorf(p, "unexpected character "+string(r))
}

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "r", "b", "u", "f", "rb", "br", "fr", "rf":
		return true
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || isLetter(c) || c >= utf8.RuneSelf
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
