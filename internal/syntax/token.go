package syntax

import "fmt"

// Token is the kind of a lexical token.
type Token int

const (
	EOF Token = iota
	NEWLINE
	INDENT
	DEDENT
	COMMENT
	NAME
	NUMBER
	STRING
	OP
)

var tokenNames = [...]string{
	EOF:     "EOF",
	NEWLINE: "NEWLINE",
	INDENT:  "INDENT",
	DEDENT:  "DEDENT",
	COMMENT: "COMMENT",
	NAME:    "NAME",
	NUMBER:  "NUMBER",
	STRING:  "STRING",
	OP:      "OP",
}

func (t Token) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("Token(%d)", int(t))
}

// Pos is a location in source text. Line and Col are 1-based.
type Pos struct {
	Offset int
	Line   int
	Col    int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// item is one scanned token. End is the offset just past the token text.
type item struct {
	tok  Token
	text string
	pos  Pos
	end  int
}

// keywords that open a block this grammar keeps verbatim.
var compoundKeywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true,
	"try": true, "except": true, "finally": true, "with": true,
	"async": true,
}

// keywords that start a simple statement this grammar keeps verbatim.
var rawKeywords = map[string]bool{
	"import": true, "from": true, "raise": true, "global": true,
	"nonlocal": true, "del": true, "assert": true, "break": true,
	"continue": true, "yield": true, "await": true, "lambda": true,
}

// three, two and one character operators, longest first.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"->", "**", "//", "==", "!=", "<=", ">=", "<<", ">>", "+=", "-=",
	"*=", "/=", "%=", "&=", "|=", "^=", "@=", ":=",
	"(", ")", "[", "]", "{", "}", ",", ":", ".", ";", "@", "=",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "<", ">",
}
