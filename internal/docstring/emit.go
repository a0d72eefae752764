package docstring

import (
	"fmt"
	"strings"

	"github.com/mitchellh/go-wordwrap"

	"github.com/roach88/doctrans/internal/ir"
)

// DefaultWidth is the wrap column used when EmitOptions.Width is zero.
const DefaultWidth = 100

// EmitOptions control docstring emission.
type EmitOptions struct {
	Dialect        Dialect
	EmitDefaultDoc bool // append "Defaults to" phrases for params with defaults
	EmitTypes      bool // emit :type and :rtype lines
	WordWrap       bool
	Width          int
	IndentLevel    int // 4-space units prefixed to every line after the first
	// EmitSeparatingTab puts a blank line between the description and
	// each field block; otherwise blocks follow each other directly.
	EmitSeparatingTab bool
	// ParamTag is the field tag for params, ":param" by default.
	ParamTag string
	// DefaultSearchAnnounce are extra phrases that count as an existing
	// default announcement.
	DefaultSearchAnnounce []string
}

// DefaultEmitOptions returns the options used by the function emitter.
func DefaultEmitOptions() EmitOptions {
	return EmitOptions{
		Dialect:           DialectFieldTag,
		EmitDefaultDoc:    true,
		EmitTypes:         true,
		Width:             DefaultWidth,
		EmitSeparatingTab: true,
		ParamTag:          ":param",
	}
}

// Emit renders r as a field-tag docstring body: a leading newline, the
// descriptions, one block per param and a return block, and a trailing
// newline plus indentation so the closing quotes line up. An IR with
// nothing to say renders as "".
func Emit(r *ir.IR, opts EmitOptions) (string, error) {
	switch opts.Dialect {
	case DialectAuto, DialectFieldTag:
	default:
		return "", fmt.Errorf("%w: cannot emit %s", ErrUnsupportedDialect, opts.Dialect)
	}
	if opts.ParamTag == "" {
		opts.ParamTag = ":param"
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	indent := strings.Repeat("    ", opts.IndentLevel)

	var paras []string
	if r.ShortDescription != "" {
		paras = append(paras, opts.wrap(r.ShortDescription, indent, ""))
	}
	for _, para := range strings.Split(r.LongDescription, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			paras = append(paras, opts.wrap(para, indent, ""))
		}
	}

	var sections []string
	if len(paras) > 0 {
		sections = append(sections, strings.Join(paras, "\n\n"))
	}
	for _, p := range r.Params {
		sections = append(sections, opts.field(opts.ParamTag+" "+p.Name+":", ":type "+p.Name+":", p, indent))
	}
	if r.Returns != nil {
		if b := opts.field(":return:", ":rtype:", *r.Returns, indent); b != "" {
			sections = append(sections, b)
		}
	}
	if len(sections) == 0 {
		return "", nil
	}
	sep := "\n"
	if opts.EmitSeparatingTab {
		sep = "\n\n"
	}
	return "\n" + indentLines(strings.Join(sections, sep), indent) + "\n" + indent, nil
}

func indentLines(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indent + l
		}
	}
	return strings.Join(lines, "\n")
}

func (o EmitOptions) field(tag, typeTag string, p ir.Param, indent string) string {
	doc := p.Doc
	if o.EmitDefaultDoc {
		doc = AppendDefault(doc, p.Default, o.DefaultSearchAnnounce)
	}
	var lines []string
	isReturn := tag == ":return:"
	if !isReturn || doc != "" {
		line := tag
		if doc != "" {
			line += " " + doc
		}
		lines = append(lines, o.wrap(line, indent, "    "))
	}
	if o.EmitTypes && p.Typ != "" {
		lines = append(lines, typeTag+" "+ir.CodeDefault(p.Typ))
	}
	return strings.Join(lines, "\n")
}

// wrap folds text at the configured width, accounting for the block
// indentation. Continuation lines are prefixed with hang.
func (o EmitOptions) wrap(text, indent, hang string) string {
	if !o.WordWrap {
		return text
	}
	width := o.Width - len(indent) - len(hang)
	if width < 20 {
		width = 20
	}
	lines := strings.Split(wordwrap.WrapString(text, uint(width)), "\n")
	return strings.Join(lines, "\n"+hang)
}
