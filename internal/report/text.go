package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mitchellh/go-wordwrap"
	"github.com/specialistvlad/declc/internal/diag"
)

// DefaultWidth is the wrap width used when Options.Width is zero.
const DefaultWidth = 100

// Options controls the text renderers.
type Options struct {
	// Width is the column at which messages wrap.
	Width uint
	// Color enables ANSI colours.
	Color bool
}

func (o Options) width() uint {
	if o.Width == 0 {
		return DefaultWidth
	}
	return o.Width
}

var kindStyles = map[diag.Kind]color.Style{
	diag.KindSchemaViolation:       color.New(color.FgRed, color.OpBold),
	diag.KindUnknownConstruct:      color.New(color.FgMagenta, color.OpBold),
	diag.KindCircularDependency:    color.New(color.FgYellow, color.OpBold),
	diag.KindTransformError:        color.New(color.FgRed, color.OpBold),
	diag.KindDuplicateIdentifier:   color.New(color.FgCyan, color.OpBold),
	diag.KindUndefinedReference:    color.New(color.FgYellow, color.OpBold),
	diag.KindStructuralConstraint:  color.New(color.FgMagenta, color.OpBold),
	diag.KindExecutionPrecondition: color.New(color.FgRed, color.OpBold),
}

// Text writes err in the form:
//
//	error[Kind]: message
//	  - section → entity → field: violation message
//	    related: a, b
//	    allowed: "x", "y"
func Text(w io.Writer, err error, opts Options) error {
	var b strings.Builder
	d, ok := diag.As(err)
	if !ok {
		b.WriteString(paint(opts, color.New(color.FgRed, color.OpBold), "error"))
		b.WriteString(": ")
		b.WriteString(wrap(err.Error(), opts.width(), ""))
		b.WriteString("\n")
		_, werr := io.WriteString(w, b.String())
		return werr
	}

	header := fmt.Sprintf("error[%s]", d.Kind)
	b.WriteString(paint(opts, kindStyles[d.Kind], header))
	b.WriteString(": ")
	b.WriteString(wrap(d.Message, opts.width(), ""))
	b.WriteString("\n")

	inner := opts.width()
	if inner > 4 {
		inner -= 4
	}
	for _, v := range d.Violations {
		line := v.Message
		if !v.Location.IsZero() {
			line = fmt.Sprintf("%s: %s", paint(opts, color.New(color.OpBold), v.Location.String()), v.Message)
		}
		b.WriteString("  - ")
		b.WriteString(wrap(line, inner, "    "))
		b.WriteString("\n")
		if len(v.Related) > 0 {
			b.WriteString("    related: ")
			b.WriteString(strings.Join(v.Related, ", "))
			b.WriteString("\n")
		}
		if len(v.Allowed) > 0 {
			b.WriteString("    allowed: ")
			b.WriteString(strings.Join(v.Allowed, ", "))
			b.WriteString("\n")
		}
	}

	_, werr := io.WriteString(w, b.String())
	return werr
}

func paint(opts Options, style color.Style, s string) string {
	if !opts.Color {
		return s
	}
	return style.Sprint(s)
}

// wrap word-wraps s and indents every continuation line.
func wrap(s string, width uint, indent string) string {
	wrapped := wordwrap.WrapString(s, width)
	if indent == "" {
		return wrapped
	}
	return strings.ReplaceAll(wrapped, "\n", "\n"+indent)
}
