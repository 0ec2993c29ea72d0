package report

import (
	"io"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/declc/internal/diag"
)

// Source writes err through HCL's diagnostic writer so that violations with a
// subject range are shown with the offending source lines. Errors that are
// not diagnostics fall back to Text.
func Source(w io.Writer, err error, files map[string]*hcl.File, opts Options) error {
	d, ok := diag.As(err)
	if !ok {
		return Text(w, err, opts)
	}
	writer := hcl.NewDiagnosticTextWriter(w, files, opts.width(), opts.Color)
	return writer.WriteDiagnostics(ToHCL(d))
}

// ToHCL converts a diagnostic into HCL diagnostics, one per violation.
func ToHCL(d *diag.Diagnostic) hcl.Diagnostics {
	if len(d.Violations) == 0 {
		return hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  d.Kind.String(),
			Detail:   d.Message,
		}}
	}
	diags := make(hcl.Diagnostics, 0, len(d.Violations))
	for _, v := range d.Violations {
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  v.Kind.String(),
			Detail:   v.Error(),
			Subject:  v.Subject,
		})
	}
	return diags
}
