package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/declc/internal/ctxlog"
	"github.com/specialistvlad/declc/internal/pass"
	"github.com/specialistvlad/declc/internal/schema"
)

// ValidateRegistry checks every language definition: defaults satisfy their
// own types, identifier fields are declared, sibling sections are distinct,
// pass names are unique and both pass schedules are acyclic.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Languages() {
		lang := r.languages[name]
		if lang.Root == nil {
			errs = append(errs, fmt.Sprintf("language '%s': no root entity spec", name))
			continue
		}

		lang.Root.Walk(func(spec *schema.EntitySpec) {
			errs = append(errs, validateSpec(name, spec)...)
		})

		seen := make(map[string]string)
		for _, t := range lang.Transformers {
			errs = append(errs, checkPass(name, "transformer", t.Name, t.Fn == nil, seen)...)
		}
		for _, v := range lang.Verifiers {
			errs = append(errs, checkPass(name, "verifier", v.Name, v.Fn == nil, seen)...)
		}

		if _, err := pass.OrderTransformers(lang.Transformers); err != nil {
			errs = append(errs, fmt.Sprintf("language '%s': transformer schedule: %v", name, err))
		}
		if _, err := pass.OrderVerifiers(lang.Verifiers); err != nil {
			errs = append(errs, fmt.Sprintf("language '%s': verifier schedule: %v", name, err))
		}

		logger.Debug("Validated language.", "language", name, "transformers", len(lang.Transformers), "verifiers", len(lang.Verifiers))
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

func validateSpec(lang string, spec *schema.EntitySpec) []string {
	var errs []string
	where := fmt.Sprintf("language '%s', entity '%s'", lang, spec.Name)

	if spec.Identifier != "" {
		if _, ok := spec.Field(spec.Identifier); !ok {
			errs = append(errs, fmt.Sprintf("%s: identifier field '%s' is not declared", where, spec.Identifier))
		}
	}

	fields := make(map[string]bool)
	for _, f := range spec.Fields {
		if fields[f.Name] {
			errs = append(errs, fmt.Sprintf("%s: field '%s' declared twice", where, f.Name))
		}
		fields[f.Name] = true
		if f.Required && f.HasDefault() {
			errs = append(errs, fmt.Sprintf("%s, field '%s': a required field cannot have a default", where, f.Name))
		}
		if v := schema.CheckDefault(f); v != nil {
			errs = append(errs, fmt.Sprintf("%s, field '%s': default does not satisfy its type: %s", where, f.Name, v.Message))
		}
	}

	sections := make(map[string]string)
	for _, c := range spec.Children {
		if prev, dup := sections[c.SectionName()]; dup {
			errs = append(errs, fmt.Sprintf("%s: children '%s' and '%s' share section '%s'", where, prev, c.Name, c.SectionName()))
		}
		sections[c.SectionName()] = c.Name
	}
	return errs
}

func checkPass(lang, kind, name string, missingFn bool, seen map[string]string) []string {
	var errs []string
	if name == "" {
		return []string{fmt.Sprintf("language '%s': %s without a name", lang, kind)}
	}
	if prev, dup := seen[name]; dup {
		errs = append(errs, fmt.Sprintf("language '%s': pass '%s' declared as both %s and %s", lang, name, prev, kind))
	}
	seen[name] = kind
	if missingFn {
		errs = append(errs, fmt.Sprintf("language '%s': %s '%s' has no function", lang, kind, name))
	}
	return errs
}
