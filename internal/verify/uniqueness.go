package verify

import (
	"context"
	"fmt"

	"github.com/specialistvlad/declc/internal/diag"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/pass"
)

// Uniqueness reports every identifier that appears more than once within a
// section matched by pattern. Each duplicated identifier yields one violation
// pointing at its second occurrence.
func Uniqueness(name string, pattern model.Pattern, ordering ...pass.Info) pass.Verifier {
	return pass.Verifier{
		Info: info(name, ordering),
		Fn: func(_ context.Context, s *model.State) []diag.Violation {
			var out []diag.Violation
			for _, section := range s.Match(pattern) {
				seen := make(map[string]*model.Entity)
				reported := make(map[string]bool)
				for _, e := range s.Entities(section) {
					if e.ID() == "" {
						continue
					}
					first, dup := seen[e.ID()]
					if !dup {
						seen[e.ID()] = e
						continue
					}
					if reported[e.ID()] {
						continue
					}
					reported[e.ID()] = true
					out = append(out, diag.Violation{
						Kind: diag.KindDuplicateIdentifier,
						Message: fmt.Sprintf("duplicate %s %q in %s (first defined at %s)",
							e.Kind(), e.ID(), section, first.Range()),
						Location: diag.Location{Section: section, Entity: e.ID()},
						Related:  []string{e.ID()},
						Subject:  e.Range().Ptr(),
					})
				}
			}
			return out
		},
	}
}

// info builds the pass Info from a name and optional ordering constraints.
func info(name string, ordering []pass.Info) pass.Info {
	i := pass.Info{Name: name}
	for _, o := range ordering {
		i.Before = append(i.Before, o.Before...)
		i.After = append(i.After, o.After...)
	}
	return i
}
