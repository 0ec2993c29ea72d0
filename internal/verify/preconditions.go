package verify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/declc/internal/diag"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/pass"
	"github.com/zclconf/go-cty/cty"
)

// Execution names the fields checked by ExecutionPreconditions. Empty names
// skip the corresponding check.
type Execution struct {
	Command string
	Timeout string
	Retries string
	Env     string
}

// ExecutionPreconditions checks that entities in sections matched by pattern
// could be executed: a non-empty command, a positive timeout, a non-negative
// retry count, and an environment of valid string keys and values.
func ExecutionPreconditions(name string, pattern model.Pattern, fields Execution, ordering ...pass.Info) pass.Verifier {
	return pass.Verifier{
		Info: info(name, ordering),
		Fn: func(_ context.Context, s *model.State) []diag.Violation {
			var out []diag.Violation
			for _, section := range s.Match(pattern) {
				for _, e := range s.Entities(section) {
					out = append(out, checkExecution(section, e, fields)...)
				}
			}
			return out
		},
	}
}

func checkExecution(section model.SectionPath, e *model.Entity, f Execution) []diag.Violation {
	var out []diag.Violation
	add := func(field, format string, args ...any) {
		out = append(out, diag.Violation{
			Kind:     diag.KindExecutionPrecondition,
			Message:  fmt.Sprintf("%s %q: ", e.Kind(), e.ID()) + fmt.Sprintf(format, args...),
			Location: diag.Location{Section: section, Entity: e.ID(), Field: field},
			Related:  []string{e.ID()},
			Subject:  e.Range().Ptr(),
		})
	}

	if f.Command != "" {
		cmd, ok := e.StringField(f.Command)
		if !ok || strings.TrimSpace(cmd) == "" {
			add(f.Command, "empty or missing command")
		}
	}
	if f.Timeout != "" {
		if n, ok := e.IntField(f.Timeout); ok && n <= 0 {
			add(f.Timeout, "timeout must be positive, got %d", n)
		}
	}
	if f.Retries != "" {
		if n, ok := e.IntField(f.Retries); ok && n < 0 {
			add(f.Retries, "retries must not be negative, got %d", n)
		}
	}
	if f.Env != "" {
		if env, ok := e.Field(f.Env); ok && !env.IsNull() {
			for _, msg := range checkEnv(env) {
				add(f.Env, "%s", msg)
			}
		}
	}
	return out
}

func checkEnv(env cty.Value) []string {
	if !env.CanIterateElements() || !(env.Type().IsMapType() || env.Type().IsObjectType()) {
		return []string{"env must be a map of strings"}
	}
	type entry struct {
		key string
		val cty.Value
	}
	var entries []entry
	for it := env.ElementIterator(); it.Next(); {
		k, v := it.Element()
		entries = append(entries, entry{k.AsString(), v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	var msgs []string
	for _, en := range entries {
		switch {
		case en.key == "":
			msgs = append(msgs, "env keys must not be empty")
		case strings.ContainsAny(en.key, "=\x00"):
			msgs = append(msgs, fmt.Sprintf("env key %q must not contain '=' or NUL", en.key))
		}
		if en.val.IsNull() || !en.val.Type().Equals(cty.String) {
			msgs = append(msgs, fmt.Sprintf("env value for %q must be a string", en.key))
		}
	}
	return msgs
}
