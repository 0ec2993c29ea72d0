// Package pipeline registers the task-pipeline definition language.
//
// A pipeline declares tasks with a command, execution limits and the tasks
// they depend on. Compilation resolves the dependency graph and checks that
// every task could be executed.
package pipeline

import (
	_ "embed"

	"github.com/specialistvlad/declc/internal/depgraph"
	"github.com/specialistvlad/declc/internal/manifest"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/pass"
	"github.com/specialistvlad/declc/internal/registry"
	"github.com/specialistvlad/declc/internal/verify"
)

//go:embed manifest.hcl
var manifestSrc []byte

// Name is the registered language name.
const Name = "pipeline"

// Tasks is the section holding task entities.
var Tasks = model.Path("tasks")

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the language with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Language())
}

// Language builds the pipeline language definition.
func Language() *registry.Language {
	def := manifest.MustParse(manifestSrc, "pipeline/manifest.hcl")
	tasks := model.MustPattern("tasks")

	return &registry.Language{
		Name:        def.Name,
		Description: def.Description,
		Root:        def.Root,
		Transformers: []pass.Transformer{
			depgraph.Transformer(depgraph.Options{
				Section:       Tasks,
				ParallelField: "parallel",
			}),
		},
		Verifiers: []pass.Verifier{
			verify.Uniqueness("unique_tasks", tasks),
			verify.ExecutionPreconditions("task_preconditions", tasks, verify.Execution{
				Command: "command",
				Timeout: "timeout",
				Retries: "retries",
				Env:     "env",
			}, pass.Info{After: []string{"unique_tasks"}}),
		},
	}
}

// Dependencies returns the resolved task graph of a compiled pipeline.
func Dependencies(src model.PersistedReader) (*depgraph.Resolved, error) {
	return depgraph.Of(src, Tasks)
}
