package pass

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/declc/internal/dag"
	"github.com/specialistvlad/declc/internal/diag"
)

// Schedule returns the pass names in an order that honours every before/after
// constraint. Whenever several passes are ready, the one declared first runs
// next. A constraint cycle yields a CircularDependency diagnostic naming the cycle.
func Schedule(infos []Info) ([]string, error) {
	g := dag.New()
	for _, info := range infos {
		if g.Has(info.Name) {
			return nil, fmt.Errorf("duplicate pass name %q", info.Name)
		}
		g.AddNode(info.Name)
	}

	for _, info := range infos {
		for _, next := range info.Before {
			if err := addConstraint(g, info.Name, next); err != nil {
				return nil, err
			}
		}
		for _, prev := range info.After {
			if err := addConstraint(g, prev, info.Name); err != nil {
				return nil, err
			}
		}
	}

	order, err := g.TopologicalSort()
	if err != nil {
		return nil, cycleDiagnostic(err)
	}
	return order, nil
}

func addConstraint(g *dag.Graph, from, to string) error {
	if !g.Has(from) || !g.Has(to) {
		return nil
	}
	if err := g.AddEdge(from, to); err != nil {
		return cycleDiagnostic(err)
	}
	return nil
}

func cycleDiagnostic(err error) error {
	ce := dag.AsCycleError(err)
	if ce == nil {
		return err
	}
	return diag.Single(diag.Violation{
		Kind:    diag.KindCircularDependency,
		Message: fmt.Sprintf("pass ordering cycle: %s", strings.Join(ce.Cycle, " -> ")),
		Related: ce.Members(),
	})
}

// OrderTransformers returns the transformers in scheduled order.
func OrderTransformers(ts []Transformer) ([]Transformer, error) {
	infos := make([]Info, len(ts))
	byName := make(map[string]Transformer, len(ts))
	for i, t := range ts {
		infos[i] = t.Info
		byName[t.Name] = t
	}
	order, err := Schedule(infos)
	if err != nil {
		return nil, err
	}
	out := make([]Transformer, len(order))
	for i, name := range order {
		out[i] = byName[name]
	}
	return out, nil
}

// OrderVerifiers returns the verifiers in scheduled order.
func OrderVerifiers(vs []Verifier) ([]Verifier, error) {
	infos := make([]Info, len(vs))
	byName := make(map[string]Verifier, len(vs))
	for i, v := range vs {
		infos[i] = v.Info
		byName[v.Name] = v
	}
	order, err := Schedule(infos)
	if err != nil {
		return nil, err
	}
	out := make([]Verifier, len(order))
	for i, name := range order {
		out[i] = byName[name]
	}
	return out, nil
}
