package app

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/declc/internal/ctxlog"
	"github.com/specialistvlad/declc/internal/depgraph"
	"github.com/specialistvlad/declc/internal/fsutil"
	"github.com/specialistvlad/declc/internal/manifest"
	"github.com/specialistvlad/declc/internal/model"
	"github.com/specialistvlad/declc/internal/registry"
	"github.com/specialistvlad/declc/internal/schema"
	"github.com/specialistvlad/declc/internal/source"
	"github.com/specialistvlad/declc/internal/verify"
)

// loadManifests reads every language declared in the manifest files found
// under paths.
func loadManifests(ctx context.Context, paths []string) ([]*registry.Language, error) {
	logger := ctxlog.FromContext(ctx)

	var langs []*registry.Language
	for _, path := range paths {
		files, err := manifestFiles(path)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			src, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read manifest %s: %w", file, err)
			}
			defs, err := manifest.Parse(src, file)
			if err != nil {
				return nil, err
			}
			for _, def := range defs {
				logger.Debug("Loaded language manifest.", "language", def.Name, "file", file)
				langs = append(langs, manifestLanguage(def))
			}
		}
	}
	return langs, nil
}

func manifestFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing manifest path %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := fsutil.FindSources(path, source.Extension)
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}
	return files, nil
}

// manifestLanguage gives a manifest-only language the generic passes: a
// uniqueness check for every identified section, and dependency resolution
// for top-level entities that declare a depends_on list.
func manifestLanguage(def *manifest.Language) *registry.Language {
	lang := &registry.Language{
		Name:        def.Name,
		Description: def.Description,
		Root:        def.Root,
	}

	seen := make(map[string]bool)
	def.Root.Walk(func(spec *schema.EntitySpec) {
		if spec == def.Root || spec.Identifier == "" || seen[spec.SectionName()] {
			return
		}
		seen[spec.SectionName()] = true
		lang.Verifiers = append(lang.Verifiers,
			verify.Uniqueness("unique_"+spec.SectionName(), model.MustPattern("**/"+spec.SectionName())))
	})

	for _, child := range def.Root.Children {
		f, ok := child.Field("depends_on")
		if !ok || child.Identifier == "" || f.Type.Kind != schema.KindList {
			continue
		}
		lang.Transformers = append(lang.Transformers, depgraph.Transformer(depgraph.Options{
			Section:  model.Path(child.SectionName()),
			PassName: "resolve_" + child.SectionName(),
		}))
	}
	return lang
}
