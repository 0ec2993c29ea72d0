package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/declc/internal/ctxlog"
	"github.com/specialistvlad/declc/internal/fsutil"
)

// Extension is the file extension of declaration sources.
const Extension = ".hcl"

// Unit is one compilation unit: the parsed files that are compiled together.
type Unit struct {
	// Name identifies the unit; it is the path it was loaded from.
	Name string
	// Files holds the parsed files in compilation order.
	Files []*hcl.File
	// Paths holds the file names, aligned with Files.
	Paths []string
	// Sources maps file names to parsed files for source-snippet rendering.
	Sources map[string]*hcl.File
}

// Load returns one unit per path. A directory path yields a unit of all .hcl
// files beneath it; a file path yields a single-file unit.
func Load(ctx context.Context, paths ...string) ([]*Unit, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Source loader started.", "path_count", len(paths))

	units := make([]*Unit, 0, len(paths))
	for _, path := range paths {
		files, err := findHCLFiles(path)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no %s files found in %s", Extension, path)
		}

		parser := hclparse.NewParser()
		unit := &Unit{Name: path}
		for _, file := range files {
			hclFile, diags := parser.ParseHCLFile(file)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
			}
			unit.Files = append(unit.Files, hclFile)
			unit.Paths = append(unit.Paths, file)
		}
		unit.Sources = parser.Files()
		logger.Debug("Loaded unit.", "unit", unit.Name, "files", len(unit.Files))
		units = append(units, unit)
	}
	return units, nil
}

// ParseUnit builds a unit from in-memory sources keyed by file name. Files
// are ordered by name.
func ParseUnit(name string, sources map[string]string) (*Unit, error) {
	names := make([]string, 0, len(sources))
	for n := range sources {
		names = append(names, n)
	}
	sort.Strings(names)

	parser := hclparse.NewParser()
	unit := &Unit{Name: name}
	for _, n := range names {
		f, diags := parser.ParseHCL([]byte(sources[n]), n)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", n, diags)
		}
		unit.Files = append(unit.Files, f)
		unit.Paths = append(unit.Paths, n)
	}
	unit.Sources = parser.Files()
	return unit, nil
}

// findHCLFiles returns the .hcl files for one path, sorted.
func findHCLFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}
	if !info.IsDir() {
		if filepath.Ext(path) != Extension {
			return nil, fmt.Errorf("%s is not a %s file", path, Extension)
		}
		return []string{path}, nil
	}

	files, err := fsutil.FindSources(path, Extension)
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}
	return files, nil
}
