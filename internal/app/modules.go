package app

import (
	"github.com/specialistvlad/declc/internal/registry"
	"github.com/specialistvlad/declc/modules/contract"
	"github.com/specialistvlad/declc/modules/pipeline"
)

// coreModules is the definitive list of all languages that are compiled into
// the declc binary.
var coreModules = []registry.Module{
	&pipeline.Module{},
	&contract.Module{},
}
