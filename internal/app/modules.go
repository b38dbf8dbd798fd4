package app

import (
	"github.com/specialistvlad/passorder/internal/handlers"
	"github.com/specialistvlad/passorder/modules/env_vars"
	"github.com/specialistvlad/passorder/modules/print"
)

// coreModules is the definitive list of all handler modules that are
// compiled into the passorder binary.
var coreModules = []handlers.Module{
	&env_vars.Module{},
	&print.Module{},
}
