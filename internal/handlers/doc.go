// Package handlers maps the handler names used in plugin manifests to the Go
// code that implements each pass.
//
// A handler is registered once, by a Module, under a unique name. When a
// manifest pass names it, Bind decodes the pass's config value into the
// handler's config struct through go-cty and asks the handler to build the
// pass body. Config structs use `cty` tags; pointer, slice and map fields are
// optional, every other tagged field is required.
package handlers
