// Package app contains the application logic behind the passorder binary. It
// loads plugin manifests, binds their handlers, resolves the pass order and
// prints or runs the result, decoupled from any specific entrypoint like a
// CLI.
package app
