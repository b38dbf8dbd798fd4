// Package plan holds the result of a resolution: the ordered passes to run,
// phase by phase, and the advisory constraints that were dropped on the way.
//
// A Plan is a value. Nothing mutates it after the resolver returns it, so it
// can be handed to any number of goroutines.
package plan
