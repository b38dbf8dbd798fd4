package constraint

import "context"

// Store collects constraints during declaration.
//
// Implementations must be safe for concurrent use, since plugin discovery may
// declare from several goroutines. Once resolution starts the store is only
// read.
type Store interface {
	// Add records a constraint. It performs no validation of the endpoints.
	Add(ctx context.Context, c Constraint) error

	// All returns a snapshot of every constraint in insertion order.
	All(ctx context.Context) []Constraint

	// Len returns the number of stored constraints.
	Len(ctx context.Context) int
}
