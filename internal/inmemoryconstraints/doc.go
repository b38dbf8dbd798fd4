// Package inmemoryconstraints provides a simple, thread-safe, in-memory
// implementation of the constraint.Store interface.
package inmemoryconstraints
