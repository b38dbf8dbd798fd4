// Package constraint defines ordering edges between passes and the Store
// interface that collects them during declaration.
//
// A constraint names its endpoints by qualified name only. Nothing checks that
// either endpoint exists when a constraint is added: plugins load in arbitrary
// order and may refer to passes owned by plugins that are not part of the
// build. Filtering happens once, at resolution time.
package constraint
