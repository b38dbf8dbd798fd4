// Package passregistry holds the set of declared passes, keyed by their
// globally unique qualified name.
//
// Every registered pass receives a stable declaration index, its pass.ID. The
// index is what the resolver uses to break ties between passes that are ready
// at the same time, so the order in which passes reach a registry is the order
// they keep whenever no constraint says otherwise.
//
// A registry is append-only. Passes, anchors included, are never removed.
package passregistry
