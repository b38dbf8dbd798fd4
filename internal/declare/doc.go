// Package declare is the surface plugins use to contribute passes and
// ordering constraints.
//
// A plugin receives a *Plugin handle, opens one Sequence per ordered chain of
// passes it wants in a phase, and calls Run for each pass. Every Run returns a
// *DeclaringPass through which advisory edges to other plugins or passes can
// be chained:
//
//	seq := p.Sequence(phase.Transforming)
//	seq.Run(pass.Descriptor{QualifiedName: "com.example.lint"}).
//		BeforePlugin("com.example.pack")
//	seq.Run(pass.Descriptor{QualifiedName: "com.example.fix"})
//
// Passes of one sequence are chained with mandatory edges in declaration
// order. Each (plugin, phase) pair gets a start and an end anchor that bracket
// every sequence the plugin opens in that phase, so other plugins can order
// against the plugin as a whole without knowing its pass names.
//
// Declaration errors never break the fluent chain. They are available from
// DeclaringPass.Err as soon as they happen and are collected on the plugin,
// where Plugin.Err reports them all.
package declare
