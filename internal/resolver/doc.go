// Package resolver turns a set of plugin descriptors into one execution plan.
//
// Resolve lets every plugin declare itself, merges all passes and constraints,
// drops advisory constraints that point at passes absent from the build, and
// sorts each phase independently. The phases are then concatenated in their
// fixed order. Any fatal problem aborts the whole resolution: either every
// pass is ordered or no plan is returned.
//
// Errors are typed so callers can inspect them with errors.As, and each type
// also matches a sentinel for errors.Is:
//
//	DuplicateNameError       ErrDuplicateQualifiedName
//	DanglingConstraintError  ErrDanglingMandatoryConstraint
//	CycleError               ErrCyclicDependency
//	PhaseOrderError          ErrPhaseOrderViolation
//
// Messages never show internal anchor names. An anchor is described through
// the plugin that owns it, such as "start of plugin X in phase transforming".
package resolver
