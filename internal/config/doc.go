// Package config defines the format-agnostic model of plugin manifests and
// the Loader interface that format-specific packages implement.
//
// A manifest declares plugins the same way Go code does through package
// declare: a plugin holds sequences, one per phase chain, each listing passes
// in order, plus free-standing constraints. The HCL and YAML loaders both
// produce this model, so a manifest resolves to the same plan whichever
// format it is written in.
package config
