// Package model defines the argument package of a DFN generator job and the
// value types it is built from.
//
// The argument package is a plain mutable struct shared by reference between
// every editor view bound to the same workflow context. It performs no
// validation beyond two invariants:
//
//   - numeric fields use sentinels for "unset" (NaN for reals, UnsetInt for
//     integers), which are distinct from zero
//   - each dual-source mechanical property holds at most one of a property
//     reference and a grid-result reference
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) used by the command-line host.
package model
