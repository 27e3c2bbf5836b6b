package model

import (
	"fmt"
	"math"
	"path"
	"strings"
)

// UnsetInt is the reserved integer sentinel meaning "blank". Real-valued
// fields use NaN instead (see Unset).
const UnsetInt = -999

// Unset returns the real-valued "blank" sentinel.
func Unset() float64 {
	return math.NaN()
}

// IsUnset reports whether a real value carries the unset sentinel.
func IsUnset(v float64) bool {
	return math.IsNaN(v)
}

// GridRef identifies the pillar grid the model is built on.
// The empty string is the null reference.
type GridRef string

// PropertyRef identifies a grid property that supplies per-cell values for
// a mechanical or stress input. The empty string is the null reference.
type PropertyRef string

// GridResultRef identifies a result computed by a simulation case on the
// grid (for example a geomechanical Young's modulus output). The empty
// string is the null reference.
type GridResultRef string

// IsNull reports whether the reference is empty.
func (r GridRef) IsNull() bool { return r == "" }

// IsNull reports whether the reference is empty.
func (r PropertyRef) IsNull() bool { return r == "" }

// IsNull reports whether the reference is empty.
func (r GridResultRef) IsNull() bool { return r == "" }

// Name returns the last path segment of the reference, which is what a
// project tree shows for the object.
func (r GridRef) Name() string { return refName(string(r)) }

// Name returns the last path segment of the reference.
func (r PropertyRef) Name() string { return refName(string(r)) }

// Name returns the last path segment of the reference.
func (r GridResultRef) Name() string { return refName(string(r)) }

func refName(s string) string {
	if s == "" {
		return ""
	}
	return path.Base(strings.TrimRight(s, "/"))
}

// DualSource is a mechanical property that can come either from a grid
// property or from a simulation grid result, with a scalar default used for
// cells (or whole models) where neither is supplied.
//
// At most one of Property and GridResult is non-null. Callers should use
// SetProperty / SetGridResult, which keep the pair exclusive; Normalize
// repairs values decoded from a file.
type DualSource struct {
	Property   PropertyRef   `yaml:"property,omitempty" json:"property,omitempty"`
	GridResult GridResultRef `yaml:"gridResult,omitempty" json:"gridResult,omitempty"`
	Default    float64       `yaml:"default" json:"default"`
}

// SetProperty binds a grid property and clears the grid result.
func (d *DualSource) SetProperty(p PropertyRef) {
	d.Property = p
	d.GridResult = ""
}

// SetGridResult binds a grid result and clears the property.
// Setting a null grid result leaves the property untouched.
func (d *DualSource) SetGridResult(g GridResultRef) {
	d.GridResult = g
	if !g.IsNull() {
		d.Property = ""
	}
}

// Clear removes both references; the default is kept.
func (d *DualSource) Clear() {
	d.Property = ""
	d.GridResult = ""
}

// Normalize enforces the exclusion rule on a value that bypassed the
// setters. The grid result wins when both references are present.
func (d *DualSource) Normalize() {
	if !d.GridResult.IsNull() {
		d.Property = ""
	}
}

// SingleSource is an input that can be read from a grid property, falling
// back to a scalar default.
type SingleSource struct {
	Property PropertyRef `yaml:"property,omitempty" json:"property,omitempty"`
	Default  float64     `yaml:"default" json:"default"`
}

// ApertureMethod selects how fracture apertures are calculated.
type ApertureMethod int

const (
	ApertureUniform ApertureMethod = iota
	ApertureSizeDependent
	ApertureDynamic
	ApertureBartonBandis
)

// ApertureMethodNames are the display names of the aperture methods, in
// enumeration order.
var ApertureMethodNames = []string{"Uniform Aperture", "Size Dependent", "Dynamic Aperture", "Barton-Bandis"}

// String returns the display name, or "Unknown(<n>)" for values outside
// the enumeration.
func (m ApertureMethod) String() string {
	if m < 0 || int(m) >= len(ApertureMethodNames) {
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
	return ApertureMethodNames[m]
}

// StressDistribution selects how stress is distributed between fractures.
type StressDistribution int

const (
	StressEvenlyDistributed StressDistribution = iota
	StressShadow
	StressDuctileBoundary
)

// StressDistributionNames are the display names, in enumeration order.
var StressDistributionNames = []string{"Evenly Distributed Stress", "Stress Shadow", "Ductile Boundary"}

// DFNFileType selects the format of explicit DFN output files.
type DFNFileType int

const (
	DFNFileASCII DFNFileType = iota
	DFNFileFAB
)

// DFNFileTypeNames are the display names, in enumeration order.
var DFNFileTypeNames = []string{"ASCII", "FAB"}

// IntervalControl selects how intermediate output times are spaced.
type IntervalControl int

const (
	IntervalEqualArea IntervalControl = iota
	IntervalEqualTime
	IntervalEpisodeEnd
)

// IntervalControlNames are the display names, in enumeration order.
var IntervalControlNames = []string{"Equal Area", "Equal Time", "End of Episode"}

// FractureMode fixes the fracture mode or lets the engine choose the
// optimal one.
type FractureMode int

const (
	FractureModeOptimal FractureMode = iota
	FractureModeMode1
	FractureModeMode2
)

// FractureModeNames are the display names, in enumeration order.
var FractureModeNames = []string{"Optimal", "Mode 1", "Mode 2"}

// SearchAdjacent controls whether fractures propagating out of a gridblock
// search neighbouring gridblocks for a continuation.
type SearchAdjacent int

const (
	SearchNone SearchAdjacent = iota
	SearchAll
	SearchAutomatic
)

// SearchAdjacentNames are the display names, in enumeration order.
var SearchAdjacentNames = []string{"None", "All", "Automatic"}

// ExitCode defines the process exit codes of the dfmgen host.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitPackageNotFound indicates the argument package file does not exist.
	ExitPackageNotFound ExitCode = 2

	// ExitEngineUnavailable indicates the calculation engine (for example
	// the Docker daemon hosting it) could not be reached.
	ExitEngineUnavailable ExitCode = 3

	// ExitEngineFailed indicates the engine ran but reported a failure.
	ExitEngineFailed ExitCode = 4

	// ExitUnknownField indicates an edit named an editor that does not exist.
	ExitUnknownField ExitCode = 5

	// ExitLocked indicates the package file is locked by another process.
	ExitLocked ExitCode = 6
)

// CLIError is an error that carries an exit code, letting the CLI layer
// translate failures into process exit statuses.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error returns the message, followed by the underlying error when present.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
