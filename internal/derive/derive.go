// Package derive computes editor state that depends on argument values
// rather than being stored in the argument package: which aperture parameter
// group is editable, whether the oblique-fracture controls are enabled, and
// the unit label of the initial microfracture density.
//
// All functions are pure and idempotent.
package derive

import (
	"fmt"
	"strconv"

	"github.com/shinji-kodama/dfmgen/internal/model"
)

// ApertureGroups is the enabled state of the four aperture parameter groups.
type ApertureGroups struct {
	Uniform       bool
	SizeDependent bool
	Dynamic       bool
	BartonBandis  bool
}

// ApertureGroupsFor enables exactly the group that belongs to method. An
// unset or unrecognized method disables all four.
func ApertureGroupsFor(method model.ApertureMethod) ApertureGroups {
	switch method {
	case model.ApertureUniform:
		return ApertureGroups{Uniform: true}
	case model.ApertureSizeDependent:
		return ApertureGroups{SizeDependent: true}
	case model.ApertureDynamic:
		return ApertureGroups{Dynamic: true}
	case model.ApertureBartonBandis:
		return ApertureGroups{BartonBandis: true}
	default:
		return ApertureGroups{}
	}
}

// ObliqueControlsEnabled reports whether the fracture-set count control and
// the check-all-microfracture-stress-shadows control are editable. Both
// only apply when oblique fractures are modelled.
func ObliqueControlsEnabled(includeObliqueFracs bool) bool {
	return includeObliqueFracs
}

// CheckAllStressShadows is the value the check-all-microfracture-stress-
// shadows flag takes when the user changes the number of fracture sets:
// with more than two sets, microfractures must be checked against the
// stress shadows of every macrofracture set.
func CheckAllStressShadows(noFractureSets int) bool {
	return noFractureSets > 2
}

// FractalDensityUnit derives the unit of the initial microfracture density A
// from the size-distribution exponent c, given the project length symbol.
//
// A is defined through n = A.r^-c, so [A] = [L]^(c-3):
//
//	c < 3          fracs/L^(3-c)
//	c > 3          frac.L^(c-3)
//	c == 3, unset  fracs
func FractalDensityUnit(c float64, lengthUnit string) string {
	switch {
	case c < 3:
		return fmt.Sprintf("fracs/%s^%s", lengthUnit, formatExponent(3-c))
	case c > 3:
		return fmt.Sprintf("frac.%s^%s", lengthUnit, formatExponent(c-3))
	default:
		// NaN fails both comparisons and lands here with c == 3.
		return "fracs"
	}
}

// formatExponent prints up to ten significant digits so that float noise
// such as 4.2-3 = 1.2000000000000002 renders as "1.2".
func formatExponent(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
