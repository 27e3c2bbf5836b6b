// Package units maps physical-quantity templates to the display symbols of a
// project unit system.
//
// Argument values are always kept in project units; the symbols only label
// editors. The initial microfracture density is the exception that has no
// template of its own, see derive.FractalDensityUnit.
package units

import (
	"fmt"
	"sort"
	"strings"
)

// Template names a physical quantity, such as Young's modulus or a
// geological timescale.
type Template string

const (
	General             Template = "general"
	YoungsModulus       Template = "youngs-modulus"
	PoissonRatio        Template = "poisson-ratio"
	Porosity            Template = "porosity"
	InverseTemperature  Template = "inverse-temperature"
	SurfaceTension      Template = "surface-tension"
	GeologicalTimescale Template = "geological-timescale"
	Velocity            Template = "velocity"
	MeasuredDepth       Template = "measured-depth"
	RockDensity         Template = "rock-density"
	LiquidDensity       Template = "liquid-density"
	Pressure            Template = "pressure"
	ThermalGradient     Template = "thermal-gradient"
	FractureAperture    Template = "fracture-aperture"
	StressEffective     Template = "stress-effective"
	PressureGradient    Template = "pressure-gradient"
	DipAzimuth          Template = "dip-azimuth"

	// ThicknessDepth is the project length template. It follows the
	// project's depth unit even when the coordinate reference system uses a
	// different horizontal unit.
	ThicknessDepth Template = "thickness-depth"
)

// System looks up the display symbol of a template.
type System interface {
	Symbol(t Template) string
}

// Table is a System backed by a fixed symbol map. Templates missing from
// the map (including General) have an empty symbol.
type Table struct {
	name    string
	symbols map[Template]string
}

// Name returns the unit system name.
func (t *Table) Name() string {
	return t.name
}

// Symbol returns the display symbol for tmpl.
func (t *Table) Symbol(tmpl Template) string {
	return t.symbols[tmpl]
}

// Metric is the SI-based project unit system.
var Metric = &Table{
	name: "metric",
	symbols: map[Template]string{
		YoungsModulus:       "Pa",
		InverseTemperature:  "1/degC",
		SurfaceTension:      "J/m2",
		GeologicalTimescale: "ma",
		Velocity:            "m/s",
		MeasuredDepth:       "m",
		RockDensity:         "kg/m3",
		LiquidDensity:       "kg/m3",
		Pressure:            "Pa",
		ThermalGradient:     "degC/m",
		FractureAperture:    "m",
		StressEffective:     "Pa",
		PressureGradient:    "Pa/m",
		DipAzimuth:          "rad",
		ThicknessDepth:      "m",
	},
}

// Field is the oilfield project unit system.
var Field = &Table{
	name: "field",
	symbols: map[Template]string{
		YoungsModulus:       "psi",
		InverseTemperature:  "1/degF",
		SurfaceTension:      "lbf/ft",
		GeologicalTimescale: "ma",
		Velocity:            "ft/s",
		MeasuredDepth:       "ft",
		RockDensity:         "g/cm3",
		LiquidDensity:       "g/cm3",
		Pressure:            "psi",
		ThermalGradient:     "degF/ft",
		FractureAperture:    "in",
		StressEffective:     "psi",
		PressureGradient:    "psi/ft",
		DipAzimuth:          "deg",
		ThicknessDepth:      "ft",
	},
}

var systems = map[string]*Table{
	Metric.name: Metric,
	Field.name:  Field,
}

// Lookup returns the unit system with the given name (case-insensitive).
func Lookup(name string) (*Table, error) {
	if t, ok := systems[strings.ToLower(name)]; ok {
		return t, nil
	}
	names := make([]string, 0, len(systems))
	for n := range systems {
		names = append(names, n)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown unit system %q (valid: %s)", name, strings.Join(names, ", "))
}
