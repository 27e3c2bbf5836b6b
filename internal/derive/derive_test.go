package derive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shinji-kodama/dfmgen/internal/model"
)

func TestApertureGroupsFor(t *testing.T) {
	tests := []struct {
		method model.ApertureMethod
		want   ApertureGroups
	}{
		{model.ApertureUniform, ApertureGroups{Uniform: true}},
		{model.ApertureSizeDependent, ApertureGroups{SizeDependent: true}},
		{model.ApertureDynamic, ApertureGroups{Dynamic: true}},
		{model.ApertureBartonBandis, ApertureGroups{BartonBandis: true}},
		{model.ApertureMethod(-1), ApertureGroups{}},
		{model.ApertureMethod(4), ApertureGroups{}},
	}

	for _, tt := range tests {
		t.Run(tt.method.String(), func(t *testing.T) {
			first := ApertureGroupsFor(tt.method)
			second := ApertureGroupsFor(tt.method)
			assert.Equal(t, tt.want, first)
			assert.Equal(t, first, second, "rule must be idempotent")
		})
	}
}

func TestObliqueControlsEnabled(t *testing.T) {
	assert.True(t, ObliqueControlsEnabled(true))
	assert.False(t, ObliqueControlsEnabled(false))
}

func TestCheckAllStressShadows(t *testing.T) {
	assert.False(t, CheckAllStressShadows(1))
	assert.False(t, CheckAllStressShadows(2))
	assert.True(t, CheckAllStressShadows(3))
	assert.True(t, CheckAllStressShadows(6))
}

func TestFractalDensityUnit(t *testing.T) {
	tests := []struct {
		name string
		c    float64
		unit string
		want string
	}{
		{name: "c below 3", c: 1.5, unit: "m", want: "fracs/m^1.5"},
		{name: "c equals 3", c: 3, unit: "m", want: "fracs"},
		{name: "c above 3 with float noise", c: 4.2, unit: "m", want: "frac.m^1.2"},
		{name: "c unset", c: math.NaN(), unit: "m", want: "fracs"},
		{name: "integer exponent", c: 1, unit: "ft", want: "fracs/ft^2"},
		{name: "negative c", c: -0.5, unit: "m", want: "fracs/m^3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FractalDensityUnit(tt.c, tt.unit))
		})
	}
}
