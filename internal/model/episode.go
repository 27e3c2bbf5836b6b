package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DeformationEpisode is one stage of the applied stress and strain history.
//
// Episodes have no identifier of their own: they are addressed by their
// position in ArgumentPackage.Episodes, and removing one renumbers every
// later episode.
type DeformationEpisode struct {
	// Duration is the episode length in ma. NaN means the episode runs
	// until one of the termination criteria is met.
	Duration float64 `yaml:"duration" json:"duration"`

	// EhminAzimuth is the azimuth of the minimum horizontal strain, in
	// degrees.
	EhminAzimuth float64 `yaml:"ehminAzimuth" json:"ehminAzimuth"`

	// EhminRate and EhmaxRate are the horizontal strain rates, per ma.
	// Extension is negative.
	EhminRate float64 `yaml:"ehminRate" json:"ehminRate"`
	EhmaxRate float64 `yaml:"ehmaxRate" json:"ehmaxRate"`

	OverpressureRate    float64 `yaml:"overpressureRate" json:"overpressureRate"`
	TemperatureChange   float64 `yaml:"temperatureChange" json:"temperatureChange"`
	UpliftRate          float64 `yaml:"upliftRate" json:"upliftRate"`
	StressArchingFactor float64 `yaml:"stressArchingFactor" json:"stressArchingFactor"`
}

// NewDeformationEpisode returns an episode with the default load: open-ended
// duration and uniaxial extension of 0.01/ma along azimuth 0.
func NewDeformationEpisode() DeformationEpisode {
	return DeformationEpisode{
		Duration:            Unset(),
		EhminAzimuth:        0,
		EhminRate:           -0.01,
		EhmaxRate:           0,
		OverpressureRate:    0,
		TemperatureChange:   0,
		UpliftRate:          0,
		StressArchingFactor: 0,
	}
}

// UnmarshalJSON decodes an episode over NewDeformationEpisode, so omitted
// or null values keep the default load. Unknown keys are rejected.
func (e *DeformationEpisode) UnmarshalJSON(data []byte) error {
	type plain DeformationEpisode
	ep := plain(NewDeformationEpisode())
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ep); err != nil {
		return err
	}
	*e = DeformationEpisode(ep)
	return nil
}

// UnmarshalYAML decodes an episode over NewDeformationEpisode. A duration
// of .nan reads as unset.
func (e *DeformationEpisode) UnmarshalYAML(value *yaml.Node) error {
	type plain DeformationEpisode
	ep := plain(NewDeformationEpisode())
	if err := value.Decode(&ep); err != nil {
		return err
	}
	*e = DeformationEpisode(ep)
	return nil
}

// Label builds the list label of the episode at the given position.
func (e DeformationEpisode) Label(index int) string {
	duration := "until termination"
	if !IsUnset(e.Duration) {
		duration = formatNumber(e.Duration) + "ma"
	}
	return fmt.Sprintf("%d: %s; Ehmin %s/ma @ %sdeg; Ehmax %s/ma",
		index+1,
		duration,
		formatNumber(e.EhminRate),
		formatNumber(e.EhminAzimuth),
		formatNumber(e.EhmaxRate),
	)
}

func formatNumber(v float64) string {
	if IsUnset(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
