package model

// ArgumentPackage is the complete configuration of one DFN generator job.
//
// It is owned by the surrounding workflow context and shared by reference
// between all editor views on that context. Fields are written only by a
// controller store pass, by ResetDefaults, or by the episode lifecycle
// operations; there is no validation beyond the DualSource exclusion rule.
type ArgumentPackage struct {
	// ModelName is the name given to the generated fracture model.
	ModelName string `yaml:"modelName" json:"modelName"`

	// Grid is the pillar grid the model is built on.
	Grid GridRef `yaml:"grid,omitempty" json:"grid,omitempty"`

	// Region restricts the calculation to a sub-volume of the grid.
	Region GridRegion `yaml:"region" json:"region"`

	GenerateExplicitDFN   bool `yaml:"generateExplicitDFN" json:"generateExplicitDFN"`
	NoIntermediateOutputs int  `yaml:"noIntermediateOutputs" json:"noIntermediateOutputs"`
	IncludeObliqueFracs   bool `yaml:"includeObliqueFracs" json:"includeObliqueFracs"`

	// Episodes is the ordered stress/strain history. Indices are always
	// contiguous from 0.
	Episodes []DeformationEpisode `yaml:"episodes" json:"episodes"`

	Mechanical  MechanicalProperties `yaml:"mechanical" json:"mechanical"`
	Stress      StressState          `yaml:"stress" json:"stress"`
	Output      OutputControl        `yaml:"output" json:"output"`
	Aperture    ApertureControl      `yaml:"aperture" json:"aperture"`
	Calculation CalculationControl   `yaml:"calculation" json:"calculation"`
}

// GridRegion is the I/J/K index window of the grid to model.
// All values are 1-based cell indices or UnsetInt.
type GridRegion struct {
	StartColI    int `yaml:"startColI" json:"startColI"`
	NoColsI      int `yaml:"noColsI" json:"noColsI"`
	StartRowJ    int `yaml:"startRowJ" json:"startRowJ"`
	NoRowsJ      int `yaml:"noRowsJ" json:"noRowsJ"`
	TopLayerK    int `yaml:"topLayerK" json:"topLayerK"`
	BottomLayerK int `yaml:"bottomLayerK" json:"bottomLayerK"`
}

// MechanicalProperties groups the elastic, plastic and fracture-growth
// inputs. The first seven are dual-source.
type MechanicalProperties struct {
	YoungsMod                   DualSource `yaml:"youngsMod" json:"youngsMod"`
	PoissonsRatio               DualSource `yaml:"poissonsRatio" json:"poissonsRatio"`
	Porosity                    DualSource `yaml:"porosity" json:"porosity"`
	BiotCoefficient             DualSource `yaml:"biotCoefficient" json:"biotCoefficient"`
	ThermalExpansionCoefficient DualSource `yaml:"thermalExpansionCoefficient" json:"thermalExpansionCoefficient"`
	FrictionCoefficient         DualSource `yaml:"frictionCoefficient" json:"frictionCoefficient"`
	CrackSurfaceEnergy          DualSource `yaml:"crackSurfaceEnergy" json:"crackSurfaceEnergy"`

	RockStrainRelaxation     SingleSource `yaml:"rockStrainRelaxation" json:"rockStrainRelaxation"`
	FractureStrainRelaxation SingleSource `yaml:"fractureStrainRelaxation" json:"fractureStrainRelaxation"`

	// InitialMicrofractureDensity is A in n = A.r^-c. Its unit depends on
	// InitialMicrofractureSizeDistribution (c).
	InitialMicrofractureDensity          SingleSource `yaml:"initialMicrofractureDensity" json:"initialMicrofractureDensity"`
	InitialMicrofractureSizeDistribution SingleSource `yaml:"initialMicrofractureSizeDistribution" json:"initialMicrofractureSizeDistribution"`
	SubcriticalPropagationIndex          SingleSource `yaml:"subcriticalPropagationIndex" json:"subcriticalPropagationIndex"`

	CriticalPropagationRate       float64 `yaml:"criticalPropagationRate" json:"criticalPropagationRate"`
	AverageMechanicalPropertyData bool    `yaml:"averageMechanicalPropertyData" json:"averageMechanicalPropertyData"`
}

// DualSources returns pointers to the seven dual-source properties in
// display order.
func (m *MechanicalProperties) DualSources() []*DualSource {
	return []*DualSource{
		&m.YoungsMod,
		&m.PoissonsRatio,
		&m.Porosity,
		&m.BiotCoefficient,
		&m.ThermalExpansionCoefficient,
		&m.FrictionCoefficient,
		&m.CrackSurfaceEnergy,
	}
}

// StressState describes the in situ stress and load conditions at the time
// of deformation.
type StressState struct {
	Distribution                 StressDistribution `yaml:"distribution" json:"distribution"`
	DepthAtDeformation           SingleSource       `yaml:"depthAtDeformation" json:"depthAtDeformation"`
	MeanOverlyingSedimentDensity float64            `yaml:"meanOverlyingSedimentDensity" json:"meanOverlyingSedimentDensity"`
	FluidDensity                 float64            `yaml:"fluidDensity" json:"fluidDensity"`
	InitialOverpressure          float64            `yaml:"initialOverpressure" json:"initialOverpressure"`
	GeothermalGradient           float64            `yaml:"geothermalGradient" json:"geothermalGradient"`
	InitialStressRelaxation      float64            `yaml:"initialStressRelaxation" json:"initialStressRelaxation"`
	AverageStressStrainData      bool               `yaml:"averageStressStrainData" json:"averageStressStrainData"`
}

// OutputControl selects which files and derived indices the engine writes.
type OutputControl struct {
	WriteImplicitDataFiles                  bool            `yaml:"writeImplicitDataFiles" json:"writeImplicitDataFiles"`
	WriteDFNFiles                           bool            `yaml:"writeDFNFiles" json:"writeDFNFiles"`
	WriteToProjectFolder                    bool            `yaml:"writeToProjectFolder" json:"writeToProjectFolder"`
	DFNFileType                             DFNFileType     `yaml:"dfnFileType" json:"dfnFileType"`
	IntermediateOutputIntervalControl       IntervalControl `yaml:"intermediateOutputIntervalControl" json:"intermediateOutputIntervalControl"`
	OutputCentrepoints                      bool            `yaml:"outputCentrepoints" json:"outputCentrepoints"`
	CalculateFractureConnectivityAnisotropy bool            `yaml:"calculateFractureConnectivityAnisotropy" json:"calculateFractureConnectivityAnisotropy"`
	CalculateFracturePorosity               bool            `yaml:"calculateFracturePorosity" json:"calculateFracturePorosity"`
	CalculateBulkRockElasticTensors         bool            `yaml:"calculateBulkRockElasticTensors" json:"calculateBulkRockElasticTensors"`
}

// ApertureControl holds the aperture model selection and the parameter set
// of every model. Only the set matching Method is used by the engine.
type ApertureControl struct {
	Method ApertureMethod `yaml:"method" json:"method"`

	// Uniform aperture
	HMinUniform float64 `yaml:"hMinUniform" json:"hMinUniform"`
	HMaxUniform float64 `yaml:"hMaxUniform" json:"hMaxUniform"`

	// Size dependent aperture
	HMinSizeDependentMultiplier float64 `yaml:"hMinSizeDependentMultiplier" json:"hMinSizeDependentMultiplier"`
	HMaxSizeDependentMultiplier float64 `yaml:"hMaxSizeDependentMultiplier" json:"hMaxSizeDependentMultiplier"`

	// Dynamic aperture
	DynamicMultiplier float64 `yaml:"dynamicMultiplier" json:"dynamicMultiplier"`

	// Barton-Bandis aperture
	JRC                     float64 `yaml:"jrc" json:"jrc"`
	UCSRatio                float64 `yaml:"ucsRatio" json:"ucsRatio"`
	InitialNormalStress     float64 `yaml:"initialNormalStress" json:"initialNormalStress"`
	FractureNormalStiffness float64 `yaml:"fractureNormalStiffness" json:"fractureNormalStiffness"`
	MaximumClosure          float64 `yaml:"maximumClosure" json:"maximumClosure"`
}

// CalculationControl holds the solver, termination and DFN geometry
// settings.
type CalculationControl struct {
	NoFractureSets                     int          `yaml:"noFractureSets" json:"noFractureSets"`
	FractureMode                       FractureMode `yaml:"fractureMode" json:"fractureMode"`
	CheckAllMicrofractureStressShadows bool         `yaml:"checkAllMicrofractureStressShadows" json:"checkAllMicrofractureStressShadows"`
	AnisotropyCutoff                   float64      `yaml:"anisotropyCutoff" json:"anisotropyCutoff"`
	AllowReverseFractures              bool         `yaml:"allowReverseFractures" json:"allowReverseFractures"`
	FractureNucleationPosition         float64      `yaml:"fractureNucleationPosition" json:"fractureNucleationPosition"`
	HorizontalUpscalingFactor          int          `yaml:"horizontalUpscalingFactor" json:"horizontalUpscalingFactor"`
	MaxTimestepDuration                float64      `yaml:"maxTimestepDuration" json:"maxTimestepDuration"`
	MaxTimestepMFP33Increase           float64      `yaml:"maxTimestepMFP33Increase" json:"maxTimestepMFP33Increase"`
	MinimumImplicitMicrofractureRadius float64      `yaml:"minimumImplicitMicrofractureRadius" json:"minimumImplicitMicrofractureRadius"`
	NoRBins                            int          `yaml:"noRBins" json:"noRBins"`

	// Termination controls
	MaxNoTimesteps                int     `yaml:"maxNoTimesteps" json:"maxNoTimesteps"`
	HistoricMFP33TerminationRatio float64 `yaml:"historicMFP33TerminationRatio" json:"historicMFP33TerminationRatio"`
	ActiveMFP30TerminationRatio   float64 `yaml:"activeMFP30TerminationRatio" json:"activeMFP30TerminationRatio"`
	MinimumClearZoneVolume        float64 `yaml:"minimumClearZoneVolume" json:"minimumClearZoneVolume"`

	// DFN geometry controls
	CropAtGridBoundary                   bool           `yaml:"cropAtGridBoundary" json:"cropAtGridBoundary"`
	LinkParallelFractures                bool           `yaml:"linkParallelFractures" json:"linkParallelFractures"`
	MaxConsistencyAngle                  float64        `yaml:"maxConsistencyAngle" json:"maxConsistencyAngle"`
	MinimumLayerThickness                float64        `yaml:"minimumLayerThickness" json:"minimumLayerThickness"`
	CreateTriangularFractureSegments     bool           `yaml:"createTriangularFractureSegments" json:"createTriangularFractureSegments"`
	ProbabilisticFractureNucleationLimit float64        `yaml:"probabilisticFractureNucleationLimit" json:"probabilisticFractureNucleationLimit"`
	PropagateFracturesInNucleationOrder  bool           `yaml:"propagateFracturesInNucleationOrder" json:"propagateFracturesInNucleationOrder"`
	SearchAdjacentGridblocks             SearchAdjacent `yaml:"searchAdjacentGridblocks" json:"searchAdjacentGridblocks"`
	MinimumExplicitMicrofractureRadius   float64        `yaml:"minimumExplicitMicrofractureRadius" json:"minimumExplicitMicrofractureRadius"`
	NoMicrofractureCornerpoints          int            `yaml:"noMicrofractureCornerpoints" json:"noMicrofractureCornerpoints"`
}

// NewArgumentPackage returns a package holding the built-in defaults.
func NewArgumentPackage() *ArgumentPackage {
	p := &ArgumentPackage{}
	p.ResetDefaults()
	return p
}

// ResetDefaults overwrites every field with its built-in default and
// replaces the episode collection with the default history.
func (p *ArgumentPackage) ResetDefaults() {
	*p = ArgumentPackage{
		ModelName: DefaultModelName,
		Region: GridRegion{
			StartColI:    1,
			NoColsI:      1,
			StartRowJ:    1,
			NoRowsJ:      1,
			TopLayerK:    1,
			BottomLayerK: 1,
		},
		GenerateExplicitDFN:   true,
		NoIntermediateOutputs: 0,
		IncludeObliqueFracs:   false,
		Episodes:              []DeformationEpisode{NewDeformationEpisode()},
		Mechanical: MechanicalProperties{
			// Values are in project units: Pa, degC^-1, J/m2, ma, m/s.
			YoungsMod:                            DualSource{Default: 10e9},
			PoissonsRatio:                        DualSource{Default: 0.25},
			Porosity:                             DualSource{Default: 0.2},
			BiotCoefficient:                      DualSource{Default: 1},
			ThermalExpansionCoefficient:          DualSource{Default: 4e-5},
			FrictionCoefficient:                  DualSource{Default: 0.5},
			CrackSurfaceEnergy:                   DualSource{Default: 1000},
			RockStrainRelaxation:                 SingleSource{Default: 0},
			FractureStrainRelaxation:             SingleSource{Default: 0},
			InitialMicrofractureDensity:          SingleSource{Default: 0.001},
			InitialMicrofractureSizeDistribution: SingleSource{Default: 1.5},
			SubcriticalPropagationIndex:          SingleSource{Default: 10},
			CriticalPropagationRate:              2000,
			AverageMechanicalPropertyData:        true,
		},
		Stress: StressState{
			Distribution:                 StressShadow,
			DepthAtDeformation:           SingleSource{Default: Unset()},
			MeanOverlyingSedimentDensity: 2250,
			FluidDensity:                 1000,
			InitialOverpressure:          0,
			GeothermalGradient:           0.03,
			InitialStressRelaxation:      1,
			AverageStressStrainData:      false,
		},
		Output: OutputControl{
			WriteImplicitDataFiles:                  false,
			WriteDFNFiles:                           false,
			WriteToProjectFolder:                    true,
			DFNFileType:                             DFNFileASCII,
			IntermediateOutputIntervalControl:       IntervalEqualArea,
			OutputCentrepoints:                      false,
			CalculateFractureConnectivityAnisotropy: true,
			CalculateFracturePorosity:               true,
			CalculateBulkRockElasticTensors:         false,
		},
		Aperture: ApertureControl{
			Method:                      ApertureUniform,
			HMinUniform:                 0.0005,
			HMaxUniform:                 0.0005,
			HMinSizeDependentMultiplier: 1e-5,
			HMaxSizeDependentMultiplier: 1e-5,
			DynamicMultiplier:           1,
			JRC:                         10,
			UCSRatio:                    2,
			InitialNormalStress:         2e5,
			FractureNormalStiffness:     2.5e9,
			MaximumClosure:              0.0005,
		},
		Calculation: CalculationControl{
			NoFractureSets:                       6,
			FractureMode:                         FractureModeOptimal,
			CheckAllMicrofractureStressShadows:   true,
			AnisotropyCutoff:                     1,
			AllowReverseFractures:                false,
			FractureNucleationPosition:           Unset(),
			HorizontalUpscalingFactor:            1,
			MaxTimestepDuration:                  Unset(),
			MaxTimestepMFP33Increase:             0.002,
			MinimumImplicitMicrofractureRadius:   0.05,
			NoRBins:                              10,
			MaxNoTimesteps:                       1000,
			HistoricMFP33TerminationRatio:        Unset(),
			ActiveMFP30TerminationRatio:          Unset(),
			MinimumClearZoneVolume:               0.01,
			CropAtGridBoundary:                   true,
			LinkParallelFractures:                true,
			MaxConsistencyAngle:                  0.785398163397448,
			MinimumLayerThickness:                1,
			CreateTriangularFractureSegments:     false,
			ProbabilisticFractureNucleationLimit: Unset(),
			PropagateFracturesInNucleationOrder:  true,
			SearchAdjacentGridblocks:             SearchAutomatic,
			MinimumExplicitMicrofractureRadius:   Unset(),
			NoMicrofractureCornerpoints:          8,
		},
	}
}

// DefaultModelName is the model name given to new and reset packages.
const DefaultModelName = "New DFN"

// Normalize applies the dual-source exclusion rule to every mechanical
// property. It is used after decoding a package from an external source.
func (p *ArgumentPackage) Normalize() {
	for _, ds := range p.Mechanical.DualSources() {
		ds.Normalize()
	}
}

// Clone returns a deep copy of the package.
func (p *ArgumentPackage) Clone() *ArgumentPackage {
	c := *p
	c.Episodes = append([]DeformationEpisode(nil), p.Episodes...)
	return &c
}

// EpisodeCount returns the number of deformation episodes.
func (p *ArgumentPackage) EpisodeCount() int {
	return len(p.Episodes)
}

// Episode returns the episode at index for in-place editing.
// The index must be in [0, EpisodeCount()).
func (p *ArgumentPackage) Episode(index int) *DeformationEpisode {
	return &p.Episodes[index]
}

// EpisodeLabel returns the display label of the episode at index.
// The index must be in [0, EpisodeCount()).
func (p *ArgumentPackage) EpisodeLabel(index int) string {
	return p.Episodes[index].Label(index)
}

// AddEpisode appends a default episode and returns its index.
func (p *ArgumentPackage) AddEpisode() int {
	p.Episodes = append(p.Episodes, NewDeformationEpisode())
	return len(p.Episodes) - 1
}

// RemoveEpisode deletes the episode at index, shifting later episodes down
// by one. The index must be in [0, EpisodeCount()).
func (p *ArgumentPackage) RemoveEpisode(index int) {
	p.Episodes = append(p.Episodes[:index], p.Episodes[index+1:]...)
}
