package controller

import (
	"fmt"

	"github.com/shinji-kodama/dfmgen/internal/editor"
	"github.com/shinji-kodama/dfmgen/internal/field"
	"github.com/shinji-kodama/dfmgen/internal/model"
	"github.com/shinji-kodama/dfmgen/internal/units"
)

// Editor IDs that the derived-state rules and the episode actions refer to.
// Every other editor is addressed by the ID in its binding below.
const (
	IDModelName           editor.ID = "main.modelName"
	IDGrid                editor.ID = "main.grid"
	IDIncludeObliqueFracs editor.ID = "main.includeObliqueFracs"
	IDEpisodes            editor.ID = "main.episodes"

	IDYoungsModSource             editor.ID = "mechanical.youngsMod.source"
	IDYoungsModDefault            editor.ID = "mechanical.youngsMod.default"
	IDCrackSurfaceEnergySource    editor.ID = "mechanical.crackSurfaceEnergy.source"
	IDInitialDensityDefault       editor.ID = "mechanical.initialMicrofractureDensity.default"
	IDSizeDistributionDefault     editor.ID = "mechanical.initialMicrofractureSizeDistribution.default"
	IDRockStrainRelaxationDefault editor.ID = "mechanical.rockStrainRelaxation.default"

	IDApertureMethod             editor.ID = "aperture.method"
	IDApertureUniformGroup       editor.ID = "aperture.uniform"
	IDApertureSizeDependentGroup editor.ID = "aperture.sizeDependent"
	IDApertureDynamicGroup       editor.ID = "aperture.dynamic"
	IDApertureBartonBandisGroup  editor.ID = "aperture.bartonBandis"

	IDNoFractureSets        editor.ID = "calculation.noFractureSets"
	IDCheckAllStressShadows editor.ID = "calculation.checkAllMicrofractureStressShadows"
)

// binding connects one editor to one argument. load writes the argument
// into the field; store reads the field back through the field accessors.
//
// Bindings marked guarded form the dual-source block of the store pass: the
// first failure inside the block is logged and ends the block, and the
// pass carries on with the next unguarded binding.
type binding struct {
	id      editor.ID
	kind    editor.Kind
	label   string
	unit    units.Template
	items   []string
	guarded bool

	// accepts reports whether a reference editor takes ref. nil means the
	// editor is not a reference editor.
	accepts func(ref any) bool

	load  func(form *editor.Form, fld *editor.Field, p *model.ArgumentPackage, names editor.NameResolver)
	store func(form *editor.Form, fld *editor.Field, p *model.ArgumentPackage) error
}

func textBinding(id editor.ID, label string, get func(*model.ArgumentPackage) *string) binding {
	return binding{
		id: id, kind: editor.KindText, label: label,
		load: func(_ *editor.Form, fld *editor.Field, p *model.ArgumentPackage, _ editor.NameResolver) {
			fld.Text = *get(p)
		},
		store: func(_ *editor.Form, fld *editor.Field, p *model.ArgumentPackage) error {
			*get(p) = fld.Text
			return nil
		},
	}
}

func realBinding(id editor.ID, label string, unit units.Template, get func(*model.ArgumentPackage) *float64) binding {
	return binding{
		id: id, kind: editor.KindReal, label: label, unit: unit,
		load: func(_ *editor.Form, fld *editor.Field, p *model.ArgumentPackage, _ editor.NameResolver) {
			fld.Text = field.FormatReal(*get(p))
		},
		store: func(_ *editor.Form, fld *editor.Field, p *model.ArgumentPackage) error {
			*get(p) = field.ParseReal(fld.Text)
			return nil
		},
	}
}

func intBinding(id editor.ID, label string, get func(*model.ArgumentPackage) *int) binding {
	return binding{
		id: id, kind: editor.KindInt, label: label,
		load: func(_ *editor.Form, fld *editor.Field, p *model.ArgumentPackage, _ editor.NameResolver) {
			fld.Text = field.FormatInt(*get(p))
		},
		store: func(_ *editor.Form, fld *editor.Field, p *model.ArgumentPackage) error {
			*get(p) = field.ParseInt(fld.Text)
			return nil
		},
	}
}

func numericBinding(id editor.ID, label string, get func(*model.ArgumentPackage) *int) binding {
	return binding{
		id: id, kind: editor.KindNumeric, label: label,
		load: func(_ *editor.Form, fld *editor.Field, p *model.ArgumentPackage, _ editor.NameResolver) {
			fld.Value = *get(p)
		},
		store: func(_ *editor.Form, fld *editor.Field, p *model.ArgumentPackage) error {
			*get(p) = fld.Value
			return nil
		},
	}
}

func checkBinding(id editor.ID, label string, get func(*model.ArgumentPackage) *bool) binding {
	return binding{
		id: id, kind: editor.KindCheck, label: label,
		load: func(_ *editor.Form, fld *editor.Field, p *model.ArgumentPackage, _ editor.NameResolver) {
			fld.Checked = *get(p)
		},
		store: func(_ *editor.Form, fld *editor.Field, p *model.ArgumentPackage) error {
			*get(p) = fld.Checked
			return nil
		},
	}
}

// choiceBinding binds an enumeration to a drop-down. The selection is
// clamped into the item range both ways, so the editor never shows a value
// outside its items.
func choiceBinding[T ~int](id editor.ID, label string, items []string, get func(*model.ArgumentPackage) *T) binding {
	return binding{
		id: id, kind: editor.KindChoice, label: label, items: items,
		load: func(_ *editor.Form, fld *editor.Field, p *model.ArgumentPackage, _ editor.NameResolver) {
			fld.Selected = field.ClampIndex(int(*get(p)), len(items))
		},
		store: func(_ *editor.Form, fld *editor.Field, p *model.ArgumentPackage) error {
			*get(p) = T(field.ClampIndex(fld.Selected, len(fld.Items)))
			return nil
		},
	}
}

func gridBinding(id editor.ID, label string, get func(*model.ArgumentPackage) *model.GridRef) binding {
	return binding{
		id: id, kind: editor.KindReference, label: label,
		accepts: func(ref any) bool {
			_, ok := ref.(model.GridRef)
			return ok
		},
		load: func(form *editor.Form, _ *editor.Field, p *model.ArgumentPackage, names editor.NameResolver) {
			bindRef(form, id, *get(p), names)
		},
		store: func(form *editor.Form, _ *editor.Field, p *model.ArgumentPackage) error {
			ref, _ := form.Bound(id).(model.GridRef)
			*get(p) = ref
			return nil
		},
	}
}

// singleSourceBindings returns the property drop target and the default
// value box of a single-source input.
func singleSourceBindings(prefix editor.ID, label string, unit units.Template, get func(*model.ArgumentPackage) *model.SingleSource) []binding {
	src := prefix + ".source"
	return []binding{
		{
			id: src, kind: editor.KindReference, label: label,
			accepts: func(ref any) bool {
				_, ok := ref.(model.PropertyRef)
				return ok
			},
			load: func(form *editor.Form, _ *editor.Field, p *model.ArgumentPackage, names editor.NameResolver) {
				bindRef(form, src, get(p).Property, names)
			},
			store: func(form *editor.Form, _ *editor.Field, p *model.ArgumentPackage) error {
				ref, _ := form.Bound(src).(model.PropertyRef)
				get(p).Property = ref
				return nil
			},
		},
		realBinding(prefix+".default", label+" default", unit, func(p *model.ArgumentPackage) *float64 {
			return &get(p).Default
		}),
	}
}

// dualSourceBindings returns the guarded drop target and default value box
// of a dual-source mechanical property. The drop target accepts either a
// grid property or a grid result; the grid result is resolved first and
// wins.
func dualSourceBindings(prefix editor.ID, label string, unit units.Template, get func(*model.ArgumentPackage) *model.DualSource) []binding {
	src := prefix + ".source"
	def := realBinding(prefix+".default", label+" default", unit, func(p *model.ArgumentPackage) *float64 {
		return &get(p).Default
	})
	def.guarded = true
	return []binding{
		{
			id: src, kind: editor.KindReference, label: label, guarded: true,
			accepts: func(ref any) bool {
				switch ref.(type) {
				case model.PropertyRef, model.GridResultRef:
					return true
				}
				return false
			},
			load: func(form *editor.Form, _ *editor.Field, p *model.ArgumentPackage, names editor.NameResolver) {
				ds := get(p)
				switch {
				case !ds.GridResult.IsNull():
					bindRef(form, src, ds.GridResult, names)
				default:
					bindRef(form, src, ds.Property, names)
				}
			},
			store: func(form *editor.Form, _ *editor.Field, p *model.ArgumentPackage) error {
				ds := get(p)
				switch ref := form.Bound(src).(type) {
				case nil:
					ds.Clear()
				case model.GridResultRef:
					ds.Clear()
					ds.SetGridResult(ref)
				case model.PropertyRef:
					ds.SetProperty(ref)
				default:
					return fmt.Errorf("%s: cannot use %T as a property or grid result", src, ref)
				}
				return nil
			},
		},
		def,
	}
}

// bindRef binds ref to id, or clears the binding when ref is null.
func bindRef[R interface{ IsNull() bool }](form *editor.Form, id editor.ID, ref R, names editor.NameResolver) {
	if ref.IsNull() {
		_ = form.Bind(id, nil, names)
		return
	}
	_ = form.Bind(id, ref, names)
}

// groupBinding registers an enable-only container. It has no argument.
func groupBinding(id editor.ID, label string) binding {
	return binding{id: id, kind: editor.KindGroup, label: label}
}

// bindings lists every editor in display order. The order of the store pass
// follows this list.
var bindings = buildBindings()

// refFilters maps each reference editor to the reference types it takes.
var refFilters = func() map[editor.ID]func(any) bool {
	m := make(map[editor.ID]func(any) bool)
	for _, b := range bindings {
		if b.accepts != nil {
			m[b.id] = b.accepts
		}
	}
	return m
}()

func buildBindings() []binding {
	var b []binding
	add := func(bs ...binding) { b = append(b, bs...) }

	// Main settings
	add(
		textBinding(IDModelName, "Model name", func(p *model.ArgumentPackage) *string { return &p.ModelName }),
		gridBinding(IDGrid, "Grid", func(p *model.ArgumentPackage) *model.GridRef { return &p.Grid }),
		intBinding("main.region.startColI", "Start column (I)", func(p *model.ArgumentPackage) *int { return &p.Region.StartColI }),
		intBinding("main.region.noColsI", "Number of columns (I)", func(p *model.ArgumentPackage) *int { return &p.Region.NoColsI }),
		intBinding("main.region.startRowJ", "Start row (J)", func(p *model.ArgumentPackage) *int { return &p.Region.StartRowJ }),
		intBinding("main.region.noRowsJ", "Number of rows (J)", func(p *model.ArgumentPackage) *int { return &p.Region.NoRowsJ }),
		intBinding("main.region.topLayerK", "Top layer (K)", func(p *model.ArgumentPackage) *int { return &p.Region.TopLayerK }),
		intBinding("main.region.bottomLayerK", "Bottom layer (K)", func(p *model.ArgumentPackage) *int { return &p.Region.BottomLayerK }),
		checkBinding("main.generateExplicitDFN", "Generate explicit DFN", func(p *model.ArgumentPackage) *bool { return &p.GenerateExplicitDFN }),
		numericBinding("main.noIntermediateOutputs", "Number of intermediate outputs", func(p *model.ArgumentPackage) *int { return &p.NoIntermediateOutputs }),
		checkBinding(IDIncludeObliqueFracs, "Include oblique fractures", func(p *model.ArgumentPackage) *bool { return &p.IncludeObliqueFracs }),
	)

	// Mechanical properties
	mech := func(p *model.ArgumentPackage) *model.MechanicalProperties { return &p.Mechanical }
	add(dualSourceBindings("mechanical.youngsMod", "Young's modulus", units.YoungsModulus,
		func(p *model.ArgumentPackage) *model.DualSource { return &mech(p).YoungsMod })...)
	add(dualSourceBindings("mechanical.poissonsRatio", "Poisson's ratio", units.PoissonRatio,
		func(p *model.ArgumentPackage) *model.DualSource { return &mech(p).PoissonsRatio })...)
	add(dualSourceBindings("mechanical.porosity", "Porosity", units.Porosity,
		func(p *model.ArgumentPackage) *model.DualSource { return &mech(p).Porosity })...)
	add(dualSourceBindings("mechanical.biotCoefficient", "Biot coefficient", units.General,
		func(p *model.ArgumentPackage) *model.DualSource { return &mech(p).BiotCoefficient })...)
	add(dualSourceBindings("mechanical.thermalExpansionCoefficient", "Thermal expansion coefficient", units.InverseTemperature,
		func(p *model.ArgumentPackage) *model.DualSource { return &mech(p).ThermalExpansionCoefficient })...)
	add(dualSourceBindings("mechanical.frictionCoefficient", "Friction coefficient", units.General,
		func(p *model.ArgumentPackage) *model.DualSource { return &mech(p).FrictionCoefficient })...)
	add(dualSourceBindings("mechanical.crackSurfaceEnergy", "Crack surface energy", units.SurfaceTension,
		func(p *model.ArgumentPackage) *model.DualSource { return &mech(p).CrackSurfaceEnergy })...)
	add(singleSourceBindings("mechanical.rockStrainRelaxation", "Rock strain relaxation", units.GeologicalTimescale,
		func(p *model.ArgumentPackage) *model.SingleSource { return &mech(p).RockStrainRelaxation })...)
	add(singleSourceBindings("mechanical.fractureStrainRelaxation", "Fracture strain relaxation", units.GeologicalTimescale,
		func(p *model.ArgumentPackage) *model.SingleSource { return &mech(p).FractureStrainRelaxation })...)
	// The unit of A is derived from c after every load and every edit of c.
	add(singleSourceBindings("mechanical.initialMicrofractureDensity", "Initial microfracture density (A)", "",
		func(p *model.ArgumentPackage) *model.SingleSource { return &mech(p).InitialMicrofractureDensity })...)
	add(singleSourceBindings("mechanical.initialMicrofractureSizeDistribution", "Initial microfracture size distribution (c)", units.General,
		func(p *model.ArgumentPackage) *model.SingleSource { return &mech(p).InitialMicrofractureSizeDistribution })...)
	add(singleSourceBindings("mechanical.subcriticalPropagationIndex", "Subcritical propagation index", units.General,
		func(p *model.ArgumentPackage) *model.SingleSource { return &mech(p).SubcriticalPropagationIndex })...)
	add(
		realBinding("mechanical.criticalPropagationRate", "Critical propagation rate", units.Velocity,
			func(p *model.ArgumentPackage) *float64 { return &p.Mechanical.CriticalPropagationRate }),
		checkBinding("mechanical.averageMechanicalPropertyData", "Average mechanical property data",
			func(p *model.ArgumentPackage) *bool { return &p.Mechanical.AverageMechanicalPropertyData }),
	)

	// Stress state
	add(choiceBinding("stress.distribution", "Stress distribution", model.StressDistributionNames,
		func(p *model.ArgumentPackage) *model.StressDistribution { return &p.Stress.Distribution }))
	add(singleSourceBindings("stress.depthAtDeformation", "Depth at time of deformation", units.MeasuredDepth,
		func(p *model.ArgumentPackage) *model.SingleSource { return &p.Stress.DepthAtDeformation })...)
	add(
		realBinding("stress.meanOverlyingSedimentDensity", "Mean overlying sediment density", units.RockDensity,
			func(p *model.ArgumentPackage) *float64 { return &p.Stress.MeanOverlyingSedimentDensity }),
		realBinding("stress.fluidDensity", "Fluid density", units.LiquidDensity,
			func(p *model.ArgumentPackage) *float64 { return &p.Stress.FluidDensity }),
		realBinding("stress.initialOverpressure", "Initial overpressure", units.Pressure,
			func(p *model.ArgumentPackage) *float64 { return &p.Stress.InitialOverpressure }),
		realBinding("stress.geothermalGradient", "Geothermal gradient", units.ThermalGradient,
			func(p *model.ArgumentPackage) *float64 { return &p.Stress.GeothermalGradient }),
		realBinding("stress.initialStressRelaxation", "Initial stress relaxation", units.General,
			func(p *model.ArgumentPackage) *float64 { return &p.Stress.InitialStressRelaxation }),
		checkBinding("stress.averageStressStrainData", "Average stress/strain data",
			func(p *model.ArgumentPackage) *bool { return &p.Stress.AverageStressStrainData }),
	)

	// Outputs
	add(
		checkBinding("output.writeImplicitDataFiles", "Write implicit data files",
			func(p *model.ArgumentPackage) *bool { return &p.Output.WriteImplicitDataFiles }),
		checkBinding("output.writeDFNFiles", "Write DFN files",
			func(p *model.ArgumentPackage) *bool { return &p.Output.WriteDFNFiles }),
		checkBinding("output.writeToProjectFolder", "Write to project folder",
			func(p *model.ArgumentPackage) *bool { return &p.Output.WriteToProjectFolder }),
		choiceBinding("output.dfnFileType", "DFN file type", model.DFNFileTypeNames,
			func(p *model.ArgumentPackage) *model.DFNFileType { return &p.Output.DFNFileType }),
		choiceBinding("output.intermediateOutputIntervalControl", "Intermediate output interval", model.IntervalControlNames,
			func(p *model.ArgumentPackage) *model.IntervalControl { return &p.Output.IntermediateOutputIntervalControl }),
		checkBinding("output.outputCentrepoints", "Output centrepoints",
			func(p *model.ArgumentPackage) *bool { return &p.Output.OutputCentrepoints }),
		checkBinding("output.calculateFractureConnectivityAnisotropy", "Calculate connectivity and anisotropy",
			func(p *model.ArgumentPackage) *bool { return &p.Output.CalculateFractureConnectivityAnisotropy }),
		checkBinding("output.calculateFracturePorosity", "Calculate fracture porosity",
			func(p *model.ArgumentPackage) *bool { return &p.Output.CalculateFracturePorosity }),
		checkBinding("output.calculateBulkRockElasticTensors", "Calculate bulk rock elastic tensors",
			func(p *model.ArgumentPackage) *bool { return &p.Output.CalculateBulkRockElasticTensors }),
	)

	// Fracture aperture
	ap := func(p *model.ArgumentPackage) *model.ApertureControl { return &p.Aperture }
	add(
		choiceBinding(IDApertureMethod, "Aperture control method", model.ApertureMethodNames,
			func(p *model.ArgumentPackage) *model.ApertureMethod { return &ap(p).Method }),
		groupBinding(IDApertureUniformGroup, "Uniform aperture"),
		realBinding("aperture.hMinUniform", "Min-stress fracture aperture", units.FractureAperture,
			func(p *model.ArgumentPackage) *float64 { return &ap(p).HMinUniform }),
		realBinding("aperture.hMaxUniform", "Max-stress fracture aperture", units.FractureAperture,
			func(p *model.ArgumentPackage) *float64 { return &ap(p).HMaxUniform }),
		groupBinding(IDApertureSizeDependentGroup, "Size dependent aperture"),
		realBinding("aperture.hMinSizeDependentMultiplier", "Min-stress aperture multiplier", units.General,
			func(p *model.ArgumentPackage) *float64 { return &ap(p).HMinSizeDependentMultiplier }),
		realBinding("aperture.hMaxSizeDependentMultiplier", "Max-stress aperture multiplier", units.General,
			func(p *model.ArgumentPackage) *float64 { return &ap(p).HMaxSizeDependentMultiplier }),
		groupBinding(IDApertureDynamicGroup, "Dynamic aperture"),
		realBinding("aperture.dynamicMultiplier", "Dynamic aperture multiplier", units.General,
			func(p *model.ArgumentPackage) *float64 { return &ap(p).DynamicMultiplier }),
		groupBinding(IDApertureBartonBandisGroup, "Barton-Bandis aperture"),
		realBinding("aperture.jrc", "Joint roughness coefficient", units.General,
			func(p *model.ArgumentPackage) *float64 { return &ap(p).JRC }),
		realBinding("aperture.ucsRatio", "Compressive strength ratio", units.General,
			func(p *model.ArgumentPackage) *float64 { return &ap(p).UCSRatio }),
		realBinding("aperture.initialNormalStress", "Initial normal stress", units.StressEffective,
			func(p *model.ArgumentPackage) *float64 { return &ap(p).InitialNormalStress }),
		realBinding("aperture.fractureNormalStiffness", "Fracture normal stiffness", units.PressureGradient,
			func(p *model.ArgumentPackage) *float64 { return &ap(p).FractureNormalStiffness }),
		realBinding("aperture.maximumClosure", "Maximum closure", units.FractureAperture,
			func(p *model.ArgumentPackage) *float64 { return &ap(p).MaximumClosure }),
	)

	// Calculation control
	cc := func(p *model.ArgumentPackage) *model.CalculationControl { return &p.Calculation }
	add(
		numericBinding(IDNoFractureSets, "Number of fracture sets",
			func(p *model.ArgumentPackage) *int { return &cc(p).NoFractureSets }),
		choiceBinding("calculation.fractureMode", "Fracture mode", model.FractureModeNames,
			func(p *model.ArgumentPackage) *model.FractureMode { return &cc(p).FractureMode }),
		checkBinding(IDCheckAllStressShadows, "Check all microfracture stress shadows",
			func(p *model.ArgumentPackage) *bool { return &cc(p).CheckAllMicrofractureStressShadows }),
		realBinding("calculation.anisotropyCutoff", "Anisotropy cutoff", units.General,
			func(p *model.ArgumentPackage) *float64 { return &cc(p).AnisotropyCutoff }),
		checkBinding("calculation.allowReverseFractures", "Allow reverse fractures",
			func(p *model.ArgumentPackage) *bool { return &cc(p).AllowReverseFractures }),
		realBinding("calculation.fractureNucleationPosition", "Fracture nucleation position", units.General,
			func(p *model.ArgumentPackage) *float64 { return &cc(p).FractureNucleationPosition }),
		numericBinding("calculation.horizontalUpscalingFactor", "Horizontal upscaling factor",
			func(p *model.ArgumentPackage) *int { return &cc(p).HorizontalUpscalingFactor }),
		realBinding("calculation.maxTimestepDuration", "Max timestep duration", units.GeologicalTimescale,
			func(p *model.ArgumentPackage) *float64 { return &cc(p).MaxTimestepDuration }),
		realBinding("calculation.maxTimestepMFP33Increase", "Max timestep MFP33 increase", units.General,
			func(p *model.ArgumentPackage) *float64 { return &cc(p).MaxTimestepMFP33Increase }),
		realBinding("calculation.minimumImplicitMicrofractureRadius", "Minimum implicit microfracture radius", units.ThicknessDepth,
			func(p *model.ArgumentPackage) *float64 { return &cc(p).MinimumImplicitMicrofractureRadius }),
		intBinding("calculation.noRBins", "Number of radius bins",
			func(p *model.ArgumentPackage) *int { return &cc(p).NoRBins }),
		intBinding("calculation.maxNoTimesteps", "Max number of timesteps",
			func(p *model.ArgumentPackage) *int { return &cc(p).MaxNoTimesteps }),
		realBinding("calculation.historicMFP33TerminationRatio", "Historic MFP33 termination ratio", units.General,
			func(p *model.ArgumentPackage) *float64 { return &cc(p).HistoricMFP33TerminationRatio }),
		realBinding("calculation.activeMFP30TerminationRatio", "Active MFP30 termination ratio", units.General,
			func(p *model.ArgumentPackage) *float64 { return &cc(p).ActiveMFP30TerminationRatio }),
		realBinding("calculation.minimumClearZoneVolume", "Minimum clear zone volume", units.General,
			func(p *model.ArgumentPackage) *float64 { return &cc(p).MinimumClearZoneVolume }),
		checkBinding("calculation.cropAtGridBoundary", "Crop at grid boundary",
			func(p *model.ArgumentPackage) *bool { return &cc(p).CropAtGridBoundary }),
		checkBinding("calculation.linkParallelFractures", "Link parallel fractures",
			func(p *model.ArgumentPackage) *bool { return &cc(p).LinkParallelFractures }),
		realBinding("calculation.maxConsistencyAngle", "Max consistency angle", units.DipAzimuth,
			func(p *model.ArgumentPackage) *float64 { return &cc(p).MaxConsistencyAngle }),
		realBinding("calculation.minimumLayerThickness", "Minimum layer thickness", units.ThicknessDepth,
			func(p *model.ArgumentPackage) *float64 { return &cc(p).MinimumLayerThickness }),
		checkBinding("calculation.createTriangularFractureSegments", "Create triangular fracture segments",
			func(p *model.ArgumentPackage) *bool { return &cc(p).CreateTriangularFractureSegments }),
		realBinding("calculation.probabilisticFractureNucleationLimit", "Probabilistic fracture nucleation limit", units.General,
			func(p *model.ArgumentPackage) *float64 { return &cc(p).ProbabilisticFractureNucleationLimit }),
		checkBinding("calculation.propagateFracturesInNucleationOrder", "Propagate fractures in nucleation order",
			func(p *model.ArgumentPackage) *bool { return &cc(p).PropagateFracturesInNucleationOrder }),
		choiceBinding("calculation.searchAdjacentGridblocks", "Search adjacent gridblocks", model.SearchAdjacentNames,
			func(p *model.ArgumentPackage) *model.SearchAdjacent { return &cc(p).SearchAdjacentGridblocks }),
		realBinding("calculation.minimumExplicitMicrofractureRadius", "Minimum explicit microfracture radius", units.ThicknessDepth,
			func(p *model.ArgumentPackage) *float64 { return &cc(p).MinimumExplicitMicrofractureRadius }),
		numericBinding("calculation.noMicrofractureCornerpoints", "Number of microfracture cornerpoints",
			func(p *model.ArgumentPackage) *int { return &cc(p).NoMicrofractureCornerpoints }),
	)

	return b
}
