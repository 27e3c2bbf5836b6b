package controller

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shinji-kodama/dfmgen/internal/editor"
	"github.com/shinji-kodama/dfmgen/internal/engine"
	"github.com/shinji-kodama/dfmgen/internal/model"
	"github.com/shinji-kodama/dfmgen/internal/units"
	"github.com/shinji-kodama/dfmgen/internal/workflow"
)

// newTestController returns a controller on a fresh default package and a
// log observer capturing everything from debug up.
func newTestController(t *testing.T, kind workflow.Kind, source ExecutorSource) (*Controller, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(workflow.NewContext(kind), model.NewArgumentPackage(), source, Options{Logger: zap.New(core)})
	t.Cleanup(c.Close)
	return c, logs
}

// countingSource records how many times the engine was dispatched.
type countingSource struct {
	runs int
	err  error
}

func (s *countingSource) Executor(pkg *model.ArgumentPackage) *engine.Executor {
	return engine.NewSource(engine.DispatcherFunc(func(context.Context, *engine.Job) error {
		s.runs++
		return s.err
	}), nil).Executor(pkg)
}

func TestNew_LoadsDefaults(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)
	form := c.Form()

	assert.Equal(t, model.DefaultModelName, form.Field(IDModelName).Text)
	assert.Equal(t, "1e+10", form.Field(IDYoungsModDefault).Text)
	assert.Equal(t, "1.5", form.Field(IDSizeDistributionDefault).Text)
	assert.Equal(t, "", form.Field("stress.depthAtDeformation.default").Text, "unset reals load as empty text")
	assert.Equal(t, 6, form.Field(IDNoFractureSets).Value)
	assert.Equal(t, "Pa", form.Field(IDYoungsModDefault).Unit)

	list := form.Field(IDEpisodes)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 0, list.Selected, "a single episode is always selected")
}

func TestNew_FieldUnits(t *testing.T) {
	c := New(workflow.NewContext(workflow.KindProcess), model.NewArgumentPackage(), nil, Options{Units: units.Field})
	defer c.Close()

	assert.Equal(t, "fracs/ft^1.5", c.Form().Field(IDInitialDensityDefault).Unit)
}

func TestLoad_DerivedRules(t *testing.T) {
	tests := []struct {
		name         string
		method       model.ApertureMethod
		oblique      bool
		c            float64
		wantEnabled  map[editor.ID]bool
		wantDensityU string
	}{
		{
			name:   "uniform, oblique off",
			method: model.ApertureUniform,
			c:      1.5,
			wantEnabled: map[editor.ID]bool{
				IDApertureUniformGroup:       true,
				IDApertureSizeDependentGroup: false,
				IDApertureDynamicGroup:       false,
				IDApertureBartonBandisGroup:  false,
				IDNoFractureSets:             false,
				IDCheckAllStressShadows:      false,
			},
			wantDensityU: "fracs/m^1.5",
		},
		{
			name:    "barton-bandis, oblique on",
			method:  model.ApertureBartonBandis,
			oblique: true,
			c:       4.2,
			wantEnabled: map[editor.ID]bool{
				IDApertureUniformGroup:       false,
				IDApertureSizeDependentGroup: false,
				IDApertureDynamicGroup:       false,
				IDApertureBartonBandisGroup:  true,
				IDNoFractureSets:             true,
				IDCheckAllStressShadows:      true,
			},
			wantDensityU: "frac.m^1.2",
		},
		{
			name:   "unknown method disables every group",
			method: model.ApertureMethod(7),
			c:      math.NaN(),
			wantEnabled: map[editor.ID]bool{
				IDApertureUniformGroup:       false,
				IDApertureSizeDependentGroup: false,
				IDApertureDynamicGroup:       false,
				IDApertureBartonBandisGroup:  false,
			},
			wantDensityU: "fracs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t, workflow.KindProcess, nil)
			p := c.Package()
			p.Aperture.Method = tt.method
			p.IncludeObliqueFracs = tt.oblique
			p.Mechanical.InitialMicrofractureSizeDistribution.Default = tt.c

			c.Load()

			for id, want := range tt.wantEnabled {
				assert.Equal(t, want, c.Form().Field(id).Enabled, "enabled state of %s", id)
			}
			assert.Equal(t, tt.wantDensityU, c.Form().Field(IDInitialDensityDefault).Unit)
		})
	}
}

func TestApertureRule_Idempotent(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)
	require.NoError(t, c.SetSelected(IDApertureMethod, int(model.ApertureDynamic)))

	snapshot := func() []bool {
		var out []bool
		for _, id := range []editor.ID{IDApertureUniformGroup, IDApertureSizeDependentGroup, IDApertureDynamicGroup, IDApertureBartonBandisGroup} {
			out = append(out, c.Form().Field(id).Enabled)
		}
		return out
	}

	c.applyApertureRule()
	first := snapshot()
	c.applyApertureRule()

	assert.Equal(t, first, snapshot())
	assert.Equal(t, []bool{false, false, true, false}, first)
}

func TestStoreLoad_RealRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{name: "finite", text: "0.0005", want: 0.0005},
		{name: "exponent", text: "2.5e9", want: 2.5e9},
		{name: "negative", text: "-0.01", want: -0.01},
		{name: "blank is unset", text: "", want: math.NaN()},
		{name: "garbage is unset", text: "abc", want: math.NaN()},
		{name: "overflow is unset", text: "1e999", want: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t, workflow.KindProcess, nil)
			require.NoError(t, c.SetText("aperture.hMinUniform", tt.text))

			c.Store()
			got := c.Package().Aperture.HMinUniform
			if math.IsNaN(tt.want) {
				assert.True(t, math.IsNaN(got))
			} else {
				assert.Equal(t, tt.want, got)
			}

			first := c.Form().Field("aperture.hMinUniform").Text
			c.Load()
			c.Store()
			c.Load()
			assert.Equal(t, first, c.Form().Field("aperture.hMinUniform").Text, "store/load is format stable")
			if math.IsNaN(tt.want) {
				assert.Equal(t, "", first)
			}
		})
	}
}

func TestStore_IntSentinel(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)
	require.NoError(t, c.SetText("calculation.maxNoTimesteps", "lots"))

	c.Store()

	assert.Equal(t, model.UnsetInt, c.Package().Calculation.MaxNoTimesteps)
	c.Load()
	assert.Equal(t, "", c.Form().Field("calculation.maxNoTimesteps").Text)
}

func TestStore_DualSourceExclusion(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)
	p := c.Package()

	require.NoError(t, c.Bind(IDYoungsModSource, model.PropertyRef("/grid/props/E")))
	c.Store()
	assert.Equal(t, model.PropertyRef("/grid/props/E"), p.Mechanical.YoungsMod.Property)
	assert.True(t, p.Mechanical.YoungsMod.GridResult.IsNull())

	require.NoError(t, c.Bind(IDYoungsModSource, model.GridResultRef("/cases/geomech/E")))
	c.Store()
	assert.Equal(t, model.GridResultRef("/cases/geomech/E"), p.Mechanical.YoungsMod.GridResult)
	assert.True(t, p.Mechanical.YoungsMod.Property.IsNull(), "grid result clears the property")

	require.NoError(t, c.Bind(IDYoungsModSource, model.PropertyRef("/grid/props/E2")))
	c.Store()
	assert.Equal(t, model.PropertyRef("/grid/props/E2"), p.Mechanical.YoungsMod.Property)
	assert.True(t, p.Mechanical.YoungsMod.GridResult.IsNull(), "property clears the grid result")

	require.NoError(t, c.Clear(IDYoungsModSource))
	c.Store()
	assert.True(t, p.Mechanical.YoungsMod.Property.IsNull())
	assert.True(t, p.Mechanical.YoungsMod.GridResult.IsNull())
}

func TestLoad_DualSourceShowsGridResult(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)
	c.Package().Mechanical.Porosity = model.DualSource{
		Property:   "/grid/props/phi",
		GridResult: "/cases/run1/phi",
		Default:    0.2,
	}

	c.Load()

	fld := c.Form().Field("mechanical.porosity.source")
	assert.Equal(t, model.GridResultRef("/cases/run1/phi"), c.Form().Bound(fld.ID))
	assert.Equal(t, "phi", fld.Text)
	assert.Equal(t, "grid-result", fld.Icon)

	c.Store()
	assert.True(t, c.Package().Mechanical.Porosity.Property.IsNull())
}

func TestStore_DualSourceFailureEndsBlock(t *testing.T) {
	c, logs := newTestController(t, workflow.KindProcess, nil)
	p := c.Package()

	// Bind rejects a grid here, so drop it onto the form directly.
	require.NoError(t, c.Form().Bind(IDYoungsModSource, model.GridRef("/grids/main"), nil))
	require.NoError(t, c.SetText("mechanical.poissonsRatio.default", "0.3"))
	require.NoError(t, c.SetText(IDRockStrainRelaxationDefault, "2"))
	require.NoError(t, c.SetText(IDModelName, "Field A"))

	c.Store()

	failures := logs.FilterMessage("failed to store mechanical property source").All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.ErrorLevel, failures[0].Level)
	assert.Equal(t, string(IDYoungsModSource), failures[0].ContextMap()["editor"])

	assert.Equal(t, 0.25, p.Mechanical.PoissonsRatio.Default, "the rest of the dual-source block is skipped")
	assert.Equal(t, 2.0, p.Mechanical.RockStrainRelaxation.Default, "the store pass carries on after the block")
	assert.Equal(t, "Field A", p.ModelName, "fields stored before the block are kept")
}

func TestSelfOriginSuppression(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	opts := Options{Logger: zap.New(core)}
	wctx := workflow.NewContext(workflow.KindProcess)
	pkg := model.NewArgumentPackage()

	a := New(wctx, pkg, nil, opts)
	defer a.Close()
	b := New(wctx, pkg, nil, opts)
	defer b.Close()

	require.NoError(t, a.SetText(IDModelName, "Shared"))
	a.Store()

	assert.Equal(t, "Shared", b.Form().Field(IDModelName).Text, "the other view reloads")

	reloads := logs.FilterMessage("argument package changed elsewhere; reloading").All()
	require.Len(t, reloads, 1)
	assert.Equal(t, b.Token().String(), reloads[0].ContextMap()["view"])
}

func TestSelfOriginSuppression_KeepsUnsavedEdits(t *testing.T) {
	wctx := workflow.NewContext(workflow.KindProcess)
	pkg := model.NewArgumentPackage()
	a := New(wctx, pkg, nil, Options{})
	defer a.Close()

	// A foreign broadcast reloads, a self-originated one does not.
	require.NoError(t, a.Form().SetText(IDModelName, "unsaved"))
	wctx.Broadcast(a.Token())
	assert.Equal(t, "unsaved", a.Form().Field(IDModelName).Text)

	wctx.Broadcast(workflow.NewToken())
	assert.Equal(t, model.DefaultModelName, a.Form().Field(IDModelName).Text)
}

func TestCommit(t *testing.T) {
	tests := []struct {
		name     string
		kind     workflow.Kind
		err      error
		wantRuns int
		wantCode model.ExitCode
	}{
		{name: "process executes", kind: workflow.KindProcess, wantRuns: 1},
		{name: "workflow does not execute", kind: workflow.KindWorkflow, wantRuns: 0},
		{name: "engine failure", kind: workflow.KindProcess, err: errors.New("boom"), wantRuns: 1, wantCode: model.ExitEngineFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &countingSource{err: tt.err}
			c, _ := newTestController(t, tt.kind, src)
			require.NoError(t, c.SetText(IDModelName, "   "))

			err := c.Commit(context.Background())

			assert.Equal(t, tt.wantRuns, src.runs)
			if tt.wantCode != 0 {
				var cliErr *model.CLIError
				require.ErrorAs(t, err, &cliErr)
				assert.Equal(t, tt.wantCode, cliErr.Code)
			} else {
				require.NoError(t, err)
			}
			if tt.wantRuns > 0 {
				assert.Equal(t, model.DefaultModelName, c.Form().Field(IDModelName).Text,
					"the load pass shows what the engine normalized")
			} else {
				assert.Equal(t, "   ", c.Form().Field(IDModelName).Text)
			}
		})
	}
}

func TestCommit_NotifiesOtherViews(t *testing.T) {
	wctx := workflow.NewContext(workflow.KindProcess)
	pkg := model.NewArgumentPackage()
	src := &countingSource{}
	a := New(wctx, pkg, src, Options{})
	defer a.Close()
	b := New(wctx, pkg, src, Options{})
	defer b.Close()

	require.NoError(t, a.SetText(IDModelName, ""))
	require.NoError(t, a.Commit(context.Background()))

	assert.Equal(t, model.DefaultModelName, b.Form().Field(IDModelName).Text)
}

func TestResetDefaults(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)
	p := c.Package()
	p.ModelName = "custom"
	p.AddEpisode()
	p.AddEpisode()
	c.Load()

	c.ResetDefaults()

	assert.Equal(t, model.DefaultModelName, c.Form().Field(IDModelName).Text)
	assert.Equal(t, 1, p.EpisodeCount())
	assert.Len(t, c.Form().Field(IDEpisodes).Items, 1)
}

func TestSetText_SizeDistributionUpdatesUnit(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "1.5", want: "fracs/m^1.5"},
		{text: "3", want: "fracs"},
		{text: "4.2", want: "frac.m^1.2"},
		{text: "", want: "fracs"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c, _ := newTestController(t, workflow.KindProcess, nil)

			require.NoError(t, c.SetText(IDSizeDistributionDefault, tt.text))

			assert.Equal(t, tt.want, c.Form().Field(IDInitialDensityDefault).Unit)
		})
	}
}

func TestSetChecked_ObliqueToggle(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)

	require.NoError(t, c.SetChecked(IDIncludeObliqueFracs, true))
	assert.True(t, c.Form().Field(IDNoFractureSets).Enabled)
	assert.True(t, c.Form().Field(IDCheckAllStressShadows).Enabled)

	require.NoError(t, c.SetChecked(IDIncludeObliqueFracs, false))
	assert.False(t, c.Form().Field(IDNoFractureSets).Enabled)
	assert.False(t, c.Form().Field(IDCheckAllStressShadows).Enabled)
}

func TestSetValue_FractureSets(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)

	require.NoError(t, c.SetValue(IDNoFractureSets, 2))
	assert.False(t, c.Form().Field(IDCheckAllStressShadows).Checked)

	require.NoError(t, c.SetValue(IDNoFractureSets, 3))
	assert.True(t, c.Form().Field(IDCheckAllStressShadows).Checked)
}

func TestSetSelected_ChoiceClampedOnStore(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)

	require.NoError(t, c.SetSelected("output.dfnFileType", 42))
	c.Store()

	assert.Equal(t, model.DFNFileType(len(model.DFNFileTypeNames)-1), c.Package().Output.DFNFileType)
}

func TestBind_Errors(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)

	var unknown *editor.UnknownFieldError
	assert.ErrorAs(t, c.Bind("nope", model.GridRef("/g")), &unknown)

	var wrongKind *WrongKindError
	require.ErrorAs(t, c.Bind(IDModelName, model.GridRef("/g")), &wrongKind)
	assert.Equal(t, editor.KindText, wrongKind.Kind)
}

func TestBind_ReferenceTypes(t *testing.T) {
	tests := []struct {
		name    string
		id      editor.ID
		ref     any
		wantErr bool
	}{
		{"grid on grid", IDGrid, model.GridRef("/g"), false},
		{"property on grid", IDGrid, model.PropertyRef("/p"), true},
		{"property on single source", "mechanical.rockStrainRelaxation.source", model.PropertyRef("/p"), false},
		{"result on single source", "mechanical.rockStrainRelaxation.source", model.GridResultRef("/r"), true},
		{"property on dual source", IDYoungsModSource, model.PropertyRef("/p"), false},
		{"result on dual source", IDYoungsModSource, model.GridResultRef("/r"), false},
		{"grid on dual source", IDYoungsModSource, model.GridRef("/g"), true},
		{"nil clears", IDCrackSurfaceEnergySource, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t, workflow.KindProcess, nil)

			err := c.Bind(tt.id, tt.ref)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.ref, c.Form().Bound(tt.id))
				return
			}
			var refErr *RefTypeError
			require.ErrorAs(t, err, &refErr)
			assert.Equal(t, tt.id, refErr.ID)
			assert.Nil(t, c.Form().Bound(tt.id), "a rejected reference is not bound")
		})
	}
}

func TestLoad_ChoiceClamped(t *testing.T) {
	pkg := model.NewArgumentPackage()
	pkg.Aperture.Method = model.ApertureMethod(9)
	pkg.Output.DFNFileType = model.DFNFileType(-4)
	c := New(workflow.NewContext(workflow.KindWorkflow), pkg, nil, Options{})
	t.Cleanup(c.Close)
	form := c.Form()

	assert.Equal(t, int(model.ApertureBartonBandis), form.Field(IDApertureMethod).Selected)
	assert.True(t, form.Field(IDApertureBartonBandisGroup).Enabled, "the clamped method drives the aperture groups")
	assert.False(t, form.Field(IDApertureUniformGroup).Enabled)
	assert.Equal(t, 0, form.Field("output.dfnFileType").Selected)
}

func TestAddEpisode(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)

	index := c.AddEpisode()

	assert.Equal(t, 1, index)
	assert.Equal(t, 2, c.Package().EpisodeCount())
	assert.Equal(t, 1, c.SelectedEpisode())
	require.NotNil(t, c.Dialogs().Get(1), "the detail editor opens on the new episode")
}

func TestEditEpisode(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)

	assert.True(t, c.EditEpisode(0))
	assert.NotNil(t, c.Dialogs().Get(0))

	assert.False(t, c.EditEpisode(-1), "no selection")
	assert.False(t, c.EditEpisode(5))
	assert.Len(t, c.Dialogs().List(), 1)
}

func TestRemoveEpisode_PreservesSelection(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)
	p := c.Package()
	for p.EpisodeCount() < 5 {
		p.AddEpisode()
	}
	p.Episode(3).Duration = 7
	c.Load()
	require.NoError(t, c.SetSelected(IDEpisodes, 3))

	require.True(t, c.RemoveEpisode(1))

	assert.Equal(t, 4, p.EpisodeCount())
	assert.Equal(t, 2, c.SelectedEpisode())
	assert.Equal(t, 7.0, p.Episode(c.SelectedEpisode()).Duration)
	assert.Len(t, c.Form().Field(IDEpisodes).Items, 4)
}

func TestRemoveEpisode_Selection(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		selected int
		remove   int
		want     int
	}{
		{name: "remove after selection", count: 4, selected: 1, remove: 3, want: 1},
		{name: "remove the selected last item", count: 3, selected: 2, remove: 2, want: 1},
		{name: "one item left is selected", count: 2, selected: -1, remove: 0, want: 0},
		{name: "empty list selects none", count: 1, selected: 0, remove: 0, want: -1},
		{name: "invalid index is a no-op", count: 3, selected: 1, remove: 9, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t, workflow.KindProcess, nil)
			p := c.Package()
			for p.EpisodeCount() < tt.count {
				p.AddEpisode()
			}
			c.Load()
			require.NoError(t, c.SetSelected(IDEpisodes, tt.selected))

			c.RemoveEpisode(tt.remove)

			assert.Equal(t, tt.want, c.SelectedEpisode())
		})
	}
}

func TestRemoveEpisode_ClosesDialog(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)
	c.AddEpisode()
	c.AddEpisode()
	stale := c.Dialogs().Get(1)
	later := c.Dialogs().Get(2)
	require.NotNil(t, stale)
	require.NotNil(t, later)

	c.RemoveEpisode(1)

	assert.True(t, stale.Closed())
	assert.False(t, later.Closed())
	assert.Equal(t, 1, later.Index())
}

func TestDialogApply_ReloadsController(t *testing.T) {
	c, _ := newTestController(t, workflow.KindProcess, nil)
	require.True(t, c.EditEpisode(0))
	dlg := c.Dialogs().Get(0)

	ep, err := dlg.Episode()
	require.NoError(t, err)
	ep.Duration = 12
	require.NoError(t, dlg.Apply(ep))

	assert.Equal(t, "1: 12ma; Ehmin -0.01/ma @ 0deg; Ehmax 0/ma", c.Form().Field(IDEpisodes).Items[0])
}

func TestClose_Unsubscribes(t *testing.T) {
	wctx := workflow.NewContext(workflow.KindProcess)
	c := New(wctx, model.NewArgumentPackage(), nil, Options{})
	c.EditEpisode(0)
	require.Equal(t, 1, wctx.Subscribers())

	c.Close()

	assert.Equal(t, 0, wctx.Subscribers())
	assert.Empty(t, c.Dialogs().List())
}
