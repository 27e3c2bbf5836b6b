// Package controller keeps an argument package and its editor form in sync.
//
// A Controller runs two passes. The load pass copies every argument into its
// editor, rebuilds the episode list while keeping the selection where it
// can, and then re-derives the enable/disable state and the fractal density
// unit. The store pass reads every editor back through the field accessors
// and writes the package, resolving each dual-source property with the
// grid result taking precedence.
//
// Several controllers (and episode dialogs) may be attached to the same
// package through one workflow.Context. Whoever writes the package
// broadcasts a change notification with its own token; every other
// controller reloads, and a controller ignores its own notifications.
package controller

import (
	"context"

	"go.uber.org/zap"

	"github.com/shinji-kodama/dfmgen/internal/derive"
	"github.com/shinji-kodama/dfmgen/internal/editor"
	"github.com/shinji-kodama/dfmgen/internal/engine"
	"github.com/shinji-kodama/dfmgen/internal/episode"
	"github.com/shinji-kodama/dfmgen/internal/field"
	"github.com/shinji-kodama/dfmgen/internal/model"
	"github.com/shinji-kodama/dfmgen/internal/units"
	"github.com/shinji-kodama/dfmgen/internal/workflow"
)

// ExecutorSource produces an executor for the package on commit.
type ExecutorSource interface {
	Executor(pkg *model.ArgumentPackage) *engine.Executor
}

// Options configures a Controller. Every field is optional.
type Options struct {
	// Units labels the editors. Defaults to units.Metric.
	Units units.System

	// Names resolves the display name of bound references. Defaults to
	// editor.PathNames.
	Names editor.NameResolver

	// Logger is the output channel for store-pass failures.
	Logger *zap.Logger
}

// Controller synchronizes one editor form with a shared argument package.
type Controller struct {
	wctx   *workflow.Context
	pkg    *model.ArgumentPackage
	source ExecutorSource

	form    *editor.Form
	units   units.System
	names   editor.NameResolver
	log     *zap.Logger
	token   workflow.Token
	unsub   func()
	episode *episode.Manager
	dialogs *episode.Dialogs
}

// New builds the form for pkg, runs the first load pass and subscribes to
// change notifications on wctx. source may be nil when the context never
// executes.
func New(wctx *workflow.Context, pkg *model.ArgumentPackage, source ExecutorSource, opts Options) *Controller {
	c := &Controller{
		wctx:   wctx,
		pkg:    pkg,
		source: source,
		form:   editor.NewForm(),
		units:  opts.Units,
		names:  opts.Names,
		log:    opts.Logger,
		token:  workflow.NewToken(),
	}
	if c.units == nil {
		c.units = units.Metric
	}
	if c.names == nil {
		c.names = editor.PathNames{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}

	for _, b := range bindings {
		fld := c.form.Add(b.id, b.kind, b.label)
		fld.Items = b.items
		if b.unit != "" {
			fld.Unit = c.units.Symbol(b.unit)
		}
	}
	c.form.Add(IDEpisodes, editor.KindList, "Deformation episodes")

	c.episode = episode.NewManager(pkg)
	c.dialogs = episode.NewDialogs(wctx, pkg, c.episode)

	c.Load()
	c.unsub = wctx.Subscribe(c.token, c.packageChanged)
	return c
}

// packageChanged is the change-bus listener. The bus never delivers the
// controller's own notifications, so every call is a foreign change.
func (c *Controller) packageChanged() {
	c.log.Debug("argument package changed elsewhere; reloading", zap.String("view", c.token.String()))
	c.Load()
}

// Form returns the editor form.
func (c *Controller) Form() *editor.Form {
	return c.form
}

// Package returns the argument package.
func (c *Controller) Package() *model.ArgumentPackage {
	return c.pkg
}

// Token returns the originator token of this controller.
func (c *Controller) Token() workflow.Token {
	return c.token
}

// Dialogs returns the episode detail editors opened from this controller.
func (c *Controller) Dialogs() *episode.Dialogs {
	return c.dialogs
}

// SelectedEpisode returns the selected index in the episode list, or -1.
func (c *Controller) SelectedEpisode() int {
	return c.form.Field(IDEpisodes).Selected
}

// Close unsubscribes from the change bus and closes any open episode
// dialogs. The controller must not be used afterwards.
func (c *Controller) Close() {
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
	c.dialogs.CloseAll()
}

// Load runs the load pass: every argument into its editor, the episode
// list with selection preservation, then the aperture rule, the oblique
// fracture rule and the fractal unit rule, in that order.
func (c *Controller) Load() {
	for _, b := range bindings {
		if b.load == nil {
			continue
		}
		b.load(c.form, c.form.Field(b.id), c.pkg, c.names)
	}
	c.loadEpisodes()

	c.applyApertureRule()
	c.applyObliqueRule()
	c.applyUnitRule()
}

// loadEpisodes rebuilds the episode list. The selection stays on the same
// index while it is valid, moves to the last item when the list shrank
// past it, and is cleared when the list is empty. A single item is always
// selected.
func (c *Controller) loadEpisodes() {
	list := c.form.Field(IDEpisodes)
	previous := list.Selected

	n := c.pkg.EpisodeCount()
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, c.pkg.EpisodeLabel(i))
	}
	list.Items = items

	switch {
	case n == 1:
		list.Selected = 0
	case previous < n:
		list.Selected = previous
	case n > 0:
		list.Selected = n - 1
	default:
		list.Selected = -1
	}
}

// storePass writes every editor into the package. Errors inside the
// dual-source block are logged and end the block; nothing aborts the pass.
func (c *Controller) storePass() {
	blockFailed := false
	for _, b := range bindings {
		if b.store == nil || (b.guarded && blockFailed) {
			continue
		}
		err := b.store(c.form, c.form.Field(b.id), c.pkg)
		if err == nil {
			continue
		}
		c.log.Error("failed to store mechanical property source",
			zap.String("editor", string(b.id)), zap.Error(err))
		if b.guarded {
			blockFailed = true
		}
	}
}

// Store runs the store pass and notifies the other views of the package.
func (c *Controller) Store() {
	c.storePass()
	c.wctx.Broadcast(c.token)
}

// Commit stores the editors into the package, dispatches the engine when
// the context allows execution, notifies the other views and reloads to
// show whatever the engine normalized. An engine error is returned after
// the reload; the package is never left half-written.
func (c *Controller) Commit(ctx context.Context) error {
	c.storePass()

	var runErr error
	if c.wctx.CanExecute() && c.source != nil {
		runErr = c.source.Executor(c.pkg).Run(ctx)
	}

	c.wctx.Broadcast(c.token)
	c.Load()
	return runErr
}

// ResetDefaults restores every argument to its default, notifies the other
// views and reloads.
func (c *Controller) ResetDefaults() {
	c.pkg.ResetDefaults()
	c.wctx.Broadcast(c.token)
	c.Load()
}

// SetText edits a text, real or int box. Editing the size-distribution
// exponent c re-derives the unit of the microfracture density A.
func (c *Controller) SetText(id editor.ID, text string) error {
	if err := c.form.SetText(id, text); err != nil {
		return err
	}
	if id == IDSizeDistributionDefault {
		c.applyUnitRule()
	}
	return nil
}

// SetChecked edits a check box. Toggling "include oblique fractures"
// enables or disables the fracture-set controls.
func (c *Controller) SetChecked(id editor.ID, checked bool) error {
	if err := c.form.SetChecked(id, checked); err != nil {
		return err
	}
	if id == IDIncludeObliqueFracs {
		c.applyObliqueRule()
	}
	return nil
}

// SetSelected edits a drop-down or the episode list selection. Changing
// the aperture method switches the enabled aperture parameter group.
func (c *Controller) SetSelected(id editor.ID, index int) error {
	if err := c.form.SetSelected(id, index); err != nil {
		return err
	}
	if id == IDApertureMethod {
		c.applyApertureRule()
	}
	return nil
}

// SetValue edits a spin box. Changing the number of fracture sets resets
// the check-all-stress-shadows flag to match.
func (c *Controller) SetValue(id editor.ID, value int) error {
	if err := c.form.SetValue(id, value); err != nil {
		return err
	}
	if id == IDNoFractureSets {
		_ = c.form.SetChecked(IDCheckAllStressShadows, derive.CheckAllStressShadows(value))
	}
	return nil
}

// Bind drops a domain reference onto a reference editor. A nil ref clears
// it; a reference of a type the editor does not take is rejected.
func (c *Controller) Bind(id editor.ID, ref any) error {
	fld := c.form.Field(id)
	if fld == nil {
		return &editor.UnknownFieldError{ID: id}
	}
	if fld.Kind != editor.KindReference {
		return &WrongKindError{ID: id, Kind: fld.Kind}
	}
	if accepts := refFilters[id]; ref != nil && accepts != nil && !accepts(ref) {
		return &RefTypeError{ID: id, Ref: ref}
	}
	return c.form.Bind(id, ref, c.names)
}

// Clear removes the reference bound to a reference editor.
func (c *Controller) Clear(id editor.ID) error {
	return c.Bind(id, nil)
}

// AddEpisode stores the editors, appends an episode, opens its detail
// editor and selects it, then notifies and reloads. It returns the new
// index.
func (c *Controller) AddEpisode() int {
	c.storePass()
	index := c.episode.Add()
	c.episode.Edit(index)
	c.form.Field(IDEpisodes).Selected = index
	c.wctx.Broadcast(c.token)
	c.Load()
	return index
}

// EditEpisode stores the editors and opens the detail editor on index.
// It reports false when index names no episode.
func (c *Controller) EditEpisode(index int) bool {
	c.storePass()
	ok := c.episode.Edit(index)
	c.wctx.Broadcast(c.token)
	c.Load()
	return ok
}

// RemoveEpisode stores the editors, removes the episode at index, notifies
// and reloads. When an episode before the selection is removed the
// selection moves down with the selected episode. It reports false when
// index names no episode.
func (c *Controller) RemoveEpisode(index int) bool {
	c.storePass()
	ok := c.episode.Remove(index)
	if ok {
		list := c.form.Field(IDEpisodes)
		if index < list.Selected {
			list.Selected--
		}
	}
	c.wctx.Broadcast(c.token)
	c.Load()
	return ok
}

func (c *Controller) applyApertureRule() {
	method := model.ApertureMethod(c.form.Field(IDApertureMethod).Selected)
	g := derive.ApertureGroupsFor(method)
	_ = c.form.SetEnabled(IDApertureUniformGroup, g.Uniform)
	_ = c.form.SetEnabled(IDApertureSizeDependentGroup, g.SizeDependent)
	_ = c.form.SetEnabled(IDApertureDynamicGroup, g.Dynamic)
	_ = c.form.SetEnabled(IDApertureBartonBandisGroup, g.BartonBandis)
}

func (c *Controller) applyObliqueRule() {
	on := derive.ObliqueControlsEnabled(c.form.Field(IDIncludeObliqueFracs).Checked)
	_ = c.form.SetEnabled(IDNoFractureSets, on)
	_ = c.form.SetEnabled(IDCheckAllStressShadows, on)
}

// applyUnitRule reads c from its editor, not from the package, so the
// label follows unsaved edits.
func (c *Controller) applyUnitRule() {
	exponent := field.ParseReal(c.form.Field(IDSizeDistributionDefault).Text)
	length := c.units.Symbol(units.ThicknessDepth)
	_ = c.form.SetUnit(IDInitialDensityDefault, derive.FractalDensityUnit(exponent, length))
}
