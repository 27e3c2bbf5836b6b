// Package episode manages the ordered deformation-episode collection of an
// argument package and the detail editors opened on individual episodes.
//
// Episodes have no identity beyond their position. Removing one renumbers
// every later episode, so any detail editor still pointing at the removed
// index must close itself instead of silently editing a different episode.
// The Manager announces each removal with a "removed" event for exactly
// that purpose.
package episode

import (
	"github.com/shinji-kodama/dfmgen/internal/model"
)

// Opener opens the detail editor for the episode at index.
type Opener interface {
	Open(index int)
}

// RemovedFunc is called with the index of an episode about to be removed.
type RemovedFunc func(index int)

// Manager performs add, edit and remove on the episodes of one package.
//
// Invalid indices are ignored: the editing surface only offers indices it
// controls, so an out-of-range index means "nothing selected".
type Manager struct {
	pkg     *model.ArgumentPackage
	opener  Opener
	removed []RemovedFunc
}

// NewManager returns a manager for the episodes of pkg.
func NewManager(pkg *model.ArgumentPackage) *Manager {
	return &Manager{pkg: pkg}
}

// SetOpener sets the detail editor factory used by Edit.
func (m *Manager) SetOpener(o Opener) {
	m.opener = o
}

// OnRemoved registers fn for the removed event.
func (m *Manager) OnRemoved(fn RemovedFunc) {
	m.removed = append(m.removed, fn)
}

// Add appends a default episode and returns its index, which is always the
// previous episode count. The caller is expected to open the detail editor
// on the new index.
func (m *Manager) Add() int {
	return m.pkg.AddEpisode()
}

// Edit opens the detail editor on index. It reports false, and does
// nothing, when index does not name an episode.
func (m *Manager) Edit(index int) bool {
	if !m.valid(index) {
		return false
	}
	if m.opener != nil {
		m.opener.Open(index)
	}
	return true
}

// Remove deletes the episode at index and shifts later episodes down by one.
//
// The removed event fires once, before the episode is deleted, so handlers
// can still read the episode being removed. Remove reports false, and does
// nothing, when index does not name an episode.
func (m *Manager) Remove(index int) bool {
	if !m.valid(index) {
		return false
	}
	for _, fn := range m.removed {
		fn(index)
	}
	m.pkg.RemoveEpisode(index)
	return true
}

func (m *Manager) valid(index int) bool {
	return index >= 0 && index < m.pkg.EpisodeCount()
}
