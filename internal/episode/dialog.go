package episode

import (
	"errors"

	"github.com/shinji-kodama/dfmgen/internal/model"
	"github.com/shinji-kodama/dfmgen/internal/workflow"
)

// ErrClosed is returned by Dialog methods after the dialog was closed,
// either by its owner or because its episode was removed.
var ErrClosed = errors.New("episode dialog is closed")

// Dialogs is the detail-editor collaborator: it opens one Dialog per
// episode index and keeps the open dialogs consistent with removals.
type Dialogs struct {
	wctx *workflow.Context
	pkg  *model.ArgumentPackage
	open []*Dialog
}

// NewDialogs creates the detail-editor set for pkg and subscribes it to the
// removed event of m. It also installs itself as m's opener.
func NewDialogs(wctx *workflow.Context, pkg *model.ArgumentPackage, m *Manager) *Dialogs {
	d := &Dialogs{wctx: wctx, pkg: pkg}
	m.OnRemoved(d.removed)
	m.SetOpener(d)
	return d
}

// Open shows the dialog for index. An already open dialog on the same
// index is reused.
func (d *Dialogs) Open(index int) {
	if d.Get(index) != nil {
		return
	}
	d.open = append(d.open, &Dialog{owner: d, index: index, token: workflow.NewToken()})
}

// Get returns the open dialog on index, or nil.
func (d *Dialogs) Get(index int) *Dialog {
	for _, dlg := range d.open {
		if dlg.index == index {
			return dlg
		}
	}
	return nil
}

// List returns the open dialogs in the order they were opened.
func (d *Dialogs) List() []*Dialog {
	return append([]*Dialog(nil), d.open...)
}

// CloseAll closes every open dialog.
func (d *Dialogs) CloseAll() {
	for _, dlg := range d.List() {
		dlg.Close()
	}
}

// removed closes the dialog on the removed index and renumbers dialogs on
// later episodes so they keep editing the same episode.
func (d *Dialogs) removed(index int) {
	for _, dlg := range d.List() {
		switch {
		case dlg.index == index:
			dlg.Close()
		case dlg.index > index:
			dlg.index--
		}
	}
}

func (d *Dialogs) forget(dlg *Dialog) {
	for i, o := range d.open {
		if o == dlg {
			d.open = append(d.open[:i], d.open[i+1:]...)
			return
		}
	}
}

// Dialog is the index-addressed editor of one episode.
type Dialog struct {
	owner  *Dialogs
	index  int
	token  workflow.Token
	closed bool
}

// Index returns the current index of the edited episode.
func (dlg *Dialog) Index() int {
	return dlg.index
}

// Closed reports whether the dialog has been closed.
func (dlg *Dialog) Closed() bool {
	return dlg.closed
}

// Episode returns a copy of the edited episode.
func (dlg *Dialog) Episode() (model.DeformationEpisode, error) {
	if dlg.closed {
		return model.DeformationEpisode{}, ErrClosed
	}
	return *dlg.owner.pkg.Episode(dlg.index), nil
}

// Apply writes ep over the edited episode and notifies every other view of
// the package.
func (dlg *Dialog) Apply(ep model.DeformationEpisode) error {
	if dlg.closed {
		return ErrClosed
	}
	*dlg.owner.pkg.Episode(dlg.index) = ep
	dlg.owner.wctx.Broadcast(dlg.token)
	return nil
}

// Close closes the dialog. Closing twice is a no-op.
func (dlg *Dialog) Close() {
	if dlg.closed {
		return
	}
	dlg.closed = true
	dlg.owner.forget(dlg)
}
