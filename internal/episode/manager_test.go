package episode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/dfmgen/internal/model"
	"github.com/shinji-kodama/dfmgen/internal/workflow"
)

type recordingOpener struct {
	opened []int
}

func (r *recordingOpener) Open(index int) { r.opened = append(r.opened, index) }

// newPackage returns a package with n episodes whose azimuths equal their
// original index, so shifts are observable.
func newPackage(n int) *model.ArgumentPackage {
	p := model.NewArgumentPackage()
	p.Episodes = nil
	for i := 0; i < n; i++ {
		idx := p.AddEpisode()
		p.Episode(idx).EhminAzimuth = float64(i)
	}
	return p
}

func azimuths(p *model.ArgumentPackage) []float64 {
	out := make([]float64, 0, p.EpisodeCount())
	for i := 0; i < p.EpisodeCount(); i++ {
		out = append(out, p.Episode(i).EhminAzimuth)
	}
	return out
}

func TestManager_AddReturnsPreviousLength(t *testing.T) {
	p := newPackage(2)
	m := NewManager(p)

	assert.Equal(t, 2, m.Add())
	assert.Equal(t, 3, m.Add())
	assert.Equal(t, 4, p.EpisodeCount())
}

func TestManager_Edit(t *testing.T) {
	p := newPackage(3)
	m := NewManager(p)
	o := &recordingOpener{}
	m.SetOpener(o)

	assert.True(t, m.Edit(1))
	assert.False(t, m.Edit(-1), "empty selection is a no-op")
	assert.False(t, m.Edit(3), "past the end is a no-op")
	assert.Equal(t, []int{1}, o.opened)
}

func TestManager_RemoveShiftsAndFiresOnce(t *testing.T) {
	p := newPackage(5)
	m := NewManager(p)

	var events []int
	var seenAzimuth float64
	m.OnRemoved(func(i int) {
		events = append(events, i)
		seenAzimuth = p.Episode(i).EhminAzimuth
	})

	require.True(t, m.Remove(1))

	assert.Equal(t, []int{1}, events)
	assert.Equal(t, 1.0, seenAzimuth, "handlers run before the episode is deleted")
	assert.Equal(t, []float64{0, 2, 3, 4}, azimuths(p))
}

func TestManager_RemoveInvalidIndexIsNoop(t *testing.T) {
	p := newPackage(2)
	m := NewManager(p)
	fired := 0
	m.OnRemoved(func(int) { fired++ })

	assert.False(t, m.Remove(-1))
	assert.False(t, m.Remove(2))
	assert.Equal(t, 0, fired)
	assert.Equal(t, 2, p.EpisodeCount())
}

// TestManager_IndicesStayContiguous drives a mixed sequence of adds and
// removes and checks the collection never has gaps.
func TestManager_IndicesStayContiguous(t *testing.T) {
	p := newPackage(0)
	m := NewManager(p)

	ops := []struct {
		add   bool
		index int
	}{
		{add: true}, {add: true}, {add: true},
		{index: 1}, {add: true}, {index: 0}, {index: 5},
		{add: true}, {index: 2}, {index: -1}, {index: 0},
	}
	want := 0
	for _, op := range ops {
		if op.add {
			assert.Equal(t, want, m.Add())
			want++
		} else if m.Remove(op.index) {
			want--
		}
		require.Equal(t, want, p.EpisodeCount())
		for i := 0; i < p.EpisodeCount(); i++ {
			assert.NotEmpty(t, p.EpisodeLabel(i))
		}
	}
}

func TestDialogs_RemovalClosesOrRenumbers(t *testing.T) {
	p := newPackage(4)
	wctx := workflow.NewContext(workflow.KindProcess)
	m := NewManager(p)
	d := NewDialogs(wctx, p, m)

	m.Edit(0)
	m.Edit(2)
	m.Edit(3)
	m.Edit(2)
	require.Len(t, d.List(), 3, "opening the same index twice reuses the dialog")

	first, onRemoved, later := d.Get(0), d.Get(2), d.Get(3)

	require.True(t, m.Remove(2))

	assert.True(t, onRemoved.Closed())
	assert.False(t, first.Closed())
	assert.Equal(t, 0, first.Index())
	assert.False(t, later.Closed())
	assert.Equal(t, 2, later.Index(), "later dialog follows its episode")

	ep, err := later.Episode()
	require.NoError(t, err)
	assert.Equal(t, 3.0, ep.EhminAzimuth)

	_, err = onRemoved.Episode()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, onRemoved.Apply(model.NewDeformationEpisode()), ErrClosed)
	assert.Len(t, d.List(), 2)
}

func TestDialog_ApplyBroadcastsToOthers(t *testing.T) {
	p := newPackage(2)
	wctx := workflow.NewContext(workflow.KindProcess)
	m := NewManager(p)
	d := NewDialogs(wctx, p, m)

	reloads := 0
	wctx.Subscribe(workflow.NewToken(), func() { reloads++ })

	m.Edit(1)
	dlg := d.Get(1)
	ep, err := dlg.Episode()
	require.NoError(t, err)
	ep.Duration = 5
	require.NoError(t, dlg.Apply(ep))

	assert.Equal(t, 5.0, p.Episode(1).Duration)
	assert.Equal(t, 1, reloads)

	d.CloseAll()
	assert.Empty(t, d.List())
	assert.True(t, dlg.Closed())
}
