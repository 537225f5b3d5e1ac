package barrier

import (
	"testing"

	"github.com/ItsNotGoodName/x-tagwm/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idler struct {
	fns []func()
}

func (i *idler) InsertIdle(fn func()) {
	i.fns = append(i.fns, fn)
}

func (i *idler) dispatch() {
	for len(i.fns) > 0 {
		fns := i.fns
		i.fns = nil
		for _, fn := range fns {
			fn()
		}
	}
}

func TestScheduleOnCommit(t *testing.T) {
	tr := NewTracker(&idler{})

	fired := 0
	tr.ScheduleOnCommit([]window.ID{1, 2}, func() { fired++ })

	tr.Commit(1)
	tr.Commit(1)
	assert.Equal(t, 0, fired, "waits for every window")

	tr.Commit(2)
	assert.Equal(t, 1, fired)

	tr.Commit(2)
	assert.Equal(t, 1, fired, "fires once")
}

func TestScheduleOnCommitEmpty(t *testing.T) {
	idle := &idler{}
	tr := NewTracker(idle)

	fired := false
	tr.ScheduleOnCommit(nil, func() { fired = true })
	assert.False(t, fired, "not immediately")

	idle.dispatch()
	assert.True(t, fired)
}

func TestScheduleOnCommitForget(t *testing.T) {
	tr := NewTracker(&idler{})

	fired := false
	tr.ScheduleOnCommit([]window.ID{1, 2}, func() { fired = true })
	tr.Commit(1)
	tr.Forget(2)
	assert.True(t, fired, "destroyed window counts as committed")
}

func TestDeferredCommits(t *testing.T) {
	tr := NewTracker(&idler{})
	ep := tr.Begin(10, []window.ID{1}, nil)

	fired := false
	tr.ScheduleOnCommit([]window.ID{1}, func() { fired = true })

	tr.Commit(1)
	tr.Commit(1)
	assert.True(t, tr.Blocked(1))
	assert.Equal(t, 2, tr.Deferred(1))
	assert.False(t, fired, "blocked commit is not delivered")

	tr.unblock(1, ep.ID)
	assert.False(t, tr.Blocked(1))
	assert.Equal(t, 0, tr.Deferred(1))
	assert.True(t, fired, "flushed on unblock")
}

// B is mapped while A exists. A's commits are held until B commits, and B is
// raised only after A commits again.
func TestBarrierOrdering(t *testing.T) {
	const a, b window.ID = 1, 2

	tr := NewTracker(&idler{})
	before := Active()

	raised := false
	tr.Begin(b, []window.ID{a}, func() { raised = true })
	assert.Equal(t, StateAwaitingRelease, tr.EpisodeState(b))
	assert.Equal(t, before+1, Active())
	assert.True(t, tr.Blocked(a))

	// First commit of A is held back.
	tr.Commit(a)
	assert.Equal(t, 1, tr.Deferred(a))
	assert.False(t, raised)

	// B commits, releasing A and flushing its held commit.
	tr.Commit(b)
	assert.Equal(t, StateAwaitingConfirm, tr.EpisodeState(b))
	assert.Equal(t, before, Active())
	assert.False(t, tr.Blocked(a))
	assert.Equal(t, 0, tr.Deferred(a))
	assert.False(t, raised, "flushed commit does not confirm")

	// Second commit of A is the post-release frame.
	tr.Commit(a)
	assert.True(t, raised)
	assert.Equal(t, StateIdle, tr.EpisodeState(b))
	assert.Empty(t, tr.Episodes())
}

func TestBarrierWaitsForEverySibling(t *testing.T) {
	tr := NewTracker(&idler{})

	raised := false
	tr.Begin(3, []window.ID{1, 2}, func() { raised = true })
	tr.Commit(3)

	tr.Commit(1)
	assert.False(t, raised)
	tr.Commit(2)
	assert.True(t, raised)
}

func TestBarrierGatedDestroyed(t *testing.T) {
	const a, b, c window.ID = 1, 2, 3

	tr := NewTracker(&idler{})
	before := Active()

	flushed := false
	raised := false
	tr.Begin(c, []window.ID{a, b}, func() { raised = true })
	tr.Commit(a)
	tr.ScheduleOnCommit([]window.ID{a}, func() { flushed = true })

	tr.Forget(c)
	assert.False(t, tr.Blocked(a))
	assert.False(t, tr.Blocked(b))
	assert.True(t, flushed, "held commit is released")
	assert.Equal(t, before, Active())
	assert.Equal(t, StateIdle, tr.EpisodeState(c))

	tr.Commit(a)
	tr.Commit(b)
	assert.False(t, raised, "destroyed window is never raised")
}

func TestBarrierGatedDestroyedWhileConfirming(t *testing.T) {
	tr := NewTracker(&idler{})

	raised := false
	tr.Begin(2, []window.ID{1}, func() { raised = true })
	tr.Commit(2)
	require.Equal(t, StateAwaitingConfirm, tr.EpisodeState(2))

	tr.Forget(2)
	tr.Commit(1)
	assert.False(t, raised)
}

func TestBarrierSiblingDestroyed(t *testing.T) {
	idle := &idler{}
	tr := NewTracker(idle)

	raised := false
	tr.Begin(3, []window.ID{1, 2}, func() { raised = true })

	tr.Forget(1)
	tr.Commit(3)
	tr.Commit(2)
	assert.True(t, raised)
}

func TestBarrierAllSiblingsDestroyed(t *testing.T) {
	idle := &idler{}
	tr := NewTracker(idle)

	raised := false
	tr.Begin(2, []window.ID{1}, func() { raised = true })
	tr.Forget(1)
	tr.Commit(2)
	assert.False(t, raised, "confirm goes through the idle queue")

	idle.dispatch()
	assert.True(t, raised)
}

func TestBarrierRestart(t *testing.T) {
	tr := NewTracker(&idler{})
	before := Active()

	first := false
	tr.Begin(2, []window.ID{1}, func() { first = true })
	second := false
	tr.Begin(2, []window.ID{1}, func() { second = true })
	assert.Equal(t, before+1, Active(), "previous episode is cancelled")
	assert.Len(t, tr.Episodes(), 1)

	tr.Commit(2)
	tr.Commit(1)
	assert.False(t, first)
	assert.True(t, second)
}

func TestBarrierSharedSibling(t *testing.T) {
	tr := NewTracker(&idler{})

	tr.Begin(2, []window.ID{1}, nil)
	tr.Begin(3, []window.ID{1}, nil)

	tr.Commit(1)
	tr.Commit(2)
	assert.True(t, tr.Blocked(1), "still held by the second episode")
	assert.Equal(t, 1, tr.Deferred(1))

	tr.Commit(3)
	assert.False(t, tr.Blocked(1))
	assert.Equal(t, 0, tr.Deferred(1))
}
