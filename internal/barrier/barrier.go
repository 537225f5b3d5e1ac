// Package barrier delays commits of sibling windows while a newly mapped window
// settles, and raises it once every sibling has shown a frame at its new position.
package barrier

import (
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/ItsNotGoodName/x-tagwm/internal/window"
	"github.com/google/uuid"
)

var active atomic.Int64

// Active is the number of episodes waiting for release. It is for diagnostics only,
// the blocker token sets in each Tracker decide what is actually held back.
func Active() int64 {
	return active.Load()
}

type State int

const (
	StateIdle State = iota
	StateAwaitingRelease
	StateAwaitingConfirm
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingRelease:
		return "awaiting-release"
	case StateAwaitingConfirm:
		return "awaiting-confirm"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

type Idler interface {
	InsertIdle(fn func())
}

type Episode struct {
	ID       uuid.UUID
	Gated    window.ID
	Siblings []window.ID
	State    State

	onConfirm func()
	waiter    *waiter
}

type waiter struct {
	pending map[window.ID]struct{}
	fn      func()
}

type Tracker struct {
	idle     Idler
	blockers map[window.ID]map[uuid.UUID]struct{}
	deferred map[window.ID]int
	waiters  []*waiter
	episodes map[window.ID]*Episode
}

func NewTracker(idle Idler) *Tracker {
	return &Tracker{
		idle:     idle,
		blockers: make(map[window.ID]map[uuid.UUID]struct{}),
		deferred: make(map[window.ID]int),
		episodes: make(map[window.ID]*Episode),
	}
}

func (t *Tracker) Blocked(id window.ID) bool {
	return len(t.blockers[id]) > 0
}

// Deferred is the number of commits held back for id.
func (t *Tracker) Deferred(id window.ID) int {
	return t.deferred[id]
}

// EpisodeState is StateIdle when gated has no episode in flight.
func (t *Tracker) EpisodeState(gated window.ID) State {
	if ep, ok := t.episodes[gated]; ok {
		return ep.State
	}
	return StateIdle
}

func (t *Tracker) Episodes() []Episode {
	eps := make([]Episode, 0, len(t.episodes))
	for _, ep := range t.episodes {
		eps = append(eps, Episode{
			ID:       ep.ID,
			Gated:    ep.Gated,
			Siblings: slices.Clone(ep.Siblings),
			State:    ep.State,
		})
	}
	slices.SortFunc(eps, func(a, b Episode) int { return int(a.Gated) - int(b.Gated) })
	return eps
}

// Commit records a new frame for id. Blocked windows have the commit deferred
// until their last blocker is removed.
func (t *Tracker) Commit(id window.ID) {
	if t.Blocked(id) {
		t.deferred[id]++
		slog.Debug("Deferred commit", "package", "barrier", "window", id, "deferred", t.deferred[id])
		return
	}
	t.satisfy(id)
}

// ScheduleOnCommit runs fn once every window in ids has delivered a commit.
// Windows forgotten in the meantime count as committed. An empty set runs fn on the next idle turn.
func (t *Tracker) ScheduleOnCommit(ids []window.ID, fn func()) {
	t.schedule(ids, fn)
}

func (t *Tracker) schedule(ids []window.ID, fn func()) *waiter {
	if len(ids) == 0 {
		t.idle.InsertIdle(fn)
		return nil
	}

	w := &waiter{
		pending: make(map[window.ID]struct{}, len(ids)),
		fn:      fn,
	}
	for _, id := range ids {
		w.pending[id] = struct{}{}
	}
	t.waiters = append(t.waiters, w)
	return w
}

// satisfy removes id from every waiter and fires the ones left with nothing pending.
func (t *Tracker) satisfy(id window.ID) {
	var ready []*waiter
	for _, w := range t.waiters {
		if _, ok := w.pending[id]; !ok {
			continue
		}
		delete(w.pending, id)
		if len(w.pending) == 0 {
			ready = append(ready, w)
		}
	}
	if len(ready) == 0 {
		return
	}

	t.waiters = slices.DeleteFunc(t.waiters, func(w *waiter) bool { return slices.Contains(ready, w) })
	for _, w := range ready {
		w.fn()
	}
}

func (t *Tracker) removeWaiter(w *waiter) {
	if w == nil {
		return
	}
	t.waiters = slices.DeleteFunc(t.waiters, func(x *waiter) bool { return x == w })
}

func (t *Tracker) block(id window.ID, token uuid.UUID) {
	tokens, ok := t.blockers[id]
	if !ok {
		tokens = make(map[uuid.UUID]struct{})
		t.blockers[id] = tokens
	}
	tokens[token] = struct{}{}
}

func (t *Tracker) unblock(id window.ID, token uuid.UUID) {
	tokens, ok := t.blockers[id]
	if !ok {
		return
	}
	delete(tokens, token)
	if len(tokens) > 0 {
		return
	}
	delete(t.blockers, id)

	if t.deferred[id] > 0 {
		delete(t.deferred, id)
		t.satisfy(id)
	}
}

// Begin gates gated on siblings. Sibling commits are deferred until gated commits,
// then onConfirm runs once every sibling commits again.
func (t *Tracker) Begin(gated window.ID, siblings []window.ID, onConfirm func()) *Episode {
	if ep, ok := t.episodes[gated]; ok {
		t.cancel(ep)
	}

	ep := &Episode{
		ID:        uuid.New(),
		Gated:     gated,
		Siblings:  slices.Clone(siblings),
		State:     StateAwaitingRelease,
		onConfirm: onConfirm,
	}
	t.episodes[gated] = ep

	active.Add(1)
	for _, id := range ep.Siblings {
		t.block(id, ep.ID)
	}
	ep.waiter = t.schedule([]window.ID{gated}, func() { t.release(ep) })

	slog.Debug("Barrier installed", "package", "barrier", "episode", ep.ID, "gated", gated, "siblings", ep.Siblings)
	return ep
}

func (t *Tracker) release(ep *Episode) {
	if ep.State != StateAwaitingRelease {
		return
	}

	active.Add(-1)
	for _, id := range ep.Siblings {
		t.unblock(id, ep.ID)
	}

	// Deferred commits were flushed above so only commits after this point confirm.
	ep.State = StateAwaitingConfirm
	ep.waiter = t.schedule(ep.Siblings, func() { t.confirm(ep) })

	slog.Debug("Barrier released", "package", "barrier", "episode", ep.ID, "gated", ep.Gated)
}

func (t *Tracker) confirm(ep *Episode) {
	if ep.State != StateAwaitingConfirm {
		return
	}

	ep.State = StateDone
	ep.waiter = nil
	if t.episodes[ep.Gated] == ep {
		delete(t.episodes, ep.Gated)
	}

	slog.Debug("Barrier confirmed", "package", "barrier", "episode", ep.ID, "gated", ep.Gated)
	if ep.onConfirm != nil {
		ep.onConfirm()
	}
}

// cancel ends ep without confirming, releasing any siblings still held.
func (t *Tracker) cancel(ep *Episode) {
	t.removeWaiter(ep.waiter)
	ep.waiter = nil
	if t.episodes[ep.Gated] == ep {
		delete(t.episodes, ep.Gated)
	}

	state := ep.State
	ep.State = StateDone
	if state == StateAwaitingRelease {
		active.Add(-1)
		for _, id := range ep.Siblings {
			t.unblock(id, ep.ID)
		}
	}

	slog.Debug("Barrier cancelled", "package", "barrier", "episode", ep.ID, "gated", ep.Gated, "state", state)
}

// Forget drops every reference to a destroyed window.
func (t *Tracker) Forget(id window.ID) {
	if ep, ok := t.episodes[id]; ok {
		t.cancel(ep)
	}

	delete(t.blockers, id)
	delete(t.deferred, id)
	for _, ep := range t.episodes {
		ep.Siblings = slices.DeleteFunc(ep.Siblings, func(s window.ID) bool { return s == id })
	}
	t.satisfy(id)
}
