package xwm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ItsNotGoodName/x-tagwm/internal/barrier"
	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/grab"
	"github.com/ItsNotGoodName/x-tagwm/internal/layout"
	"github.com/ItsNotGoodName/x-tagwm/internal/loop"
	"github.com/ItsNotGoodName/x-tagwm/internal/selection"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	geometry  geom.Rect
	override  bool
	hints     window.Hints
	xwm       window.XwmID
	mapped    bool
	raised    int
	mapErr    error
	configErr error
}

func (f *fakeSurface) Geometry() geom.Rect { return f.geometry }

func (f *fakeSurface) Configure(rect geom.Rect) error {
	if f.configErr != nil {
		return f.configErr
	}
	f.geometry = rect
	return nil
}

func (f *fakeSurface) SetMapped(mapped bool) error {
	if f.mapErr != nil {
		return f.mapErr
	}
	f.mapped = mapped
	return nil
}

func (f *fakeSurface) Raise() error { f.raised++; return nil }
func (f *fakeSurface) Close() error { return nil }
func (f *fakeSurface) Title() string { return "" }
func (f *fakeSurface) Class() string { return "" }
func (f *fakeSurface) Alive() bool { return true }
func (f *fakeSurface) OverrideRedirect() bool { return f.override }
func (f *fakeSurface) XwmID() window.XwmID { return f.xwm }
func (f *fakeSurface) Hints() window.Hints { return f.hints }

type fakeKeyboard struct{}

func (fakeKeyboard) SetFocus(*window.Window, uint32) error { return nil }

type fakeSeat struct{}

func (fakeSeat) Keyboard() (wm.Keyboard, bool) { return fakeKeyboard{}, true }
func (fakeSeat) PointerLocation() geom.Point { return geom.Point{} }

type fakeGrabber struct {
	moved   *window.Window
	resized *window.Window
	edges   grab.Edges
}

func (g *fakeGrabber) BeginMove(w *window.Window, _ uint32) { g.moved = w }

func (g *fakeGrabber) BeginResize(w *window.Window, _ uint32, edges grab.Edges) {
	g.resized = w
	g.edges = edges
}

type harness struct {
	*Bridge
	state     *wm.State
	loop      *loop.Loop
	grabber   *fakeGrabber
	clipboard *selection.Memory
	primary   *selection.Memory
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	l := loop.New()
	state := wm.New(l, fakeSeat{}, layout.NewRegistry(0.5), []wm.TagTemplate{
		{Name: "1", Layout: layout.MasterStack, Active: true},
	})
	grabber := &fakeGrabber{}
	clipboard, primary := selection.NewMemory(selection.Clipboard), selection.NewMemory(selection.Primary)
	return &harness{
		Bridge:    NewBridge(state, grabber, clipboard, primary),
		state:     state,
		loop:      l,
		grabber:   grabber,
		clipboard: clipboard,
		primary:   primary,
	}
}

func (h *harness) window(t *testing.T, surface *fakeSurface) *window.Window {
	t.Helper()
	w, ok := h.state.WindowBySurface(surface)
	require.True(t, ok)
	return w
}

func TestMapRequestCentersOnFocusedOutput(t *testing.T) {
	h := newHarness(t)
	h.state.ConnectOutput("screen-0", geom.NewRect(0, 0, 1000, 600))

	surface := &fakeSurface{geometry: geom.NewRect(0, 0, 200, 100), hints: window.Hints{Type: window.TypeDialog}}
	h.MapRequest(surface)

	assert.True(t, surface.mapped)
	assert.Equal(t, geom.NewRect(400, 250, 200, 100), surface.geometry)
	w := h.window(t, surface)
	assert.Equal(t, window.KindX11, w.Kind)
	assert.True(t, w.Floating.IsFloating())
	assert.Equal(t, 1, surface.raised)
}

func TestMapRequestWithoutOutput(t *testing.T) {
	h := newHarness(t)

	surface := &fakeSurface{geometry: geom.NewRect(0, 0, 2, 2)}
	h.MapRequest(surface)

	assert.Equal(t, geom.NewRect(0, 0, 2, 2), surface.geometry)
	w := h.window(t, surface)
	assert.Empty(t, w.Tags)
}

func TestMapRequestFailures(t *testing.T) {
	h := newHarness(t)
	h.state.ConnectOutput("screen-0", geom.NewRect(0, 0, 1000, 600))

	h.MapRequest(&fakeSurface{mapErr: errors.New("gone")})
	h.MapRequest(&fakeSurface{configErr: errors.New("gone")})
	assert.Empty(t, h.state.Windows())
}

func TestMapRequestGatesSiblings(t *testing.T) {
	h := newHarness(t)
	h.state.ConnectOutput("screen-0", geom.NewRect(0, 0, 1000, 600))

	a := &fakeSurface{geometry: geom.NewRect(0, 0, 100, 100)}
	b := &fakeSurface{geometry: geom.NewRect(0, 0, 100, 100)}
	h.MapRequest(a)
	h.MapRequest(b)

	wa, wb := h.window(t, a), h.window(t, b)
	assert.True(t, h.state.Barriers.Blocked(wa.ID))

	h.Committed(b)
	assert.Equal(t, barrier.StateAwaitingConfirm, h.state.Barriers.EpisodeState(wb.ID))
	h.Committed(a)
	assert.Equal(t, 1, b.raised)
}

func TestOverrideRedirect(t *testing.T) {
	h := newHarness(t)
	h.state.ConnectOutput("screen-0", geom.NewRect(0, 0, 1000, 600))

	menu := &fakeSurface{geometry: geom.NewRect(30, 40, 10, 10), override: true}
	h.MappedOverrideRedirect(menu)

	elements := h.state.Space.Elements()
	require.Len(t, elements, 1)
	loc, _ := h.state.Space.ElementLocation(elements[0])
	assert.Equal(t, geom.Point{X: 30, Y: 40}, loc)
	assert.Empty(t, h.state.Windows(), "override redirect windows are not managed")
	assert.Empty(t, elements[0].Tags)

	h.ConfigureNotify(menu, geom.NewRect(50, 60, 10, 10))
	loc, _ = h.state.Space.ElementLocation(elements[0])
	assert.Equal(t, geom.Point{X: 50, Y: 60}, loc)

	h.Unmapped(menu)
	assert.Empty(t, h.state.Space.Elements())

	h.MapRequest(menu)
	assert.Len(t, h.state.Space.Elements(), 1)
	h.Destroyed(menu)
	assert.Empty(t, h.state.Space.Elements())
	assert.Empty(t, h.overrides)
}

func TestUnmappedAndDestroyed(t *testing.T) {
	h := newHarness(t)
	h.state.ConnectOutput("screen-0", geom.NewRect(0, 0, 1000, 600))

	surface := &fakeSurface{geometry: geom.NewRect(0, 0, 100, 100)}
	h.MapRequest(surface)
	w := h.window(t, surface)

	h.Unmapped(surface)
	assert.False(t, surface.mapped)
	assert.False(t, w.Mapped)
	assert.Contains(t, h.state.Windows(), w)

	h.MapRequest(surface)
	assert.True(t, w.Mapped)
	assert.Len(t, h.state.Windows(), 1)

	h.Destroyed(surface)
	assert.Empty(t, h.state.Windows())
	assert.Empty(t, h.state.Space.Elements())
}

func TestConfigureRequestKeepsPosition(t *testing.T) {
	h := newHarness(t)

	surface := &fakeSurface{geometry: geom.NewRect(10, 20, 100, 100)}
	width := int32(300)
	h.ConfigureRequest(surface, &width, nil)
	assert.Equal(t, geom.NewRect(10, 20, 300, 100), surface.geometry)
}

func TestMoveAndResizeRequest(t *testing.T) {
	h := newHarness(t)
	h.state.ConnectOutput("screen-0", geom.NewRect(0, 0, 1000, 600))

	surface := &fakeSurface{geometry: geom.NewRect(0, 0, 100, 100)}
	h.MapRequest(surface)
	w := h.window(t, surface)

	h.MoveRequest(surface, 1)
	assert.Same(t, w, h.grabber.moved)

	h.ResizeRequest(surface, 1, grab.EdgeTopLeft)
	assert.Same(t, w, h.grabber.resized)
	assert.Equal(t, grab.EdgeTopLeft, h.grabber.edges)

	h.MoveRequest(&fakeSurface{}, 1)
	assert.Same(t, w, h.grabber.moved)
}

func TestSelections(t *testing.T) {
	h := newHarness(t)
	h.state.ConnectOutput("screen-0", geom.NewRect(0, 0, 1000, 600))

	assert.False(t, h.AllowSelectionAccess("a", selection.Clipboard), "nothing focused")

	surface := &fakeSurface{geometry: geom.NewRect(0, 0, 100, 100), xwm: "a"}
	h.MapRequest(surface)
	h.loop.Dispatch()
	assert.True(t, h.AllowSelectionAccess("a", selection.Clipboard))
	assert.False(t, h.AllowSelectionAccess("b", selection.Primary))

	h.NewSelection("a", selection.Primary, []string{"UTF8_STRING"})
	_, ok := h.clipboard.Current()
	assert.False(t, ok)
	offer, ok := h.primary.Current()
	require.True(t, ok)
	assert.Equal(t, "a", offer.Owner)

	require.NoError(t, h.primary.Store("UTF8_STRING", []byte("text")))
	var buf bytes.Buffer
	h.SendSelection(selection.Primary, "UTF8_STRING", &buf)
	assert.Equal(t, "text", buf.String())

	h.ClearedSelection(selection.Primary)
	_, ok = h.primary.Current()
	assert.False(t, ok)
	h.ClearedSelection(selection.Clipboard)
}
