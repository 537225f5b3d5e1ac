package control

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ItsNotGoodName/x-tagwm/internal/build"
	"github.com/ItsNotGoodName/x-tagwm/internal/bus"
	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/layout"
	"github.com/ItsNotGoodName/x-tagwm/internal/loop"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	geometry geom.Rect
	closed   bool
}

func (f *fakeSurface) Geometry() geom.Rect { return f.geometry }

func (f *fakeSurface) Configure(rect geom.Rect) error {
	f.geometry = rect
	return nil
}

func (f *fakeSurface) Raise() error { return nil }
func (f *fakeSurface) Close() error { f.closed = true; return nil }
func (f *fakeSurface) Title() string { return "term" }
func (f *fakeSurface) Class() string { return "xterm" }
func (f *fakeSurface) Alive() bool { return !f.closed }

type fakeKeyboard struct{}

func (fakeKeyboard) SetFocus(*window.Window, uint32) error { return nil }

type fakeSeat struct{}

func (fakeSeat) Keyboard() (wm.Keyboard, bool) { return fakeKeyboard{}, true }
func (fakeSeat) PointerLocation() geom.Point { return geom.Point{} }

// directCaller runs work on the test goroutine.
type directCaller struct {
	loop *loop.Loop
	err  error
}

func (c directCaller) Call(ctx context.Context, fn func() error) error {
	if c.err != nil {
		return c.err
	}
	err := fn()
	c.loop.Dispatch()
	return err
}

type harness struct {
	api      humatest.TestAPI
	state    *wm.State
	surfaces []*fakeSurface
	quit     int
}

func newHarness(t *testing.T, caller func(l *loop.Loop) Caller) *harness {
	t.Helper()

	l := loop.New()
	state := wm.New(l, fakeSeat{}, layout.NewRegistry(0.5), []wm.TagTemplate{
		{Name: "1", Layout: layout.MasterStack, Active: true},
		{Name: "2", Layout: layout.Columns},
	})
	state.ConnectOutput("screen-0", geom.NewRect(0, 0, 1000, 600))

	h := &harness{state: state}
	for range 2 {
		surface := &fakeSurface{geometry: geom.NewRect(0, 0, 100, 100)}
		state.MapWindow(state.NewWindow(window.KindX11, surface), geom.Point{X: 450, Y: 250}, window.Hints{})
		h.surfaces = append(h.surfaces, surface)
	}
	l.Dispatch()

	h.api = humatest.Wrap(t, NewAPI(chi.NewMux()))
	New(caller(l), state, bus.NewHub[wm.Event](8), func() { h.quit++ }).Register(h.api)
	return h
}

func newDirectHarness(t *testing.T) *harness {
	return newHarness(t, func(l *loop.Loop) Caller { return directCaller{loop: l} })
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestListWindows(t *testing.T) {
	h := newDirectHarness(t)

	resp := h.api.Get("/api/windows")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	windows := decode[[]wm.Props](t, resp.Body.Bytes())
	require.Len(t, windows, 2)
	assert.Equal(t, window.ID(1), windows[0].ID)
	assert.Equal(t, "x11", windows[0].Kind)
	assert.Equal(t, "xterm", windows[0].Class)
	assert.Equal(t, "screen-0", windows[0].Output)
	assert.Equal(t, geom.NewRect(0, 0, 500, 600), windows[0].Geometry)
}

func TestGetWindow(t *testing.T) {
	h := newDirectHarness(t)

	resp := h.api.Get("/api/windows/focused")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	focused := decode[wm.Props](t, resp.Body.Bytes())
	assert.Equal(t, window.ID(2), focused.ID)
	assert.True(t, focused.Focused)

	resp = h.api.Get("/api/windows/1")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, decode[wm.Props](t, resp.Body.Bytes()).Focused)

	resp = h.api.Get("/api/windows/99")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestWindowActions(t *testing.T) {
	h := newDirectHarness(t)

	resp := h.api.Put("/api/windows/1/fullscreen", map[string]any{"action": "toggle"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, "fullscreen", decode[wm.Props](t, resp.Body.Bytes()).Mode)

	resp = h.api.Put("/api/windows/1/maximized", map[string]any{"action": "set"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "maximized", decode[wm.Props](t, resp.Body.Bytes()).Mode)

	resp = h.api.Put("/api/windows/1/maximized", map[string]any{"action": "unset"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "none", decode[wm.Props](t, resp.Body.Bytes()).Mode)

	resp = h.api.Put("/api/windows/2/floating", map[string]any{"action": "set"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decode[wm.Props](t, resp.Body.Bytes()).Floating)

	resp = h.api.Put("/api/windows/2/floating", map[string]any{"action": "sideways"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = h.api.Post("/api/windows/1/focus")
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, window.ID(1), h.state.FocusedWindow().ID)

	resp = h.api.Post("/api/windows/1/close")
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.True(t, h.surfaces[0].closed)
}

func TestBeginGrabUnderPointer(t *testing.T) {
	h := newDirectHarness(t)

	resp := h.api.Post("/api/windows/begin-resize", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	res := decode[Grab](t, resp.Body.Bytes())
	assert.Equal(t, window.ID(1), res.Window.ID)
	assert.False(t, res.Grabbing)

	resp = h.api.Post("/api/windows/begin-move", map[string]any{"button": 3})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	res = decode[Grab](t, resp.Body.Bytes())
	assert.Equal(t, window.ID(1), res.Window.ID)
	assert.True(t, res.Grabbing)

	g, ok := h.state.Grabbing()
	require.True(t, ok)
	assert.EqualValues(t, 3, g.Button)

	resp = h.api.Post("/api/windows/begin-move", map[string]any{"button": 9})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestWindowTags(t *testing.T) {
	h := newDirectHarness(t)

	resp := h.api.Put("/api/windows/1/tags", map[string]any{"tags": []int{2}})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	props := decode[wm.Props](t, resp.Body.Bytes())
	assert.Len(t, props.Tags, 1)
	assert.EqualValues(t, 2, props.Tags[0])

	resp = h.api.Put("/api/windows/1/tags/1", map[string]any{"action": "toggle"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[wm.Props](t, resp.Body.Bytes()).Tags, 2)

	resp = h.api.Put("/api/windows/1/tags/9", map[string]any{"action": "set"})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = h.api.Put("/api/windows/1/tags", map[string]any{"tags": []int{1, 9}})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestTags(t *testing.T) {
	h := newDirectHarness(t)

	resp := h.api.Get("/api/tags")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]Tag](t, resp.Body.Bytes()), 2)

	resp = h.api.Get("/api/tags?name=2")
	require.Equal(t, http.StatusOK, resp.Code)
	tags := decode[[]Tag](t, resp.Body.Bytes())
	require.Len(t, tags, 1)
	assert.Equal(t, Tag{ID: 2, Name: "2", Layout: layout.Columns, Output: "screen-0"}, tags[0])

	resp = h.api.Get("/api/tags?output=nope")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = h.api.Post("/api/tags/2/switch")
	require.Equal(t, http.StatusOK, resp.Code)
	tags = decode[[]Tag](t, resp.Body.Bytes())
	require.Len(t, tags, 2)
	assert.False(t, tags[0].Active)
	assert.True(t, tags[1].Active)

	resp = h.api.Put("/api/tags/1/active", map[string]any{"action": "set"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, decode[Tag](t, resp.Body.Bytes()).Active)

	resp = h.api.Put("/api/tags/1/layout", map[string]any{"layout": layout.Monocle})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, layout.Monocle, decode[Tag](t, resp.Body.Bytes()).Layout)

	resp = h.api.Put("/api/tags/1/layout", map[string]any{"layout": "spiral"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = h.api.Delete("/api/tags/2")
	require.Equal(t, http.StatusNoContent, resp.Code)
	resp = h.api.Delete("/api/tags/2")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestOutputs(t *testing.T) {
	h := newDirectHarness(t)

	resp := h.api.Get("/api/outputs")
	require.Equal(t, http.StatusOK, resp.Code)
	outputs := decode[[]Output](t, resp.Body.Bytes())
	require.Len(t, outputs, 1)
	assert.Equal(t, "screen-0", outputs[0].Name)
	assert.True(t, outputs[0].Focused)
	assert.Len(t, outputs[0].Tags, 2)
	assert.Len(t, outputs[0].Windows, 2)

	resp = h.api.Post("/api/outputs/screen-0/tags", map[string]any{"names": []string{"web", "chat"}})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	tags := decode[[]Tag](t, resp.Body.Bytes())
	require.Len(t, tags, 2)
	assert.Equal(t, "web", tags[0].Name)

	resp = h.api.Post("/api/outputs/nope/focus")
	assert.Equal(t, http.StatusNotFound, resp.Code)
	resp = h.api.Post("/api/outputs/screen-0/focus")
	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestLayoutsAndBarriers(t *testing.T) {
	h := newDirectHarness(t)

	resp := h.api.Get("/api/layouts")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), layout.MasterStack)

	resp = h.api.Get("/api/debug/barriers")
	require.Equal(t, http.StatusOK, resp.Code)
	barriers := decode[Barriers](t, resp.Body.Bytes())
	require.Len(t, barriers.Episodes, 1)
	assert.Equal(t, window.ID(2), barriers.Episodes[0].Gated)
	assert.Equal(t, []window.ID{1}, barriers.Episodes[0].Siblings)
	assert.Equal(t, "awaiting-release", barriers.Episodes[0].State)
}

func TestQuit(t *testing.T) {
	h := newDirectHarness(t)

	resp := h.api.Get("/api/build")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "dev", decode[build.Build](t, resp.Body.Bytes()).Version)

	resp = h.api.Post("/api/quit")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Equal(t, 1, h.quit)
}

func TestClosedLoop(t *testing.T) {
	h := newHarness(t, func(l *loop.Loop) Caller { return directCaller{loop: l, err: loop.ErrClosed} })

	resp := h.api.Get("/api/windows")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
