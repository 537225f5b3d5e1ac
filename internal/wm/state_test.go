package wm

import (
	"testing"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/layout"
	"github.com/ItsNotGoodName/x-tagwm/internal/loop"
	"github.com/ItsNotGoodName/x-tagwm/internal/output"
	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	geometry     geom.Rect
	configured   int
	raised       int
	closed       bool
	configureErr error
}

func (f *fakeSurface) Geometry() geom.Rect { return f.geometry }

func (f *fakeSurface) Configure(rect geom.Rect) error {
	if f.configureErr != nil {
		return f.configureErr
	}
	f.geometry = rect
	f.configured++
	return nil
}

func (f *fakeSurface) Raise() error { f.raised++; return nil }
func (f *fakeSurface) Close() error { f.closed = true; return nil }
func (f *fakeSurface) Title() string { return "title" }
func (f *fakeSurface) Class() string { return "class" }
func (f *fakeSurface) Alive() bool { return !f.closed }

type fakeKeyboard struct {
	focus   *window.Window
	serials []uint32
}

func (k *fakeKeyboard) SetFocus(w *window.Window, serial uint32) error {
	k.focus = w
	k.serials = append(k.serials, serial)
	return nil
}

type fakeSeat struct {
	keyboard *fakeKeyboard
	pointer  geom.Point
}

func (s *fakeSeat) Keyboard() (Keyboard, bool) {
	if s.keyboard == nil {
		return nil, false
	}
	return s.keyboard, true
}

func (s *fakeSeat) PointerLocation() geom.Point { return s.pointer }

var outputGeometry = geom.NewRect(0, 0, 1000, 600)

type harness struct {
	*State
	loop *loop.Loop
	seat *fakeSeat
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	l := loop.New()
	seat := &fakeSeat{keyboard: &fakeKeyboard{}}
	s := New(l, seat, layout.NewRegistry(0.5), []TagTemplate{
		{Name: "1", Layout: layout.MasterStack, Active: true},
		{Name: "2", Layout: layout.MasterStack},
	})
	return &harness{State: s, loop: l, seat: seat}
}

func (h *harness) connect(t *testing.T) *output.Output {
	t.Helper()
	return h.ConnectOutput("screen-0", outputGeometry)
}

func (h *harness) mapWindow(hints window.Hints) (*window.Window, *fakeSurface) {
	surface := &fakeSurface{geometry: geom.NewRect(0, 0, 100, 100)}
	w := h.NewWindow(window.KindNative, surface)
	h.MapWindow(w, geom.Point{X: 450, Y: 250}, hints)
	return w, surface
}

func (h *harness) tag(t *testing.T, name string) *tag.Tag {
	t.Helper()
	tg, err := h.FindTag(name, "")
	require.NoError(t, err)
	return tg
}
