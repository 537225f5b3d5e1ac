package wm

import (
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/grab"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
)

// PointerGrabber routes all pointer events to the window manager while a grab runs.
type PointerGrabber interface {
	GrabPointer(g grab.Grab) error
}

// SetPointerGrabber sets who takes the pointer when a grab starts, nil for nobody.
func (s *State) SetPointerGrabber(pg PointerGrabber) {
	s.pointerGrabber = pg
}

func (s *State) BeginMove(w *window.Window, button uint32) {
	s.beginGrab(w, func(pointer geom.Point, rect geom.Rect) grab.Grab {
		return grab.Move(button, pointer, rect)
	})
}

func (s *State) BeginResize(w *window.Window, button uint32, edges grab.Edges) {
	if !w.Floating.IsFloating() {
		slog.Debug("Ignoring resize of tiled window", "package", "wm", "window", w.ID)
		return
	}
	s.beginGrab(w, func(pointer geom.Point, rect geom.Rect) grab.Grab {
		return grab.Resize(button, edges, pointer, rect)
	})
}

func (s *State) beginGrab(w *window.Window, fn func(pointer geom.Point, rect geom.Rect) grab.Grab) {
	if !s.tracked(w) || !w.Mapped || w.Mode != window.ModeNone {
		return
	}

	rect, ok := s.Space.ElementBBox(w)
	if !ok {
		return
	}

	g := fn(s.seat.PointerLocation(), rect)
	if s.pointerGrabber != nil {
		if err := s.pointerGrabber.GrabPointer(g); err != nil {
			slog.Error("Failed to grab pointer", "package", "wm", "window", w.ID, "error", err)
			return
		}
	}

	s.grab = &g
	s.grabWindow = w
	if w.Floating.IsFloating() {
		s.raise(w)
	}
}

// BeginMoveUnderPointer starts a move of the top-most window under the pointer.
func (s *State) BeginMoveUnderPointer(button uint32) (*window.Window, error) {
	w, err := s.windowUnderPointer()
	if err != nil {
		return nil, err
	}
	s.BeginMove(w, button)
	return w, nil
}

// BeginResizeUnderPointer starts a resize of the top-most window under the pointer from the corner nearest to it.
func (s *State) BeginResizeUnderPointer(button uint32) (*window.Window, error) {
	w, err := s.windowUnderPointer()
	if err != nil {
		return nil, err
	}
	rect, _ := s.Space.ElementBBox(w)
	s.BeginResize(w, button, grab.EdgesAt(s.seat.PointerLocation(), rect))
	return w, nil
}

func (s *State) windowUnderPointer() (*window.Window, error) {
	p := s.seat.PointerLocation()
	w, ok := s.Space.ElementUnder(p)
	if !ok || !s.tracked(w) {
		return nil, fmt.Errorf("%w: nothing under pointer at %d,%d", ErrWindowNotFound, p.X, p.Y)
	}
	return w, nil
}

// Grabbing reports whether an interactive grab is in progress.
func (s *State) Grabbing() (grab.Grab, bool) {
	if s.grab == nil {
		return grab.Grab{}, false
	}
	return *s.grab, true
}

// PointerMotion updates a floating window under an active grab.
func (s *State) PointerMotion(p geom.Point) {
	if s.grab == nil || !s.grabWindow.Floating.IsFloating() {
		return
	}

	w := s.grabWindow
	rect := s.grab.Update(p)
	if rect != w.Surface.Geometry() {
		if err := w.Surface.Configure(rect); err != nil {
			slog.Error("Failed to configure grabbed window", "package", "wm", "window", w.ID, "error", err)
			return
		}
	}
	w.Floating = window.FloatingAt(rect.Loc)
	s.Space.MapElement(w, rect.Loc, false)
}

// PointerRelease ends the grab started with button. A tiled window dropped on
// another tiled window swaps places with it.
func (s *State) PointerRelease(button uint32, p geom.Point) {
	if s.grab == nil || s.grab.Button != button {
		return
	}

	w, g := s.grabWindow, *s.grab
	s.endGrab()

	if g.Mode != grab.ModeMove || !w.Tileable() {
		return
	}

	target, ok := s.Space.ElementUnder(p)
	if !ok || target == w || !target.Tileable() {
		return
	}

	i, j := -1, -1
	for k, x := range s.windows {
		switch x {
		case w:
			i = k
		case target:
			j = k
		}
	}
	if i < 0 || j < 0 {
		return
	}

	s.windows[i], s.windows[j] = s.windows[j], s.windows[i]
	slog.Debug("Swapped windows", "package", "wm", "window", w.ID, "target", target.ID)
	s.relayoutWindow(w)
	if o, t := s.WindowOutput(w), s.WindowOutput(target); t != nil && t != o {
		s.Relayout(t)
	}
}

// CancelGrab ends the grab without applying a drop.
func (s *State) CancelGrab() {
	s.endGrab()
}

func (s *State) endGrab() {
	s.grab = nil
	s.grabWindow = nil
}
