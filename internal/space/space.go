// Package space tracks where windows are placed and how they are stacked.
package space

import (
	"slices"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
)

type element struct {
	window *window.Window
	loc    geom.Point
}

// Space is ordered bottom to top.
type Space struct {
	elements []element
}

func New() *Space {
	return &Space{}
}

func (s *Space) index(w *window.Window) int {
	return slices.IndexFunc(s.elements, func(e element) bool { return e.window == w })
}

// MapElement places w at loc. New elements go on top, existing ones keep their
// stacking position unless raise is set.
func (s *Space) MapElement(w *window.Window, loc geom.Point, raise bool) {
	i := s.index(w)
	if i < 0 {
		s.elements = append(s.elements, element{window: w, loc: loc})
		return
	}

	s.elements[i].loc = loc
	if raise {
		s.RaiseElement(w)
	}
}

func (s *Space) UnmapElement(w *window.Window) bool {
	i := s.index(w)
	if i < 0 {
		return false
	}
	s.elements = slices.Delete(s.elements, i, i+1)
	return true
}

func (s *Space) RaiseElement(w *window.Window) bool {
	i := s.index(w)
	if i < 0 {
		return false
	}
	e := s.elements[i]
	s.elements = append(slices.Delete(s.elements, i, i+1), e)
	return true
}

func (s *Space) IsMapped(w *window.Window) bool {
	return s.index(w) >= 0
}

func (s *Space) ElementLocation(w *window.Window) (geom.Point, bool) {
	i := s.index(w)
	if i < 0 {
		return geom.Point{}, false
	}
	return s.elements[i].loc, true
}

// ElementBBox is the element location combined with the surface size.
func (s *Space) ElementBBox(w *window.Window) (geom.Rect, bool) {
	loc, ok := s.ElementLocation(w)
	if !ok {
		return geom.Rect{}, false
	}

	var size geom.Size
	if w.Surface != nil {
		size = w.Surface.Geometry().Size
	}
	return geom.Rect{Loc: loc, Size: size}, true
}

// ElementUnder returns the top-most element containing p.
func (s *Space) ElementUnder(p geom.Point) (*window.Window, bool) {
	for i := len(s.elements) - 1; i >= 0; i-- {
		w := s.elements[i].window
		if bbox, _ := s.ElementBBox(w); bbox.Contains(p) {
			return w, true
		}
	}
	return nil, false
}

// Elements returns the mapped windows from bottom to top.
func (s *Space) Elements() []*window.Window {
	windows := make([]*window.Window, 0, len(s.elements))
	for _, e := range s.elements {
		windows = append(windows, e.window)
	}
	return windows
}
