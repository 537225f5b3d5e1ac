package wm

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
)

func (s *State) NewWindow(kind window.Kind, surface window.Surface) *window.Window {
	w := window.New(s.nextID, kind, surface)
	s.nextID++
	return w
}

func (s *State) Windows() []*window.Window {
	return slices.Clone(s.windows)
}

func (s *State) Window(id window.ID) (*window.Window, error) {
	for _, w := range s.windows {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrWindowNotFound, id)
}

func (s *State) WindowBySurface(surface window.Surface) (*window.Window, bool) {
	for _, w := range s.windows {
		if w.Surface == surface {
			return w, true
		}
	}
	return nil, false
}

func (s *State) tracked(w *window.Window) bool {
	return slices.Contains(s.windows, w)
}

// siblings are the other windows on screen carrying one of tags.
func (s *State) siblings(w *window.Window, tags []tag.ID) []window.ID {
	var ids []window.ID
	for _, other := range s.windows {
		if other != w && other.Mapped && s.Space.IsMapped(other) && tag.Intersects(other.Tags, tags) {
			ids = append(ids, other.ID)
		}
	}
	return ids
}

// MapWindow starts managing w, placed at loc until a layout says otherwise.
// Siblings on the focused output hold their next frames until w commits and
// w is raised once they have all drawn again.
func (s *State) MapWindow(w *window.Window, loc geom.Point, hints window.Hints) {
	if s.tracked(w) {
		s.remapWindow(w, loc)
		return
	}

	s.AssignInitialTags(w)
	if window.ShouldFloat(hints) {
		w.Floating = window.FloatingAt(loc)
	}

	out := s.focusedOutput
	var siblings []window.ID
	if out != nil {
		siblings = s.siblings(w, out.TagIDs())
	}

	w.Mapped = true
	s.windows = append(s.windows, w)
	s.Space.MapElement(w, loc, true)

	slog.Debug("Mapped window", "package", "wm", "window", w.ID, "kind", w.Kind, "tags", w.Tags, "floating", w.Floating.IsFloating(), "siblings", siblings)
	publishWindow("mapped", w)

	if o := s.WindowOutput(w); o != nil {
		s.Relayout(o)
	} else {
		s.hide(w)
		s.syncOutputs()
	}

	if out != nil && len(w.Tags) > 0 {
		if len(siblings) == 0 {
			s.raise(w)
		} else {
			s.Barriers.Begin(w.ID, siblings, func() {
				if s.tracked(w) {
					s.raise(w)
				}
			})
		}
	}

	s.idle.InsertIdle(func() {
		if s.tracked(w) && w.Mapped {
			s.setKeyboardFocus(w)
		}
	})
}

func (s *State) remapWindow(w *window.Window, loc geom.Point) {
	w.Mapped = true
	s.Space.MapElement(w, loc, true)
	publishWindow("mapped", w)

	if o := s.WindowOutput(w); o != nil {
		s.Relayout(o)
	}
	s.raise(w)
	s.idle.InsertIdle(func() {
		if s.tracked(w) && w.Mapped {
			s.setKeyboardFocus(w)
		}
	})
}

// UnmapWindow hides w but keeps tracking it.
func (s *State) UnmapWindow(w *window.Window) {
	s.Space.UnmapElement(w)
	if !s.tracked(w) || !w.Mapped {
		return
	}

	w.Mapped = false
	if s.focused == w {
		s.focused = nil
	}
	publishWindow("unmapped", w)

	if o := s.WindowOutput(w); o != nil && w.Tileable() {
		s.Relayout(o)
	}
}

// DestroyWindow stops tracking w and releases anything waiting on it.
func (s *State) DestroyWindow(w *window.Window) {
	s.Space.UnmapElement(w)
	if s.grabWindow == w {
		s.endGrab()
	}

	i := slices.Index(s.windows, w)
	if i < 0 {
		s.Barriers.Forget(w.ID)
		return
	}

	o := s.WindowOutput(w)
	tiled := w.Tileable()

	s.windows = slices.Delete(s.windows, i, i+1)
	if s.focused == w {
		s.focused = nil
	}
	s.Barriers.Forget(w.ID)
	s.syncOutputs()

	slog.Debug("Destroyed window", "package", "wm", "window", w.ID)
	publishWindow("destroyed", w)

	if o != nil && tiled {
		s.Relayout(o)
	}
}

// Commit records a new frame from w.
func (s *State) Commit(w *window.Window) {
	s.Barriers.Commit(w.ID)
}

func (s *State) raise(w *window.Window) {
	s.Space.RaiseElement(w)
	if err := w.Surface.Raise(); err != nil {
		slog.Error("Failed to raise window", "package", "wm", "window", w.ID, "error", err)
	}
}

func (s *State) setKeyboardFocus(w *window.Window) {
	kb, ok := s.seat.Keyboard()
	if !ok {
		slog.Error("Seat has no keyboard", "package", "wm", "window", w.ID)
		return
	}
	if err := kb.SetFocus(w, s.nextSerial()); err != nil {
		slog.Error("Failed to focus window", "package", "wm", "window", w.ID, "error", err)
		return
	}
	s.focused = w
	publishWindow("focused", w)
}

// Focus gives w keyboard focus and raises it.
func (s *State) Focus(w *window.Window) {
	s.raise(w)
	s.setKeyboardFocus(w)
}

// FocusedWindow is nil when nothing has keyboard focus.
func (s *State) FocusedWindow() *window.Window {
	return s.focused
}

func (s *State) Close(w *window.Window) error {
	return w.Surface.Close()
}

type Props struct {
	ID       window.ID `json:"id"`
	Kind     string    `json:"kind"`
	Geometry geom.Rect `json:"geometry"`
	Class    string    `json:"class"`
	Title    string    `json:"title"`
	Focused  bool      `json:"focused"`
	Floating bool      `json:"floating"`
	Mode     string    `json:"mode"`
	Mapped   bool      `json:"mapped"`
	Tags     []tag.ID  `json:"tags"`
	Output   string    `json:"output,omitempty"`
}

func (s *State) Props(w *window.Window) Props {
	geometry := w.Surface.Geometry()
	if bbox, ok := s.Space.ElementBBox(w); ok {
		geometry = bbox
	}

	var outputName string
	if o := s.WindowOutput(w); o != nil {
		outputName = o.Name
	}

	return Props{
		ID:       w.ID,
		Kind:     w.Kind.String(),
		Geometry: geometry,
		Class:    w.Surface.Class(),
		Title:    w.Surface.Title(),
		Focused:  s.focused == w,
		Floating: w.Floating.IsFloating(),
		Mode:     w.Mode.String(),
		Mapped:   w.Mapped,
		Tags:     slices.Clone(w.Tags),
		Output:   outputName,
	}
}

// SetFloating switches w between tiled and floating at its current location.
func (s *State) SetFloating(w *window.Window, floating bool) {
	if w.Floating.IsFloating() == floating {
		return
	}

	if floating {
		loc := w.Surface.Geometry().Loc
		if l, ok := s.Space.ElementLocation(w); ok {
			loc = l
		}
		w.Floating = window.FloatingAt(loc)
	} else {
		w.Floating = window.Tiled()
	}

	publishWindow("changed", w)
	s.relayoutWindow(w)
	if floating {
		s.raise(w)
	}
}

func (s *State) ToggleFloating(w *window.Window) {
	s.SetFloating(w, !w.Floating.IsFloating())
}

// SetMode sets fullscreen or maximized, which replace each other.
func (s *State) SetMode(w *window.Window, mode window.Mode) {
	if w.Mode == mode {
		return
	}

	w.Mode = mode
	publishWindow("changed", w)
	s.relayoutWindow(w)
	if mode != window.ModeNone {
		s.raise(w)
	}
}

func (s *State) SetFullscreen(w *window.Window, fullscreen bool) {
	s.setMode(w, window.ModeFullscreen, fullscreen)
}

func (s *State) ToggleFullscreen(w *window.Window) {
	s.SetFullscreen(w, w.Mode != window.ModeFullscreen)
}

func (s *State) SetMaximized(w *window.Window, maximized bool) {
	s.setMode(w, window.ModeMaximized, maximized)
}

func (s *State) ToggleMaximized(w *window.Window) {
	s.SetMaximized(w, w.Mode != window.ModeMaximized)
}

func (s *State) setMode(w *window.Window, mode window.Mode, on bool) {
	switch {
	case on:
		s.SetMode(w, mode)
	case w.Mode == mode:
		s.SetMode(w, window.ModeNone)
	}
}

// MoveToTag replaces every tag of w with id.
func (s *State) MoveToTag(w *window.Window, id tag.ID) error {
	if _, err := s.Tag(id); err != nil {
		return err
	}

	old := slices.Clone(w.Tags)
	w.SetTags([]tag.ID{id})
	publishWindow("changed", w)
	s.relayoutTags(append(old, id)...)
	return nil
}

func (s *State) SetTag(w *window.Window, id tag.ID, set bool) error {
	if _, err := s.Tag(id); err != nil {
		return err
	}

	changed := false
	if set {
		changed = w.AddTag(id)
	} else {
		changed = w.RemoveTag(id)
	}
	if !changed {
		return nil
	}

	publishWindow("changed", w)
	s.relayoutTags(id)
	if len(w.Tags) == 0 {
		s.hide(w)
	}
	return nil
}

func (s *State) ToggleTag(w *window.Window, id tag.ID) error {
	return s.SetTag(w, id, !w.HasTag(id))
}

func (s *State) relayoutWindow(w *window.Window) {
	if o := s.WindowOutput(w); o != nil {
		s.Relayout(o)
	}
}
