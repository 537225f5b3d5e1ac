package wm

import (
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/layout"
	"github.com/ItsNotGoodName/x-tagwm/internal/output"
	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
)

// Layout computes target geometry for the mapped tiled windows whose tags intersect active.
// The first active tag picks the arrangement. It does not modify any state.
func (s *State) Layout(windows []*window.Window, active []tag.ID, o *output.Output) map[window.ID]geom.Rect {
	geometries := make(map[window.ID]geom.Rect)
	if len(active) == 0 {
		return geometries
	}

	var tiled []*window.Window
	for _, w := range windows {
		if w.Mapped && w.Tileable() && tag.Intersects(w.Tags, active) {
			tiled = append(tiled, w)
		}
	}
	if len(tiled) == 0 {
		return geometries
	}

	rects := s.arrangement(active[0]).Arrange(len(tiled), o.Geometry)
	for i, rect := range rects {
		if i >= len(tiled) {
			break
		}
		geometries[tiled[i].ID] = rect
	}
	return geometries
}

func (s *State) arrangement(id tag.ID) layout.Layout {
	name := layout.MasterStack
	if t, ok := s.Tags.Get(id); ok && t.Layout != "" {
		name = t.Layout
	}

	l, err := s.Layouts.Get(name)
	if err != nil {
		l, _ = s.Layouts.Get(layout.MasterStack)
	}
	return l
}

// Relayout applies the layout of o to the windows it owns: hidden windows leave the space,
// visible windows are configured and placed.
func (s *State) Relayout(o *output.Output) {
	s.syncOutputs()

	// Windows whose tags span several outputs belong to the first one only.
	var owned []*window.Window
	for _, w := range s.windows {
		if s.WindowOutput(w) == o {
			owned = append(owned, w)
		}
	}

	active := o.FocusedTagIDs()
	geometries := s.Layout(owned, active, o)

	var fullscreen []*window.Window
	for _, w := range owned {
		// Dead surfaces wait for their destroy.
		if !w.Mapped || !w.Surface.Alive() {
			continue
		}
		if !tag.Intersects(w.Tags, active) {
			s.hide(w)
			continue
		}

		current := w.Surface.Geometry()
		rect := current
		switch {
		case w.Mode != window.ModeNone:
			rect = o.Geometry
			if w.Mode == window.ModeFullscreen {
				fullscreen = append(fullscreen, w)
			}
		case w.Floating.IsFloating():
			rect.Loc, _ = w.Floating.Loc()
		default:
			if g, ok := geometries[w.ID]; ok {
				rect = g
			} else if loc, ok := s.Space.ElementLocation(w); ok {
				rect.Loc = loc
			}
		}

		if rect != current {
			if err := w.Surface.Configure(rect); err != nil {
				slog.Error("Failed to configure window", "package", "wm", "window", w.ID, "geometry", rect.String(), "error", err)
				continue
			}
		}
		s.Space.MapElement(w, rect.Loc, false)
	}

	for _, w := range fullscreen {
		s.Space.RaiseElement(w)
	}
}

func (s *State) hide(w *window.Window) {
	if !s.Space.UnmapElement(w) {
		return
	}
	if h, ok := w.Surface.(window.Hider); ok && w.Surface.Alive() {
		if err := h.Hide(); err != nil {
			slog.Error("Failed to hide window", "package", "wm", "window", w.ID, "error", err)
		}
	}
}

// relayoutTags re-lays out every output holding one of ids.
func (s *State) relayoutTags(ids ...tag.ID) {
	for _, o := range s.outputs {
		if tag.Intersects(o.TagIDs(), ids) {
			s.Relayout(o)
		}
	}
}

// syncOutputs refreshes the cached window list of every output.
func (s *State) syncOutputs() {
	for _, o := range s.outputs {
		var ids []window.ID
		for _, w := range s.windows {
			if s.WindowOutput(w) == o {
				ids = append(ids, w.ID)
			}
		}
		o.SetWindows(ids)
	}
}

// WindowOutput is the first output whose tags intersect the window's tags, or nil.
func (s *State) WindowOutput(w *window.Window) *output.Output {
	if len(w.Tags) == 0 {
		return nil
	}
	i := slices.IndexFunc(s.outputs, func(o *output.Output) bool { return tag.Intersects(w.Tags, o.TagIDs()) })
	if i < 0 {
		return nil
	}
	return s.outputs[i]
}
