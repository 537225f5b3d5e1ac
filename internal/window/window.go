// Package window holds per-window state shared by native and X11 clients.
package window

import (
	"slices"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/tag"
)

type ID uint32

type Kind int

const (
	KindNative Kind = iota
	KindX11
)

func (k Kind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindX11:
		return "x11"
	default:
		return "unknown"
	}
}

// Surface is what the window manager needs from a client surface regardless of its protocol.
type Surface interface {
	Geometry() geom.Rect
	Configure(rect geom.Rect) error
	Raise() error
	Close() error
	Title() string
	Class() string
	Alive() bool
}

// Hider is implemented by surfaces that stay on the display until moved out of view.
type Hider interface {
	Hide() error
}

// XwmID identifies one X11 window manager connection.
type XwmID string

type X11Surface interface {
	Surface
	SetMapped(mapped bool) error
	OverrideRedirect() bool
	XwmID() XwmID
	Hints() Hints
}

// Floating is either tiled or floating at a remembered location.
type Floating struct {
	floating bool
	loc      geom.Point
}

func Tiled() Floating {
	return Floating{}
}

func FloatingAt(loc geom.Point) Floating {
	return Floating{floating: true, loc: loc}
}

func (f Floating) IsFloating() bool {
	return f.floating
}

func (f Floating) Loc() (geom.Point, bool) {
	return f.loc, f.floating
}

type Mode int

const (
	ModeNone Mode = iota
	ModeFullscreen
	ModeMaximized
)

func (m Mode) String() string {
	switch m {
	case ModeFullscreen:
		return "fullscreen"
	case ModeMaximized:
		return "maximized"
	default:
		return "none"
	}
}

type Window struct {
	ID       ID
	Kind     Kind
	Surface  Surface
	Tags     []tag.ID
	Floating Floating
	Mode     Mode
	// Mapped is false while the client has the window hidden.
	Mapped bool
}

func New(id ID, kind Kind, surface Surface) *Window {
	return &Window{
		ID:       id,
		Kind:     kind,
		Surface:  surface,
		Floating: Tiled(),
	}
}

func (w *Window) X11() (X11Surface, bool) {
	if w.Kind != KindX11 {
		return nil, false
	}
	s, ok := w.Surface.(X11Surface)
	return s, ok
}

func (w *Window) HasTag(id tag.ID) bool {
	return slices.Contains(w.Tags, id)
}

func (w *Window) AddTag(id tag.ID) bool {
	if w.HasTag(id) {
		return false
	}
	w.Tags = append(w.Tags, id)
	return true
}

func (w *Window) RemoveTag(id tag.ID) bool {
	i := slices.Index(w.Tags, id)
	if i < 0 {
		return false
	}
	w.Tags = slices.Delete(w.Tags, i, i+1)
	return true
}

// SetTags replaces the tag set, dropping duplicates while keeping first-seen order.
func (w *Window) SetTags(ids []tag.ID) {
	tags := make([]tag.ID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(tags, id) {
			tags = append(tags, id)
		}
	}
	w.Tags = tags
}

// Tileable reports whether the layout engine positions this window.
func (w *Window) Tileable() bool {
	return !w.Floating.IsFloating() && w.Mode == ModeNone
}
