// Package xwm connects X11 clients to the window manager state.
package xwm

import (
	"io"
	"log/slog"
	"slices"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/grab"
	"github.com/ItsNotGoodName/x-tagwm/internal/selection"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
)

type Grabber interface {
	BeginMove(w *window.Window, button uint32)
	BeginResize(w *window.Window, button uint32, edges grab.Edges)
}

// Bridge translates window manager requests from an X11 connection into state changes.
// It must be used from the loop goroutine.
type Bridge struct {
	state     *wm.State
	grabber   Grabber
	clipboard selection.Device
	primary   selection.Device

	// override-redirect windows live in the space only
	overrides []*window.Window
}

func NewBridge(state *wm.State, grabber Grabber, clipboard, primary selection.Device) *Bridge {
	return &Bridge{
		state:     state,
		grabber:   grabber,
		clipboard: clipboard,
		primary:   primary,
	}
}

// MapRequest centers a managed window on the focused output and starts managing it.
func (b *Bridge) MapRequest(surface window.X11Surface) {
	if surface.OverrideRedirect() {
		slog.Warn("Override redirect window in map request", "package", "xwm", "class", surface.Class())
		b.mapOverride(surface)
		return
	}

	w, ok := b.state.WindowBySurface(surface)
	if !ok {
		w = b.state.NewWindow(window.KindX11, surface)
	}

	area := geom.NewRect(0, 0, 2, 2)
	if o := b.state.FocusedOutput(); o != nil {
		area = o.Geometry
	}
	size := surface.Geometry().Size
	rect := geom.Rect{Loc: area.Center(size), Size: size}

	if err := surface.SetMapped(true); err != nil {
		slog.Error("Failed to map window", "package", "xwm", "window", w.ID, "error", err)
		return
	}
	if err := surface.Configure(rect); err != nil {
		slog.Error("Failed to configure window", "package", "xwm", "window", w.ID, "geometry", rect.String(), "error", err)
		return
	}

	b.state.MapWindow(w, rect.Loc, surface.Hints())
}

func (b *Bridge) MappedOverrideRedirect(surface window.X11Surface) {
	b.mapOverride(surface)
}

func (b *Bridge) mapOverride(surface window.X11Surface) {
	w, ok := b.override(surface)
	if !ok {
		w = b.state.NewWindow(window.KindX11, surface)
		w.Mapped = true
		b.overrides = append(b.overrides, w)
	}

	b.state.Space.MapElement(w, surface.Geometry().Loc, true)
}

func (b *Bridge) override(surface window.X11Surface) (*window.Window, bool) {
	i := slices.IndexFunc(b.overrides, func(w *window.Window) bool { return w.Surface == window.Surface(surface) })
	if i < 0 {
		return nil, false
	}
	return b.overrides[i], true
}

// Unmapped leaves managed windows tracked so a later map request restores their tags.
func (b *Bridge) Unmapped(surface window.X11Surface) {
	if w, ok := b.override(surface); ok {
		b.state.Space.UnmapElement(w)
		return
	}

	w, ok := b.state.WindowBySurface(surface)
	if !ok {
		return
	}
	b.state.UnmapWindow(w)

	if !surface.OverrideRedirect() {
		if err := surface.SetMapped(false); err != nil {
			slog.Error("Failed to unmap window", "package", "xwm", "window", w.ID, "error", err)
		}
	}
}

func (b *Bridge) Destroyed(surface window.X11Surface) {
	if w, ok := b.override(surface); ok {
		b.state.Space.UnmapElement(w)
		b.overrides = slices.DeleteFunc(b.overrides, func(x *window.Window) bool { return x == w })
		return
	}

	if w, ok := b.state.WindowBySurface(surface); ok {
		b.state.DestroyWindow(w)
	}
}

// ConfigureRequest honors the requested size only. A nil dimension is left as is.
func (b *Bridge) ConfigureRequest(surface window.X11Surface, width, height *int32) {
	rect := surface.Geometry()
	if width != nil {
		rect.Size.W = *width
	}
	if height != nil {
		rect.Size.H = *height
	}

	if err := surface.Configure(rect); err != nil {
		slog.Error("Failed to configure window", "package", "xwm", "geometry", rect.String(), "error", err)
	}
}

// ConfigureNotify moves the space element to where the server placed the window.
func (b *Bridge) ConfigureNotify(surface window.X11Surface, rect geom.Rect) {
	for _, w := range b.state.Space.Elements() {
		if w.Surface == window.Surface(surface) {
			b.state.Space.MapElement(w, rect.Loc, false)
			return
		}
	}
}

func (b *Bridge) MoveRequest(surface window.X11Surface, button uint32) {
	if w, ok := b.state.WindowBySurface(surface); ok {
		b.grabber.BeginMove(w, button)
	}
}

func (b *Bridge) ResizeRequest(surface window.X11Surface, button uint32, edges grab.Edges) {
	if w, ok := b.state.WindowBySurface(surface); ok {
		b.grabber.BeginResize(w, button, edges)
	}
}

// AllowSelectionAccess permits a connection to read selections while one of its windows has keyboard focus.
func (b *Bridge) AllowSelectionAccess(xwm window.XwmID, _ selection.Type) bool {
	w := b.state.FocusedWindow()
	if w == nil {
		return false
	}
	surface, ok := w.Surface.(window.X11Surface)
	return ok && surface.XwmID() == xwm
}

func (b *Bridge) device(typ selection.Type) selection.Device {
	if typ == selection.Primary {
		return b.primary
	}
	return b.clipboard
}

func (b *Bridge) SendSelection(typ selection.Type, mimeType string, w io.Writer) {
	if err := b.device(typ).SendSelection(mimeType, w); err != nil {
		slog.Error("Failed to send selection", "package", "xwm", "type", typ, "mime_type", mimeType, "error", err)
	}
}

func (b *Bridge) NewSelection(xwm window.XwmID, typ selection.Type, mimeTypes []string) {
	b.device(typ).SetSelection(string(xwm), mimeTypes)
}

func (b *Bridge) ClearedSelection(typ selection.Type) {
	device := b.device(typ)
	if _, ok := device.Current(); ok {
		device.ClearSelection()
	}
}

// Committed records a new frame from a managed window.
func (b *Bridge) Committed(surface window.X11Surface) {
	if w, ok := b.state.WindowBySurface(surface); ok {
		b.state.Commit(w)
	}
}
