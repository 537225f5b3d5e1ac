package xwm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/grab"
	"github.com/ItsNotGoodName/x-tagwm/internal/loop"
	"github.com/ItsNotGoodName/x-tagwm/internal/selection"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
	"github.com/ItsNotGoodName/x-tagwm/internal/xcursor"
	"github.com/google/uuid"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/damage"
	"github.com/jezek/xgb/xfixes"
	"github.com/jezek/xgb/xinerama"
	"github.com/jezek/xgb/xproto"
	"github.com/thejerf/suture/v4"
)

var (
	ErrOtherWM          = errors.New("another window manager is running")
	ErrConnectionClosed = errors.New("x11 connection closed")
)

const (
	outputPrefixXinerama = "xinerama-"
	outputScreen         = "screen-0"
)

// _NET_WM_MOVERESIZE directions.
const (
	moveResizeSizeTopLeft = iota
	moveResizeSizeTop
	moveResizeSizeTopRight
	moveResizeSizeRight
	moveResizeSizeBottomRight
	moveResizeSizeBottom
	moveResizeSizeBottomLeft
	moveResizeSizeLeft
	moveResizeMove
)

var moveResizeEdges = map[uint32]grab.Edges{
	moveResizeSizeTopLeft:     grab.EdgeTopLeft,
	moveResizeSizeTop:         grab.EdgeTop,
	moveResizeSizeTopRight:    grab.EdgeTopRight,
	moveResizeSizeRight:       grab.EdgeRight,
	moveResizeSizeBottomRight: grab.EdgeBottomRight,
	moveResizeSizeBottom:      grab.EdgeBottom,
	moveResizeSizeBottomLeft:  grab.EdgeBottomLeft,
	moveResizeSizeLeft:        grab.EdgeLeft,
}

var edgeCursors = map[grab.Edges]uint16{
	grab.EdgeTopLeft:     xcursor.TopLeftCorner,
	grab.EdgeTop:         xcursor.TopSide,
	grab.EdgeTopRight:    xcursor.TopRightCorner,
	grab.EdgeRight:       xcursor.RightSide,
	grab.EdgeBottomRight: xcursor.BottomRightCorner,
	grab.EdgeBottom:      xcursor.BottomSide,
	grab.EdgeBottomLeft:  xcursor.BottomLeftCorner,
	grab.EdgeLeft:        xcursor.LeftSide,
}

// X11 manages the windows of one X display. Everything except reading events runs on the loop goroutine.
type X11 struct {
	display string
	loop    *loop.Loop
	state   *wm.State
	seat    *Seat
	bridge  *Bridge

	id       window.XwmID
	conn     *xgb.Conn
	root     xproto.Window
	atoms    *atoms
	cursors  *xcursor.Cache
	xinerama bool
	surfaces map[xproto.Window]*Surface
	damages  map[damage.Damage]*Surface
}

func New(display string, l *loop.Loop, state *wm.State, seat *Seat, clipboard, primary selection.Device) *X11 {
	return &X11{
		display: display,
		loop:    l,
		state:   state,
		seat:    seat,
		bridge:  NewBridge(state, state, clipboard, primary),
	}
}

func (*X11) String() string {
	return "xwm.X11"
}

func (x *X11) Serve(ctx context.Context) error {
	conn, err := xgb.NewConnDisplay(x.display)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := x.loop.Call(ctx, func() error { return x.setup(conn) }); err != nil {
		if errors.Is(err, ErrOtherWM) {
			return errors.Join(err, suture.ErrTerminateSupervisorTree)
		}
		return err
	}
	defer x.loop.Post(x.teardown)

	eventC := make(chan xgb.Event)
	go ReceiveEvents(ctx, conn, eventC)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-eventC:
			if !ok {
				return ErrConnectionClosed
			}
			if err := x.loop.Post(func() { x.handle(ev) }); err != nil {
				return err
			}
		}
	}
}

func ReceiveEvents(ctx context.Context, conn *xgb.Conn, eventC chan<- xgb.Event) {
	defer close(eventC)
	slog := slog.With("func", "xwm.ReceiveEvents")

	for {
		ev, err := conn.WaitForEvent()
		if ev == nil && err == nil {
			slog.Debug("exit: no event or error")
			return
		}

		if err != nil {
			// Errors of unchecked requests, the connection is still usable.
			slog.Warn("Request failed", "error", err)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case eventC <- ev:
		}
	}
}

func (x *X11) setup(conn *xgb.Conn) error {
	screen := xproto.Setup(conn).DefaultScreen(conn)

	a, err := internAtoms(conn)
	if err != nil {
		return err
	}

	cursors := xcursor.NewCache(conn)
	cursor, err := cursors.Get(xcursor.LeftPtr)
	if err != nil {
		return err
	}

	if err := xproto.ChangeWindowAttributesChecked(conn, screen.Root,
		xproto.CwEventMask|xproto.CwCursor, // 1, 2
		[]uint32{
			xproto.EventMaskSubstructureRedirect |
				xproto.EventMaskSubstructureNotify |
				xproto.EventMaskStructureNotify, // 1
			uint32(cursor), // 2
		}).Check(); err != nil {
		cursors.Free()
		if _, ok := err.(xproto.AccessError); ok {
			return ErrOtherWM
		}
		return err
	}

	if err := damage.Init(conn); err != nil {
		return fmt.Errorf("damage: %w", err)
	}
	if _, err := damage.QueryVersion(conn, 1, 1).Reply(); err != nil {
		return fmt.Errorf("damage: %w", err)
	}
	if err := xfixes.Init(conn); err != nil {
		return fmt.Errorf("xfixes: %w", err)
	}
	if _, err := xfixes.QueryVersion(conn, 5, 0).Reply(); err != nil {
		return fmt.Errorf("xfixes: %w", err)
	}

	x.id = window.XwmID(uuid.NewString())
	x.conn = conn
	x.root = screen.Root
	x.atoms = a
	x.cursors = cursors
	x.xinerama = xinerama.Init(conn) == nil
	x.surfaces = make(map[xproto.Window]*Surface)
	x.damages = make(map[damage.Damage]*Surface)
	x.seat.attach(conn, screen.Root, a)
	x.state.SetPointerGrabber(x)

	const selectionMask = xfixes.SelectionEventMaskSetSelectionOwner |
		xfixes.SelectionEventMaskSelectionWindowDestroy |
		xfixes.SelectionEventMaskSelectionClientClose
	xfixes.SelectSelectionInput(conn, x.root, a.Clipboard, selectionMask)
	xfixes.SelectSelectionInput(conn, x.root, xproto.AtomPrimary, selectionMask)

	slog.Info("Managing display", "package", "xwm", "display", x.display, "xwm", x.id, "xinerama", x.xinerama)

	x.refreshOutputs(geom.NewRect(0, 0, int32(screen.WidthInPixels), int32(screen.HeightInPixels)))
	x.adopt()
	return nil
}

// teardown forgets every window of the closed connection. No request may reach the
// connection from here on, so every surface is dead before the first window goes.
func (x *X11) teardown() {
	x.state.SetPointerGrabber(nil)
	x.state.CancelGrab()
	x.seat.detach()
	for _, s := range x.surfaces {
		s.alive = false
	}
	for _, s := range x.surfaces {
		x.bridge.Destroyed(s)
	}
	x.surfaces = nil
	x.damages = nil
	slog.Info("Released display", "package", "xwm", "display", x.display, "xwm", x.id)
}

func (x *X11) refreshOutputs(screen geom.Rect) {
	type outputRect struct {
		name string
		rect geom.Rect
	}

	rects := []outputRect{{name: outputScreen, rect: screen}}
	if x.xinerama {
		r, err := xinerama.QueryScreens(x.conn).Reply()
		if err != nil {
			slog.Error("Failed to query xinerama screens", "package", "xwm", "error", err)
		} else if len(r.ScreenInfo) > 0 {
			rects = rects[:0]
			for i, info := range r.ScreenInfo {
				rects = append(rects, outputRect{
					name: fmt.Sprintf("%s%d", outputPrefixXinerama, i),
					rect: geom.NewRect(int32(info.XOrg), int32(info.YOrg), int32(info.Width), int32(info.Height)),
				})
			}
		}
	}

	for _, o := range x.state.Outputs() {
		if o.Name != outputScreen && !strings.HasPrefix(o.Name, outputPrefixXinerama) {
			continue
		}
		if !slices.ContainsFunc(rects, func(r outputRect) bool { return r.name == o.Name }) {
			if err := x.state.DisconnectOutput(o.Name); err != nil {
				slog.Error("Failed to disconnect output", "package", "xwm", "output", o.Name, "error", err)
			}
		}
	}
	for _, r := range rects {
		x.state.ConnectOutput(r.name, r.rect)
	}
}

// adopt manages windows that were mapped before the window manager started.
func (x *X11) adopt() {
	tree, err := xproto.QueryTree(x.conn, x.root).Reply()
	if err != nil {
		slog.Error("Failed to query window tree", "package", "xwm", "error", err)
		return
	}

	for _, wid := range tree.Children {
		attrs, err := xproto.GetWindowAttributes(x.conn, wid).Reply()
		if err != nil || attrs.OverrideRedirect || attrs.MapState != xproto.MapStateViewable {
			continue
		}
		if s := x.surface(wid); s != nil {
			x.bridge.MapRequest(s)
		}
	}
}

// surface returns the tracked surface for wid, creating it on first sight.
func (x *X11) surface(wid xproto.Window) *Surface {
	if s, ok := x.surfaces[wid]; ok {
		return s
	}

	s, err := newSurface(x.conn, x.atoms, x.id, wid)
	if err != nil {
		slog.Error("Failed to inspect window", "package", "xwm", "wid", wid, "error", err)
		return nil
	}

	if !s.override {
		if err := x.watchDamage(s); err != nil {
			slog.Error("Failed to watch damage", "package", "xwm", "surface", s, "error", err)
		}
	}

	x.surfaces[wid] = s
	return s
}

func (x *X11) watchDamage(s *Surface) error {
	d, err := damage.NewDamageId(x.conn)
	if err != nil {
		return err
	}
	if err := damage.CreateChecked(x.conn, d, xproto.Drawable(s.wid), damage.ReportLevelNonEmpty).Check(); err != nil {
		return err
	}
	s.damage = d
	x.damages[d] = s
	return nil
}

func (x *X11) forget(s *Surface) {
	s.alive = false
	delete(x.surfaces, s.wid)
	if s.damage != 0 {
		delete(x.damages, s.damage)
	}
}

func (x *X11) handle(ev xgb.Event) {
	switch ev := ev.(type) {
	case xproto.MapRequestEvent:
		if s := x.surface(ev.Window); s != nil {
			x.bridge.MapRequest(s)
		}
	case xproto.MapNotifyEvent:
		if ev.OverrideRedirect {
			if s := x.surface(ev.Window); s != nil {
				x.bridge.MappedOverrideRedirect(s)
			}
		}
	case xproto.UnmapNotifyEvent:
		if s, ok := x.surfaces[ev.Window]; ok {
			x.bridge.Unmapped(s)
		}
	case xproto.DestroyNotifyEvent:
		if s, ok := x.surfaces[ev.Window]; ok {
			x.forget(s)
			x.bridge.Destroyed(s)
		}
	case xproto.ConfigureRequestEvent:
		x.configureRequest(ev)
	case xproto.ConfigureNotifyEvent:
		rect := geom.NewRect(int32(ev.X), int32(ev.Y), int32(ev.Width), int32(ev.Height))
		if ev.Window == x.root {
			x.refreshOutputs(rect)
			return
		}
		if s, ok := x.surfaces[ev.Window]; ok {
			s.geometry = rect
			x.bridge.ConfigureNotify(s, rect)
		}
	case xproto.ClientMessageEvent:
		if ev.Type == x.atoms.NetWMMoveResize {
			x.moveResize(ev)
		}
	case xproto.MotionNotifyEvent:
		x.state.PointerMotion(geom.Point{X: int32(ev.RootX), Y: int32(ev.RootY)})
	case xproto.ButtonReleaseEvent:
		x.state.PointerRelease(uint32(ev.Detail), geom.Point{X: int32(ev.RootX), Y: int32(ev.RootY)})
		if _, ok := x.state.Grabbing(); !ok {
			xproto.UngrabPointer(x.conn, xproto.TimeCurrentTime)
		}
	case damage.NotifyEvent:
		if s, ok := x.damages[ev.Damage]; ok {
			damage.Subtract(x.conn, ev.Damage, 0, 0)
			x.bridge.Committed(s)
		}
	case xfixes.SelectionNotifyEvent:
		typ := selection.Clipboard
		if ev.Selection == xproto.AtomPrimary {
			typ = selection.Primary
		}
		if ev.Owner == xproto.WindowNone {
			x.bridge.ClearedSelection(typ)
		} else {
			x.bridge.NewSelection(x.id, typ, nil)
		}
	}
}

func (x *X11) configureRequest(ev xproto.ConfigureRequestEvent) {
	s, ok := x.surfaces[ev.Window]
	if ok {
		var width, height *int32
		if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
			w := int32(ev.Width)
			width = &w
		}
		if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
			h := int32(ev.Height)
			height = &h
		}
		x.bridge.ConfigureRequest(s, width, height)
		return
	}

	// Not managed yet, pass the request through.
	var values []uint32
	for _, field := range []struct {
		mask  uint16
		value uint32
	}{
		{xproto.ConfigWindowX, uint32(ev.X)},
		{xproto.ConfigWindowY, uint32(ev.Y)},
		{xproto.ConfigWindowWidth, uint32(ev.Width)},
		{xproto.ConfigWindowHeight, uint32(ev.Height)},
		{xproto.ConfigWindowBorderWidth, uint32(ev.BorderWidth)},
		{xproto.ConfigWindowSibling, uint32(ev.Sibling)},
		{xproto.ConfigWindowStackMode, uint32(ev.StackMode)},
	} {
		if ev.ValueMask&field.mask != 0 {
			values = append(values, field.value)
		}
	}
	xproto.ConfigureWindow(x.conn, ev.Window, ev.ValueMask, values)
}

func (x *X11) moveResize(ev xproto.ClientMessageEvent) {
	s, ok := x.surfaces[ev.Window]
	if !ok {
		return
	}

	data := ev.Data.Data32
	if len(data) < 4 {
		return
	}
	direction, button := data[2], data[3]

	if direction == moveResizeMove {
		x.bridge.MoveRequest(s, button)
	} else if edges, ok := moveResizeEdges[direction]; ok {
		x.bridge.ResizeRequest(s, button, edges)
	}
}

// GrabPointer takes the pointer for the length of an interactive grab. The grab is
// released on the button release that ends it.
func (x *X11) GrabPointer(g grab.Grab) error {
	glyph := uint16(xcursor.Fleur)
	if g.Mode == grab.ModeResize {
		if c, ok := edgeCursors[g.Edges]; ok {
			glyph = c
		}
	}

	cursor, err := x.cursors.Get(glyph)
	if err != nil {
		slog.Error("Failed to create cursor", "package", "xwm", "error", err)
	}

	r, err := xproto.GrabPointer(x.conn, false, x.root,
		xproto.EventMaskPointerMotion|xproto.EventMaskButtonRelease,
		xproto.GrabModeAsync, xproto.GrabModeAsync, xproto.WindowNone, cursor, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return err
	}
	if r.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("grab pointer: status %d", r.Status)
	}
	return nil
}
