package xwm

import (
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
	"github.com/ItsNotGoodName/x-tagwm/internal/wm"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Seat is the X11 keyboard and pointer. It has no keyboard until a connection is attached.
type Seat struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms *atoms
}

func NewSeat() *Seat {
	return &Seat{}
}

func (s *Seat) attach(conn *xgb.Conn, root xproto.Window, a *atoms) {
	s.conn, s.root, s.atoms = conn, root, a
}

func (s *Seat) detach() {
	s.conn = nil
}

func (s *Seat) Keyboard() (wm.Keyboard, bool) {
	if s.conn == nil {
		return nil, false
	}
	return keyboard{s}, true
}

func (s *Seat) PointerLocation() geom.Point {
	if s.conn == nil {
		return geom.Point{}
	}

	r, err := xproto.QueryPointer(s.conn, s.root).Reply()
	if err != nil {
		slog.Error("Failed to query pointer", "package", "xwm", "error", err)
		return geom.Point{}
	}
	return geom.Point{X: int32(r.RootX), Y: int32(r.RootY)}
}

type keyboard struct {
	*Seat
}

func (k keyboard) SetFocus(w *window.Window, _ uint32) error {
	surface, ok := w.Surface.(*Surface)
	if !ok {
		return fmt.Errorf("window %d is not an X11 window", w.ID)
	}
	if !surface.alive || k.conn == nil {
		return fmt.Errorf("window %d is gone", w.ID)
	}

	if err := xproto.SetInputFocusChecked(k.conn, xproto.InputFocusPointerRoot, surface.wid, xproto.TimeCurrentTime).Check(); err != nil {
		return err
	}

	data := make([]byte, 4)
	xgb.Put32(data, uint32(surface.wid))
	return xproto.ChangePropertyChecked(k.conn, xproto.PropModeReplace, k.root, k.atoms.NetActiveWindow, xproto.AtomWindow, 32, 1, data).Check()
}
