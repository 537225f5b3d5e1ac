package xwm

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/ItsNotGoodName/x-tagwm/internal/geom"
	"github.com/ItsNotGoodName/x-tagwm/internal/window"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/damage"
	"github.com/jezek/xgb/xproto"
)

var ErrSurfaceDestroyed = errors.New("surface destroyed")

// ICCCM WM_STATE values.
const (
	wmStateWithdrawn = 0
	wmStateNormal    = 1
)

// WM_NORMAL_HINTS flags.
const (
	sizeHintMin = 1 << 4
	sizeHintMax = 1 << 5
)

// Surface is a top-level X11 window.
type Surface struct {
	conn  *xgb.Conn
	atoms *atoms
	xwm   window.XwmID
	wid   xproto.Window

	geometry geom.Rect
	override bool
	hints    window.Hints
	damage   damage.Damage
	alive    bool
}

func newSurface(conn *xgb.Conn, a *atoms, xwm window.XwmID, wid xproto.Window) (*Surface, error) {
	attrs, err := xproto.GetWindowAttributes(conn, wid).Reply()
	if err != nil {
		return nil, fmt.Errorf("get window attributes: %w", err)
	}

	g, err := xproto.GetGeometry(conn, xproto.Drawable(wid)).Reply()
	if err != nil {
		return nil, fmt.Errorf("get geometry: %w", err)
	}

	s := &Surface{
		conn:     conn,
		atoms:    a,
		xwm:      xwm,
		wid:      wid,
		geometry: geom.NewRect(int32(g.X), int32(g.Y), int32(g.Width), int32(g.Height)),
		override: attrs.OverrideRedirect,
		alive:    true,
	}
	if !s.override {
		s.hints = s.readHints()
	}
	return s, nil
}

func (s *Surface) String() string {
	return fmt.Sprintf("0x%x", uint32(s.wid))
}

func (s *Surface) Geometry() geom.Rect { return s.geometry }

func (s *Surface) Configure(rect geom.Rect) error {
	if !s.alive {
		return ErrSurfaceDestroyed
	}

	rect.Size.W, rect.Size.H = max(rect.Size.W, 1), max(rect.Size.H, 1)
	if err := xproto.ConfigureWindowChecked(s.conn, s.wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(rect.Loc.X), uint32(rect.Loc.Y), uint32(rect.Size.W), uint32(rect.Size.H)}).Check(); err != nil {
		return err
	}

	s.geometry = rect
	return nil
}

// Hide moves the window out of view without unmapping it.
func (s *Surface) Hide() error {
	if !s.alive {
		return ErrSurfaceDestroyed
	}

	x := -2 * max(s.geometry.Size.W, 1)
	if err := xproto.ConfigureWindowChecked(s.conn, s.wid, xproto.ConfigWindowX, []uint32{uint32(x)}).Check(); err != nil {
		return err
	}

	s.geometry.Loc.X = x
	return nil
}

func (s *Surface) SetMapped(mapped bool) error {
	if !s.alive {
		return ErrSurfaceDestroyed
	}

	state := uint32(wmStateWithdrawn)
	if mapped {
		if err := xproto.MapWindowChecked(s.conn, s.wid).Check(); err != nil {
			return err
		}
		state = wmStateNormal
	} else {
		if err := xproto.UnmapWindowChecked(s.conn, s.wid).Check(); err != nil {
			return err
		}
	}

	data := make([]byte, 8)
	xgb.Put32(data, state)
	return xproto.ChangePropertyChecked(s.conn, xproto.PropModeReplace, s.wid, s.atoms.WMState, s.atoms.WMState, 32, 2, data).Check()
}

func (s *Surface) Raise() error {
	if !s.alive {
		return ErrSurfaceDestroyed
	}
	return xproto.ConfigureWindowChecked(s.conn, s.wid, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check()
}

// Close asks the client to close through WM_DELETE_WINDOW, or kills it when it does not take part in the protocol.
func (s *Surface) Close() error {
	if !s.alive {
		return ErrSurfaceDestroyed
	}

	if !slices.Contains(s.atomList(s.atoms.WMProtocols), s.atoms.WMDeleteWindow) {
		return xproto.KillClientChecked(s.conn, uint32(s.wid)).Check()
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: s.wid,
		Type:   s.atoms.WMProtocols,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(s.atoms.WMDeleteWindow), xproto.TimeCurrentTime, 0, 0, 0}),
	}
	return xproto.SendEventChecked(s.conn, false, s.wid, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

func (s *Surface) Title() string {
	if title := s.property(s.atoms.NetWMName, s.atoms.UTF8String); len(title) > 0 {
		return string(title)
	}
	return string(s.property(xproto.AtomWmName, xproto.AtomString))
}

// Class is the class part of WM_CLASS.
func (s *Surface) Class() string {
	parts := bytes.Split(bytes.TrimRight(s.property(xproto.AtomWmClass, xproto.AtomString), "\x00"), []byte{0})
	return string(parts[len(parts)-1])
}

func (s *Surface) Alive() bool { return s.alive }

func (s *Surface) OverrideRedirect() bool { return s.override }

func (s *Surface) XwmID() window.XwmID { return s.xwm }

func (s *Surface) Hints() window.Hints { return s.hints }

func (s *Surface) readHints() window.Hints {
	var h window.Hints

	for _, atom := range s.atomList(s.atoms.NetWMWindowType) {
		if typ, ok := s.atoms.NetWMWindowTypes[atom]; ok {
			h.Type = typ
			break
		}
	}

	if v := s.property(xproto.AtomWmTransientFor, xproto.AtomWindow); len(v) >= 4 && xgb.Get32(v) != 0 {
		h.Transient = true
	}

	// flags, x, y, w, h, min w/h, max w/h
	if v := s.property(xproto.AtomWmNormalHints, xproto.AtomWmSizeHints); len(v) >= 36 {
		flags := xgb.Get32(v)
		if flags&sizeHintMin != 0 {
			h.MinSize = &geom.Size{W: int32(xgb.Get32(v[20:])), H: int32(xgb.Get32(v[24:]))}
		}
		if flags&sizeHintMax != 0 {
			h.MaxSize = &geom.Size{W: int32(xgb.Get32(v[28:])), H: int32(xgb.Get32(v[32:]))}
		}
	}

	return h
}

func (s *Surface) property(prop, typ xproto.Atom) []byte {
	r, err := xproto.GetProperty(s.conn, false, s.wid, prop, typ, 0, 1<<16).Reply()
	if err != nil || r == nil {
		return nil
	}
	return r.Value
}

func (s *Surface) atomList(prop xproto.Atom) []xproto.Atom {
	v := s.property(prop, xproto.AtomAtom)
	atoms := make([]xproto.Atom, 0, len(v)/4)
	for i := 0; i+4 <= len(v); i += 4 {
		atoms = append(atoms, xproto.Atom(xgb.Get32(v[i:])))
	}
	return atoms
}
