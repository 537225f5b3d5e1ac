package xwm

import (
	"fmt"

	"github.com/ItsNotGoodName/x-tagwm/internal/window"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

type atoms struct {
	Clipboard        xproto.Atom
	UTF8String       xproto.Atom
	WMState          xproto.Atom
	WMProtocols      xproto.Atom
	WMDeleteWindow   xproto.Atom
	NetActiveWindow  xproto.Atom
	NetWMName        xproto.Atom
	NetWMMoveResize  xproto.Atom
	NetWMWindowType  xproto.Atom
	NetWMWindowTypes map[xproto.Atom]window.Type
}

func internAtom(conn *xgb.Conn, name string) (xproto.Atom, error) {
	r, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("intern atom %s: %w", name, err)
	}
	if r == nil {
		return 0, nil
	}
	return r.Atom, nil
}

func internAtoms(conn *xgb.Conn) (*atoms, error) {
	a := &atoms{NetWMWindowTypes: make(map[xproto.Atom]window.Type)}

	for name, dst := range map[string]*xproto.Atom{
		"CLIPBOARD":           &a.Clipboard,
		"UTF8_STRING":         &a.UTF8String,
		"WM_STATE":            &a.WMState,
		"WM_PROTOCOLS":        &a.WMProtocols,
		"WM_DELETE_WINDOW":    &a.WMDeleteWindow,
		"_NET_ACTIVE_WINDOW":  &a.NetActiveWindow,
		"_NET_WM_NAME":        &a.NetWMName,
		"_NET_WM_MOVERESIZE":  &a.NetWMMoveResize,
		"_NET_WM_WINDOW_TYPE": &a.NetWMWindowType,
	} {
		atom, err := internAtom(conn, name)
		if err != nil {
			return nil, err
		}
		*dst = atom
	}

	for i, name := range windowTypeNames {
		atom, err := internAtom(conn, name)
		if err != nil {
			return nil, err
		}
		a.NetWMWindowTypes[atom] = window.Type(i)
	}

	return a, nil
}

// windowTypeNames is indexed by window.Type.
var windowTypeNames = []string{
	"_NET_WM_WINDOW_TYPE_NORMAL",
	"_NET_WM_WINDOW_TYPE_DIALOG",
	"_NET_WM_WINDOW_TYPE_UTILITY",
	"_NET_WM_WINDOW_TYPE_TOOLBAR",
	"_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_WINDOW_TYPE_MENU",
	"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU",
	"_NET_WM_WINDOW_TYPE_POPUP_MENU",
	"_NET_WM_WINDOW_TYPE_TOOLTIP",
	"_NET_WM_WINDOW_TYPE_NOTIFICATION",
	"_NET_WM_WINDOW_TYPE_DESKTOP",
	"_NET_WM_WINDOW_TYPE_DOCK",
}
