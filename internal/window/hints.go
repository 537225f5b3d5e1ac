package window

import "github.com/ItsNotGoodName/x-tagwm/internal/geom"

type Type int

const (
	TypeNormal Type = iota
	TypeDialog
	TypeUtility
	TypeToolbar
	TypeSplash
	TypeMenu
	TypeDropdownMenu
	TypePopupMenu
	TypeTooltip
	TypeNotification
	TypeDesktop
	TypeDock
)

// Hints are the client-declared properties consulted when a window is first mapped.
type Hints struct {
	Type    Type
	MinSize *geom.Size
	MaxSize *geom.Size
	// Transient is set for windows that are transient for another window or are popups.
	Transient bool
}

// ShouldFloat decides the initial floating state from hints alone.
func ShouldFloat(h Hints) bool {
	switch h.Type {
	case TypeDialog, TypeUtility, TypeToolbar, TypeSplash:
		return true
	}

	if h.Transient {
		return true
	}

	if h.MinSize != nil && h.MaxSize != nil {
		lo, hi := *h.MinSize, *h.MaxSize
		if lo.W > 0 && lo.H > 0 && (lo.W == hi.W || lo.H == hi.H) {
			return true
		}
	}

	return false
}
