// Package grab computes window geometry during interactive pointer moves and resizes.
package grab

import "github.com/ItsNotGoodName/x-tagwm/internal/geom"

type Edges uint8

const (
	EdgeNone   Edges = 0
	EdgeTop    Edges = 1
	EdgeBottom Edges = 2
	EdgeLeft   Edges = 4
	EdgeRight  Edges = 8

	EdgeTopLeft     = EdgeTop | EdgeLeft
	EdgeTopRight    = EdgeTop | EdgeRight
	EdgeBottomLeft  = EdgeBottom | EdgeLeft
	EdgeBottomRight = EdgeBottom | EdgeRight
)

type Mode int

const (
	ModeMove Mode = iota
	ModeResize
)

type Grab struct {
	Mode    Mode
	Button  uint32
	Edges   Edges
	Pointer geom.Point
	Initial geom.Rect
}

func Move(button uint32, pointer geom.Point, initial geom.Rect) Grab {
	return Grab{
		Mode:    ModeMove,
		Button:  button,
		Pointer: pointer,
		Initial: initial,
	}
}

func Resize(button uint32, edges Edges, pointer geom.Point, initial geom.Rect) Grab {
	return Grab{
		Mode:    ModeResize,
		Button:  button,
		Edges:   edges,
		Pointer: pointer,
		Initial: initial,
	}
}

// Update returns the window geometry for the pointer at p.
func (g Grab) Update(p geom.Point) geom.Rect {
	delta := p.Sub(g.Pointer)
	if g.Mode == ModeMove {
		return geom.Rect{Loc: g.Initial.Loc.Add(delta), Size: g.Initial.Size}
	}

	left := g.Initial.Loc.X
	right := left + g.Initial.Size.W
	top := g.Initial.Loc.Y
	bottom := top + g.Initial.Size.H

	if g.Edges&EdgeTop != 0 {
		top = min(top+delta.Y, bottom-1)
	} else if g.Edges&EdgeBottom != 0 {
		bottom = max(bottom+delta.Y, top+1)
	}

	if g.Edges&EdgeLeft != 0 {
		left = min(left+delta.X, right-1)
	} else if g.Edges&EdgeRight != 0 {
		right = max(right+delta.X, left+1)
	}

	return geom.NewRect(left, top, right-left, bottom-top)
}

// EdgesAt is the corner of rect nearest to p.
func EdgesAt(p geom.Point, rect geom.Rect) Edges {
	edges := EdgeBottom
	if p.Y < rect.Loc.Y+rect.Size.H/2 {
		edges = EdgeTop
	}
	if p.X < rect.Loc.X+rect.Size.W/2 {
		return edges | EdgeLeft
	}
	return edges | EdgeRight
}
