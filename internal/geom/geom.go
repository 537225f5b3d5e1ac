package geom

import "fmt"

type Point struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

type Size struct {
	W int32 `json:"w"`
	H int32 `json:"h"`
}

type Rect struct {
	Loc  Point `json:"loc"`
	Size Size  `json:"size"`
}

func NewRect(x, y, w, h int32) Rect {
	return Rect{Loc: Point{X: x, Y: y}, Size: Size{W: w, H: h}}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Loc.X && p.X < r.Loc.X+r.Size.W &&
		p.Y >= r.Loc.Y && p.Y < r.Loc.Y+r.Size.H
}

// Center returns the location that centers a rectangle of size s inside r.
func (r Rect) Center(s Size) Point {
	return Point{
		X: r.Loc.X + (r.Size.W-s.W)/2,
		Y: r.Loc.Y + (r.Size.H-s.H)/2,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Size.W, r.Size.H, r.Loc.X, r.Loc.Y)
}
