package layout

import "github.com/ItsNotGoodName/x-tagwm/internal/geom"

type MasterStackLayout struct {
	ratio float32
}

func NewMasterStack(ratio float32) MasterStackLayout {
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}
	return MasterStackLayout{ratio: ratio}
}

// Arrange puts the first window on the left and stacks the rest on the right.
func (l MasterStackLayout) Arrange(n int, area geom.Rect) []geom.Rect {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []geom.Rect{area}
	}

	masterW := int32(float32(area.Size.W) * l.ratio)
	rects := make([]geom.Rect, 0, n)
	rects = append(rects, geom.NewRect(area.Loc.X, area.Loc.Y, masterW, area.Size.H))

	stack := n - 1
	for i := 0; i < stack; i++ {
		y, h := span(area.Size.H, stack, i)
		rects = append(rects, geom.NewRect(area.Loc.X+masterW, area.Loc.Y+y, area.Size.W-masterW, h))
	}
	return rects
}

// arrangeDwindle halves the remaining area for each window, alternating vertical and horizontal cuts.
func arrangeDwindle(n int, area geom.Rect) []geom.Rect {
	if n <= 0 {
		return nil
	}

	rects := make([]geom.Rect, 0, n)
	rest := area
	for i := 0; i < n-1; i++ {
		if i%2 == 0 {
			w := rest.Size.W / 2
			rects = append(rects, geom.NewRect(rest.Loc.X, rest.Loc.Y, w, rest.Size.H))
			rest = geom.NewRect(rest.Loc.X+w, rest.Loc.Y, rest.Size.W-w, rest.Size.H)
		} else {
			h := rest.Size.H / 2
			rects = append(rects, geom.NewRect(rest.Loc.X, rest.Loc.Y, rest.Size.W, h))
			rest = geom.NewRect(rest.Loc.X, rest.Loc.Y+h, rest.Size.W, rest.Size.H-h)
		}
	}
	return append(rects, rest)
}

func arrangeColumns(n int, area geom.Rect) []geom.Rect {
	rects := make([]geom.Rect, 0, max(n, 0))
	for i := 0; i < n; i++ {
		x, w := span(area.Size.W, n, i)
		rects = append(rects, geom.NewRect(area.Loc.X+x, area.Loc.Y, w, area.Size.H))
	}
	return rects
}

func arrangeMonocle(n int, area geom.Rect) []geom.Rect {
	rects := make([]geom.Rect, 0, max(n, 0))
	for i := 0; i < n; i++ {
		rects = append(rects, area)
	}
	return rects
}
