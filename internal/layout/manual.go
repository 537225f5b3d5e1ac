package layout

import "github.com/ItsNotGoodName/x-tagwm/internal/geom"

// Pane is a fraction of the output area, each field in the range [0, 1].
type Pane struct {
	X float32
	Y float32
	W float32
	H float32
}

type Manual struct {
	panes []Pane
}

func NewManual(panes []Pane) Manual {
	return Manual{
		panes: panes,
	}
}

func (l Manual) Arrange(n int, area geom.Rect) []geom.Rect {
	count := min(n, len(l.panes))
	if count <= 0 {
		return nil
	}

	w, h := float32(area.Size.W), float32(area.Size.H)
	rects := make([]geom.Rect, count)
	for i := range rects {
		p := l.panes[i]
		x := int32(p.X * w)
		y := int32(p.Y * h)
		rects[i] = geom.NewRect(
			area.Loc.X+x,
			area.Loc.Y+y,
			int32((p.W+p.X)*w)-x,
			int32((p.H+p.Y)*h)-y,
		)
	}
	return rects
}
