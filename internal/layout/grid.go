package layout

import "github.com/ItsNotGoodName/x-tagwm/internal/geom"

// gridSize picks the smallest column by row grid that holds count cells.
func gridSize(count int) (int, int) {
	xc, yc := 0, 0
	for xc*yc < count {
		xc++
		if xc*yc >= count {
			break
		}
		yc++
	}
	return xc, yc
}

func arrangeGrid(n int, area geom.Rect) []geom.Rect {
	if n <= 0 {
		return nil
	}

	xc, yc := gridSize(n)
	rects := make([]geom.Rect, 0, n)
	for i := 0; i < yc; i++ {
		y, h := span(area.Size.H, yc, i)
		for j := 0; j < xc; j++ {
			if len(rects) == n {
				return rects
			}
			x, w := span(area.Size.W, xc, j)
			rects = append(rects, geom.NewRect(area.Loc.X+x, area.Loc.Y+y, w, h))
		}
	}
	return rects
}
