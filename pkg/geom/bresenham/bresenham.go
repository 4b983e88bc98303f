// Package bresenham rasterizes straight lines between integer pixel
// coordinates with the Bresenham algorithm.
package bresenham

import "image"

// Line returns the pixels of the line from a to b, inclusive of both ends,
// ordered from a to b. It emits one pixel per step along the major axis, so
// the result has max(|dx|, |dy|)+1 points and no duplicates.
func Line(a, b image.Point) []image.Point {
	pts := make([]image.Point, 0, Steps(a, b)+1)
	Walk(a, b, func(p image.Point) {
		pts = append(pts, p)
	})
	return pts
}

// Steps returns the number of major-axis steps between a and b.
func Steps(a, b image.Point) int {
	return max(abs(b.X-a.X), abs(b.Y-a.Y))
}

// Walk calls fn for every pixel of the line from a to b, in order from a to b.
func Walk(a, b image.Point, fn func(image.Point)) {
	x1, y1, x2, y2 := a.X, a.Y, b.X, b.Y

	// Lines steeper in y than in x are rasterized with the axes swapped.
	steep := abs(y2-y1) > abs(x2-x1)
	if steep {
		x1, y1 = y1, x1
		x2, y2 = y2, x2
	}

	// The error term is only symmetric when walking towards +x; walk the
	// reversed line and emit it backwards so both directions hit the same pixels.
	reversed := x1 > x2
	if reversed {
		x1, x2 = x2, x1
		y1, y2 = y2, y1
	}

	dx := x2 - x1
	dy := abs(y2 - y1)
	ystep := 1
	if y1 > y2 {
		ystep = -1
	}

	emit := fn
	var buf []image.Point
	if reversed {
		buf = make([]image.Point, 0, dx+1)
		emit = func(p image.Point) { buf = append(buf, p) }
	}

	err := dx / 2
	y := y1
	for x := x1; x <= x2; x++ {
		if steep {
			emit(image.Pt(y, x))
		} else {
			emit(image.Pt(x, y))
		}
		err -= dy
		if err < 0 {
			y += ystep
			err += dx
		}
	}

	for i := len(buf) - 1; i >= 0; i-- {
		fn(buf[i])
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
