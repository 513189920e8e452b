package chart

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// corner regions cover this fraction of each axis
const cornerSpan = 0.4

type corner struct {
	top, left bool
}

// candidate corners in preference order, used to break ties
var corners = []corner{
	{top: true, left: false},
	{top: true, left: true},
	{top: false, left: true},
	{top: false, left: false},
}

// legendCorner picks the corner of the data area that holds the fewest
// points, so the legend covers as little data as possible. ds must be valid.
func legendCorner(ds Dataset) corner {
	xmin, xmax := floats.Min(ds.X), floats.Max(ds.X)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, s := range ds.Series {
		ymin = math.Min(ymin, floats.Min(s.Values))
		ymax = math.Max(ymax, floats.Max(s.Values))
	}

	counts := make([]int, len(corners))
	for _, s := range ds.Series {
		for i, y := range s.Values {
			nx := normalize(ds.X[i], xmin, xmax)
			ny := normalize(y, ymin, ymax)
			for c, cr := range corners {
				if inCorner(nx, ny, cr) {
					counts[c]++
				}
			}
		}
	}

	best := 0
	for c := range corners {
		if counts[c] < counts[best] {
			best = c
		}
	}
	return corners[best]
}

func inCorner(nx, ny float64, c corner) bool {
	inX := nx >= 1-cornerSpan
	if c.left {
		inX = nx <= cornerSpan
	}
	inY := ny <= cornerSpan
	if c.top {
		inY = ny >= 1-cornerSpan
	}
	return inX && inY
}

func normalize(v, lo, hi float64) float64 {
	if hi == lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}
