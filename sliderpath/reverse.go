package sliderpath

import (
	"math"
	"slices"
)

// SegmentEndTolerance is the distance under which two segment ends are
// considered the same boundary.
const SegmentEndTolerance = 1e-10

// Path is the view of a slider path that Reverse reads and mutates.
// *SliderPath implements it.
type Path interface {
	ControlPoints() []ControlPoint
	SetControlPoints(points []ControlPoint)
	SetType(i int, t PathType)
	SetPosition(i int, pos Vec)
	RemoveRange(index, count int)

	SegmentEnds() []float64
	PathToProgress(dst []Vec, p0, p1 float64) []Vec
	PositionAt(progress float64) Vec
}

// Reverse rewrites the control points of p so that the same curve is
// traversed from its end to its start. The returned offset must be added to
// the position of the object owning p to keep the curve in place.
//
// Control points at the end of the path that do not contribute to the
// visible curve are dropped.
func Reverse(p Path) (offset Vec) {
	points := p.ControlPoints()
	if len(points) == 0 {
		return Vec{}
	}

	original := make([]PathType, len(points))
	for i, cp := range points {
		original[i] = cp.Type
	}

	setType := func(i int, t PathType) {
		if points[i].Type != t {
			points[i].Type = t
			p.SetType(i, t)
		}
	}

	if points[0].Type == PathInherited {
		setType(0, PathLinear)
	}

	// Inherited points after a linear point are linear points of their own.
	for i, t := range EffectiveTypes(points) {
		if t == PathLinear {
			setType(i, PathLinear)
		}
	}

	ends := p.SegmentEnds()
	distinct := slices.Compact(slices.Clone(ends))

	// Remove control points at the end which do not affect the visible path.
	if n := len(ends); n >= 2 && math.Abs(ends[n-1]-ends[n-2]) < SegmentEndTolerance && len(distinct) > 1 {
		last := lastVisibleControlPoint(points, len(distinct)-2)
		if removed := len(points) - last - 1; removed > 0 {
			Logger().Debug("trimming invisible control points", "kept", last+1, "removed", removed)
			p.RemoveRange(last+1, removed)
			points = points[:last+1]
		}
	}

	for i := range points {
		setType(i, original[i])
	}

	// Trimming may have shortened a trailing perfect curve, so its middle
	// point is moved onto what is left of the arc.
	if n := len(points); n >= 3 && points[n-3].Type == PathPerfectCurve && points[n-2].Type == PathInherited && len(distinct) > 1 {
		start := distinct[len(distinct)-2]
		end := distinct[len(distinct)-1]

		arc := p.PathToProgress(nil, start/end, 1)
		mid := arc[len(arc)/2]
		Logger().Debug("re-anchoring perfect curve", "from", points[n-2].Pos, "to", mid)
		p.SetPosition(n-2, mid)
	}

	return reverseControlPoints(p)
}

// lastVisibleControlPoint returns the index of the point that closes the
// segment started by the typed point with the given ordinal.
func lastVisibleControlPoint(points []ControlPoint, ordinal int) int {
	idx := -1
	for i, cp := range points {
		if cp.Type == PathInherited {
			continue
		}
		if ordinal == 0 {
			idx = i
			break
		}
		ordinal--
	}
	if idx < 0 {
		return len(points) - 1
	}

	// Inherited points directly after it belong to the same segment, and
	// so does the typed point ending it.
	for idx+1 < len(points) {
		idx++
		if points[idx].Type != PathInherited {
			break
		}
	}
	return idx
}

// reverseControlPoints reverses the order of the control points of p. Each
// type moves to the point that starts its segment once the direction flips.
func reverseControlPoints(p Path) Vec {
	points := p.ControlPoints()
	offset := p.PositionAt(1)

	reversed := make([]ControlPoint, len(points))
	lastType := PathInherited

	for i, cp := range points {
		cp.Pos = cp.Pos.Sub(offset)

		if i == len(points)-1 {
			cp.Type = lastType
			cp.Pos = Vec{}
		} else if cp.Type != PathInherited {
			cp.Type, lastType = lastType, cp.Type
		}

		reversed[len(points)-1-i] = cp
	}

	p.SetControlPoints(reversed)
	return offset
}
