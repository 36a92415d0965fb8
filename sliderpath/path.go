package sliderpath

import (
	"math"
	"slices"
	"sort"
)

// SliderPath is the curve of a slider: an ordered list of control points
// plus an optional expected distance. The sampled polyline is derived from
// the control points and recomputed lazily after every mutation.
type SliderPath struct {
	points []ControlPoint

	expectedDistance    float64
	hasExpectedDistance bool

	valid            bool
	calculatedPath   []Vec
	cumulativeLength []float64
	segmentEnds      []int
	calculatedLength float64
}

// New returns a path over a copy of points.
func New(points ...ControlPoint) *SliderPath {
	return &SliderPath{points: slices.Clone(points)}
}

// Clone returns an independent copy of p.
func (p *SliderPath) Clone() *SliderPath {
	return &SliderPath{
		points:              slices.Clone(p.points),
		expectedDistance:    p.expectedDistance,
		hasExpectedDistance: p.hasExpectedDistance,
	}
}

func (p *SliderPath) Len() int                      { return len(p.points) }
func (p *SliderPath) Point(i int) ControlPoint      { return p.points[i] }
func (p *SliderPath) ControlPoints() []ControlPoint { return slices.Clone(p.points) }

func (p *SliderPath) SetControlPoints(points []ControlPoint) {
	p.points = slices.Clone(points)
	p.invalidate()
}

func (p *SliderPath) InsertControlPoint(i int, cp ControlPoint) {
	p.points = slices.Insert(p.points, i, cp)
	p.invalidate()
}

// RemoveRange removes count points starting at index.
func (p *SliderPath) RemoveRange(index, count int) {
	p.points = slices.Delete(p.points, index, index+count)
	p.invalidate()
}

func (p *SliderPath) SetType(i int, t PathType) {
	if p.points[i].Type == t {
		return
	}
	p.points[i].Type = t
	p.invalidate()
}

func (p *SliderPath) SetPosition(i int, pos Vec) {
	if p.points[i].Pos == pos {
		return
	}
	p.points[i].Pos = pos
	p.invalidate()
}

// SetExpectedDistance sets the length the slider is meant to have. The
// sampled path is cut or extended along its last leg to match it.
func (p *SliderPath) SetExpectedDistance(d float64) {
	p.expectedDistance = d
	p.hasExpectedDistance = true
	p.invalidate()
}

func (p *SliderPath) ClearExpectedDistance() {
	p.expectedDistance = 0
	p.hasExpectedDistance = false
	p.invalidate()
}

func (p *SliderPath) ExpectedDistance() (float64, bool) {
	return p.expectedDistance, p.hasExpectedDistance
}

// CalculatedDistance is the length of the geometry described by the control
// points, ignoring the expected distance.
func (p *SliderPath) CalculatedDistance() float64 {
	p.ensureValid()
	return p.calculatedLength
}

// Distance is the length of the sampled path after the expected distance has
// been applied.
func (p *SliderPath) Distance() float64 {
	p.ensureValid()
	if len(p.cumulativeLength) == 0 {
		return 0
	}
	return p.cumulativeLength[len(p.cumulativeLength)-1]
}

// CalculatedPath returns a copy of the sampled polyline.
func (p *SliderPath) CalculatedPath() []Vec {
	p.ensureValid()
	return slices.Clone(p.calculatedPath)
}

// SegmentEnds returns the progress at which each segment ends, starting with
// the zero-length segment of the head. Segments cut off by the expected
// distance end at 1.
func (p *SliderPath) SegmentEnds() []float64 {
	p.ensureValid()
	dist := p.Distance()
	out := make([]float64, len(p.segmentEnds))
	for i, end := range p.segmentEnds {
		if dist == 0 {
			continue
		}
		out[i] = p.cumulativeLength[min(end, len(p.cumulativeLength)-1)] / dist
	}
	return out
}

// PositionAt returns the position at progress, clamped to [0, 1].
func (p *SliderPath) PositionAt(progress float64) Vec {
	p.ensureValid()
	d := p.progressToDistance(progress)
	return p.interpolateVertices(p.indexOfDistance(d), d)
}

// PathToProgress resets dst and appends the part of the path between
// progress p0 and p1, including interpolated end points.
func (p *SliderPath) PathToProgress(dst []Vec, p0, p1 float64) []Vec {
	p.ensureValid()
	d0 := p.progressToDistance(p0)
	d1 := p.progressToDistance(p1)

	dst = dst[:0]
	i := 0
	for i < len(p.calculatedPath) && p.cumulativeLength[i] < d0 {
		i++
	}
	dst = append(dst, p.interpolateVertices(i, d0))
	for i < len(p.calculatedPath) && p.cumulativeLength[i] <= d1 {
		dst = append(dst, p.calculatedPath[i])
		i++
	}
	return append(dst, p.interpolateVertices(i, d1))
}

func (p *SliderPath) invalidate() { p.valid = false }

func (p *SliderPath) ensureValid() {
	if p.valid {
		return
	}
	p.calculatePath()
	p.calculateLength()
	p.valid = true
}

func (p *SliderPath) calculatePath() {
	p.calculatedPath = p.calculatedPath[:0]
	p.segmentEnds = p.segmentEnds[:0]

	if len(p.points) == 0 {
		return
	}

	vertices := make([]Vec, len(p.points))
	for i, cp := range p.points {
		vertices[i] = cp.Pos
	}

	start := 0
	for i := range p.points {
		if p.points[i].Type == PathInherited && i < len(p.points)-1 {
			continue
		}

		// The current vertex ends the segment.
		segment := vertices[start : i+1]
		segmentType := p.points[start].Type
		if segmentType == PathInherited {
			segmentType = PathLinear
		}

		if len(segment) == 1 {
			p.calculatedPath = append(p.calculatedPath, segment[0])
		} else {
			sub := approximateSegment(segment, segmentType)
			skipFirst := len(p.calculatedPath) > 0 && len(sub) > 0 && p.calculatedPath[len(p.calculatedPath)-1] == sub[0]
			if skipFirst {
				sub = sub[1:]
			}
			p.calculatedPath = append(p.calculatedPath, sub...)
		}

		p.segmentEnds = append(p.segmentEnds, len(p.calculatedPath)-1)
		start = i
	}
}

func (p *SliderPath) calculateLength() {
	p.calculatedLength = 0
	p.cumulativeLength = append(p.cumulativeLength[:0], 0)

	for i := 0; i < len(p.calculatedPath)-1; i++ {
		p.calculatedLength += p.calculatedPath[i+1].Distance(p.calculatedPath[i])
		p.cumulativeLength = append(p.cumulativeLength, p.calculatedLength)
	}

	if !p.hasExpectedDistance || p.calculatedLength == p.expectedDistance {
		return
	}
	expected := p.expectedDistance
	path := p.calculatedPath

	// A path ending in two equal points is never extended.
	if n := len(path); n >= 2 && path[n-1] == path[n-2] && expected > p.calculatedLength {
		return
	}

	// The last length is always replaced.
	p.cumulativeLength = p.cumulativeLength[:len(p.cumulativeLength)-1]
	end := len(path) - 1

	if p.calculatedLength > expected {
		for len(p.cumulativeLength) > 0 && p.cumulativeLength[len(p.cumulativeLength)-1] >= expected {
			p.cumulativeLength = p.cumulativeLength[:len(p.cumulativeLength)-1]
			end--
		}
		path = path[:end+1]
	}

	if end <= 0 {
		p.calculatedPath = path[:end+1]
		p.cumulativeLength = append(p.cumulativeLength[:0], 0)
		return
	}

	dir := path[end].Sub(path[end-1]).Normalize()
	path[end] = path[end-1].Add(dir.Scale(expected - p.cumulativeLength[len(p.cumulativeLength)-1]))
	p.calculatedPath = path
	p.cumulativeLength = append(p.cumulativeLength, expected)
}

func (p *SliderPath) progressToDistance(progress float64) float64 {
	return clamp(progress, 0, 1) * p.Distance()
}

func (p *SliderPath) indexOfDistance(d float64) int {
	return sort.SearchFloat64s(p.cumulativeLength, d)
}

func (p *SliderPath) interpolateVertices(i int, d float64) Vec {
	path := p.calculatedPath
	if len(path) == 0 {
		return Vec{}
	}
	if i <= 0 {
		return path[0]
	}
	if i >= len(path) {
		return path[len(path)-1]
	}

	p0, p1 := path[i-1], path[i]
	d0, d1 := p.cumulativeLength[i-1], p.cumulativeLength[i]
	if math.Abs(d0-d1) < 1e-7 {
		return p0
	}
	if d == d1 {
		return p1
	}
	w := (d - d0) / (d1 - d0)
	return p0.Add(p1.Sub(p0).Scale(w))
}
