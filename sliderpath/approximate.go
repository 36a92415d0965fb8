package sliderpath

import "math"

const (
	bezierToleranceSq = 0.25 * 0.25
	arcTolerance      = 0.1 // maximum sagitta of one arc step
	catmullDetail     = 50  // samples per catmull span
)

// approximateSegment turns the vertices of one segment into a polyline.
func approximateSegment(vertices []Vec, t PathType) []Vec {
	switch t {
	case PathLinear:
		out := make([]Vec, len(vertices))
		copy(out, vertices)
		return out

	case PathPerfectCurve:
		// Only a three point perfect curve is a circle; anything else,
		// including collinear points, is drawn as a bezier.
		if len(vertices) == 3 {
			if pts, ok := approximateCircularArc(vertices[0], vertices[1], vertices[2]); ok {
				return pts
			}
		}
		return approximateBezier(vertices)

	case PathCatmull:
		return approximateCatmull(vertices)

	default:
		return approximateBezier(vertices)
	}
}

// --- Bezier (adaptive de Casteljau subdivision) ---

func approximateBezier(cp []Vec) []Vec {
	if len(cp) == 0 {
		return nil
	}
	var out []Vec
	stack := make([][]Vec, 0, 32)
	stack = append(stack, cp)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if bezierFlatEnough(cur) {
			out = append(out, cur[0])
			continue
		}
		// Right half goes on the stack first so points come out in order.
		l, r := bezierSubdivide(cur)
		stack = append(stack, r, l)
	}
	out = append(out, cp[len(cp)-1])
	return out
}

func bezierFlatEnough(cp []Vec) bool {
	for i := 1; i < len(cp)-1; i++ {
		d := cp[i-1].Sub(cp[i].Scale(2)).Add(cp[i+1])
		if d.Dot(d) > bezierToleranceSq {
			return false
		}
	}
	return true
}

func bezierSubdivide(cp []Vec) (left, right []Vec) {
	n := len(cp)
	left = make([]Vec, n)
	right = make([]Vec, n)

	row := make([]Vec, n)
	copy(row, cp)
	for r := 0; r < n; r++ {
		left[r] = row[0]
		right[n-1-r] = row[n-1-r]
		for i := 0; i < n-1-r; i++ {
			row[i] = row[i].Add(row[i+1]).Scale(0.5)
		}
	}
	return left, right
}

// --- Catmull-Rom (uniform) ---

func approximateCatmull(pts []Vec) []Vec {
	n := len(pts)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Vec{pts[0]}
	}
	out := make([]Vec, 0, (n-1)*catmullDetail+1)
	out = append(out, pts[0])
	for i := 0; i < n-1; i++ {
		p0 := pts[max(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[min(i+2, n-1)]
		for s := 1; s <= catmullDetail; s++ {
			t := float64(s) / float64(catmullDetail)
			out = append(out, catmullPoint(p0, p1, p2, p3, t))
		}
	}
	return out
}

func catmullPoint(p0, p1, p2, p3 Vec, t float64) Vec {
	t2 := t * t
	t3 := t2 * t
	return Vec{
		X: 0.5 * ((2 * p1.X) + (-p0.X+p2.X)*t + (2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 + (-p0.X+3*p1.X-3*p2.X+p3.X)*t3),
		Y: 0.5 * ((2 * p1.Y) + (-p0.Y+p2.Y)*t + (2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 + (-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3),
	}
}

// --- Perfect circle through three points ---

// approximateCircularArc samples the arc from p1 through p2 to p3. It reports
// false when the points do not define a circle.
func approximateCircularArc(p1, p2, p3 Vec) ([]Vec, bool) {
	if math.Abs(p2.Sub(p1).Cross(p3.Sub(p2))) < 1e-6 {
		return nil, false
	}
	c, ok := circumcenter(p1, p2, p3)
	if !ok {
		return nil, false
	}
	r := c.Distance(p1)

	a1 := math.Atan2(p1.Y-c.Y, p1.X-c.X)
	a3 := math.Atan2(p3.Y-c.Y, p3.X-c.X)

	dir := 1.0
	if p2.Sub(p1).Cross(p3.Sub(p2)) < 0 {
		dir = -1.0
	}
	delta := angleDiff(a1, a3, dir)

	step := 2 * math.Acos(clamp(1-arcTolerance/r, -1, 1))
	if step <= 0 || math.IsNaN(step) || step > math.Pi {
		step = math.Pi
	}
	steps := max(2, int(math.Ceil(math.Abs(delta)/step)))

	out := make([]Vec, 0, steps+1)
	out = append(out, p1)
	for i := 1; i < steps; i++ {
		a := a1 + delta*float64(i)/float64(steps)
		out = append(out, Vec{c.X + math.Cos(a)*r, c.Y + math.Sin(a)*r})
	}
	out = append(out, p3)
	return out, true
}

func circumcenter(a, b, c Vec) (Vec, bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-8 {
		return Vec{}, false
	}
	a2 := a.Dot(a)
	b2 := b.Dot(b)
	c2 := c.Dot(c)
	return Vec{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}, true
}

// angleDiff is the signed sweep from aStart to aEnd in direction dir.
func angleDiff(aStart, aEnd, dir float64) float64 {
	d := aEnd - aStart
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	if dir < 0 && d > 0 {
		d -= 2 * math.Pi
	} else if dir > 0 && d < 0 {
		d += 2 * math.Pi
	}
	return d
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
