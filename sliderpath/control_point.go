package sliderpath

// PathType is the curve kind of the segment starting at a control point.
type PathType uint8

const (
	// PathInherited marks a point without a type of its own. It continues the
	// segment started by the closest typed point before it.
	PathInherited PathType = iota
	PathLinear
	PathPerfectCurve
	PathBezier
	PathCatmull
)

func (t PathType) String() string {
	switch t {
	case PathInherited:
		return "Inherited"
	case PathLinear:
		return "Linear"
	case PathPerfectCurve:
		return "PerfectCurve"
	case PathBezier:
		return "Bezier"
	case PathCatmull:
		return "Catmull"
	default:
		return "InvalidPathType"
	}
}

// Letter returns the .osu path letter for t, or 0 for PathInherited.
func (t PathType) Letter() byte {
	switch t {
	case PathLinear:
		return 'L'
	case PathPerfectCurve:
		return 'P'
	case PathBezier:
		return 'B'
	case PathCatmull:
		return 'C'
	default:
		return 0
	}
}

// PathTypeFromLetter maps a .osu path letter to its type. Unknown letters
// are read as bezier, which is what the game does.
func PathTypeFromLetter(c byte) PathType {
	switch c {
	case 'L', 'l':
		return PathLinear
	case 'P', 'p':
		return PathPerfectCurve
	case 'C', 'c':
		return PathCatmull
	default:
		return PathBezier
	}
}

// ControlPoint is a single vertex of a slider path. Pos is relative to the
// start of the path.
type ControlPoint struct {
	Pos  Vec
	Type PathType
}

// Pt is shorthand for a control point at (x, y).
func Pt(x, y float64, t PathType) ControlPoint {
	return ControlPoint{Pos: Vec{x, y}, Type: t}
}

// EffectiveTypes resolves inheritance for every point in one forward scan:
// each entry is the type of the segment the point belongs to. A leading
// untyped point resolves to PathLinear.
func EffectiveTypes(points []ControlPoint) []PathType {
	out := make([]PathType, len(points))
	cur := PathLinear
	for i, p := range points {
		if p.Type != PathInherited {
			cur = p.Type
		}
		out[i] = cur
	}
	return out
}
