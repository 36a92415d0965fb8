package dotosu

import (
	"math"
	"strconv"
	"strings"

	"github.com/DarkbitNetwork/osu/sliderpath"
)

// ParsePath converts "B|x:y|x:y|..." into control points relative to head.
// The head is the first point; the string supplies the rest.
//
// A type letter starts a new segment at the point that follows it. Within a
// segment a repeated point (red anchor) starts another segment of the same
// type, except for catmull curves and for the segment's last point. A
// perfect curve group is read as bezier unless it spans exactly three
// points, and as linear when those three points are collinear.
func ParsePath(head sliderpath.Vec, spec string) []sliderpath.ControlPoint {
	var tokens []string
	for _, tok := range strings.Split(strings.TrimSpace(spec), "|") {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 || !isLetter(tokens[0][0]) {
		tokens = append([]string{"B"}, tokens...)
	}

	var points []sliderpath.ControlPoint
	start := 0
	for end := 1; end <= len(tokens); end++ {
		if end < len(tokens) && !isLetter(tokens[end][0]) {
			continue
		}
		// The point after the next letter closes this group's curve
		// without belonging to it.
		var endPoint *sliderpath.Vec
		if end+1 < len(tokens) {
			if pos, ok := parseCoord(head, tokens[end+1]); ok {
				endPoint = &pos
			}
		}
		points = append(points, parseGroup(head, tokens[start:end], endPoint, start == 0)...)
		start = end
	}
	return points
}

// parseGroup reads one letter and the coordinates after it. The first group
// also holds the head at the origin.
func parseGroup(head sliderpath.Vec, group []string, endPoint *sliderpath.Vec, first bool) []sliderpath.ControlPoint {
	typ := sliderpath.PathTypeFromLetter(group[0][0])

	var vertices []sliderpath.ControlPoint
	if first {
		vertices = append(vertices, sliderpath.ControlPoint{})
	}
	for _, tok := range group[1:] {
		if pos, ok := parseCoord(head, tok); ok {
			vertices = append(vertices, sliderpath.ControlPoint{Pos: pos})
		}
	}
	extra := 0
	if endPoint != nil {
		vertices = append(vertices, sliderpath.ControlPoint{Pos: *endPoint})
		extra = 1
	}
	if len(vertices)-extra <= 0 {
		return nil
	}

	if typ == sliderpath.PathPerfectCurve {
		if len(vertices) != 3 {
			typ = sliderpath.PathBezier
		} else if collinear(vertices[0].Pos, vertices[1].Pos, vertices[2].Pos) {
			typ = sliderpath.PathLinear
		}
	}
	vertices[0].Type = typ

	var out []sliderpath.ControlPoint
	start := 0
	last := len(vertices) - extra - 1
	for end := 1; end <= last; end++ {
		if vertices[end].Pos != vertices[end-1].Pos {
			continue
		}
		if typ == sliderpath.PathCatmull && end > 1 {
			continue
		}
		if end == last {
			continue
		}
		vertices[end-1].Type = typ
		out = append(out, vertices[start:end]...)
		start = end + 1
	}
	return append(out, vertices[start:last+1]...)
}

func parseCoord(head sliderpath.Vec, tok string) (sliderpath.Vec, bool) {
	xy := strings.Split(tok, ":")
	if len(xy) != 2 {
		return sliderpath.Vec{}, false
	}
	return sliderpath.Vec{X: parseFloat(xy[0], head.X), Y: parseFloat(xy[1], head.Y)}.Sub(head), true
}

func collinear(a, b, c sliderpath.Vec) bool {
	return math.Abs(b.Sub(a).Cross(c.Sub(a))) < 1e-3
}

// EncodePath is the inverse of ParsePath. Coordinates are rounded to whole
// playfield pixels.
//
// A typed point is written as a repeated point when that reads back as the
// same segment start, and as a letter before the point otherwise.
func EncodePath(head sliderpath.Vec, points []sliderpath.ControlPoint) string {
	var sb strings.Builder

	last := sliderpath.PathLinear
	if len(points) > 0 && points[0].Type != sliderpath.PathInherited {
		last = points[0].Type
	}
	sb.WriteByte(last.Letter())

	for i := 1; i < len(points); i++ {
		p := points[i]
		abs := head.Add(p.Pos)
		if p.Type != sliderpath.PathInherited {
			if needsLetter(points, i, last, head) {
				sb.WriteByte('|')
				sb.WriteByte(p.Type.Letter())
				last = p.Type
			} else {
				writeCoord(&sb, abs)
			}
		}
		writeCoord(&sb, abs)
	}
	return sb.String()
}

func needsLetter(points []sliderpath.ControlPoint, i int, last sliderpath.PathType, head sliderpath.Vec) bool {
	t := points[i].Type
	switch {
	case t != last, t == sliderpath.PathPerfectCurve, t == sliderpath.PathCatmull:
		return true
	case i == len(points)-1, points[i+1].Type != sliderpath.PathInherited:
		// A repeated point at the end of a group is not a segment start.
		return true
	case i > 1 && sameCoord(head.Add(points[i-1].Pos), head.Add(points[i-2].Pos)):
		return true
	}
	return false
}

func sameCoord(a, b sliderpath.Vec) bool {
	return formatCoord(a.X) == formatCoord(b.X) && formatCoord(a.Y) == formatCoord(b.Y)
}

func writeCoord(sb *strings.Builder, v sliderpath.Vec) {
	sb.WriteByte('|')
	sb.WriteString(formatCoord(v.X))
	sb.WriteByte(':')
	sb.WriteString(formatCoord(v.Y))
}

func formatCoord(f float64) string {
	return strconv.Itoa(int(math.Round(f)))
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
