package dotosu

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Encode writes b back in .osu format. Lines of sliders are regenerated from
// their current position and path; every other line is written as decoded.
func Encode(w io.Writer, b *Beatmap) error {
	sliders := make(map[int]Slider)
	for _, ho := range b.HitObjects {
		if s, ok := ho.(Slider); ok {
			sliders[s.Line()] = s
		}
	}

	eol := "\n"
	if b.crlf {
		eol = "\r\n"
	}

	bw := bufio.NewWriter(w)
	for i, line := range b.lines {
		if s, ok := sliders[i]; ok {
			line = encodeSlider(s)
		}
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if _, err := bw.WriteString(eol); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func EncodeFile(path string, b *Beatmap) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, b); err != nil {
		f.Close()
		return fmt.Errorf("dotosu: encode %s: %w", path, err)
	}
	return f.Close()
}

func encodeSlider(s Slider) string {
	fields := slices.Clone(s.fields)
	fields[0] = formatCoord(s.PosXY.X)
	fields[1] = formatCoord(s.PosXY.Y)
	fields[5] = EncodePath(s.PosXY, s.Path.ControlPoints())

	if length, ok := s.Path.ExpectedDistance(); ok {
		for len(fields) < 8 {
			fields = append(fields, "1")
		}
		fields[7] = strconv.FormatFloat(length, 'f', -1, 64)
	}
	return strings.Join(fields, ",")
}
